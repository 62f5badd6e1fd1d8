package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mutazsaeed/fitzy/internal/report/domain"
)

func (s *Server) GetMyVisits(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil || userID == 0 {
		AbortWithError(c, newValidationError("userId", "invalid_number", "userId must be an integer"))
		return
	}
	page, err := intQuery(c, "page")
	if err != nil {
		AbortWithError(c, newValidationError("page", "invalid_number", "page must be an integer"))
		return
	}
	pageSize, err := intQuery(c, "pageSize")
	if err != nil {
		AbortWithError(c, newValidationError("pageSize", "invalid_number", "pageSize must be an integer"))
		return
	}

	resp, err := s.reports.MyVisits(c.Request.Context(), domain.MyVisitsQuery{
		UserID:   userID,
		From:     c.Query("from"),
		To:       c.Query("to"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetSubscriptionRemaining(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil || userID == 0 {
		AbortWithError(c, newValidationError("userId", "invalid_number", "userId must be an integer"))
		return
	}
	visitThreshold, err := parseOptionalInt(c.Query("visitThreshold"))
	if err != nil {
		AbortWithError(c, newValidationError("visitThreshold", "invalid_number", "visitThreshold must be an integer"))
		return
	}
	daysThreshold, err := parseOptionalInt(c.Query("daysThreshold"))
	if err != nil {
		AbortWithError(c, newValidationError("daysThreshold", "invalid_number", "daysThreshold must be an integer"))
		return
	}

	resp, err := s.reports.SubscriptionRemaining(c.Request.Context(), domain.RemainingQuery{
		UserID:         userID,
		AsOf:           c.Query("asOf"),
		VisitThreshold: visitThreshold,
		DaysThreshold:  daysThreshold,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
