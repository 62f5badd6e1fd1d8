package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mutazsaeed/fitzy/internal/report/domain"
)

func (s *Server) GetGymToday(c *gin.Context) {
	gymID, err := pathID(c, "gymId")
	if err != nil || gymID == 0 {
		AbortWithError(c, newValidationError("gymId", "invalid_number", "gymId must be an integer"))
		return
	}
	branchID, err := parseOptionalInt64(c.Query("branchId"))
	if err != nil {
		AbortWithError(c, newValidationError("branchId", "invalid_number", "branchId must be an integer"))
		return
	}

	resp, err := s.reports.GymToday(c.Request.Context(), domain.GymTodayQuery{
		GymID:    gymID,
		BranchID: branchID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetGymRange(c *gin.Context) {
	gymID, err := pathID(c, "gymId")
	if err != nil || gymID == 0 {
		AbortWithError(c, newValidationError("gymId", "invalid_number", "gymId must be an integer"))
		return
	}
	branchID, err := parseOptionalInt64(c.Query("branchId"))
	if err != nil {
		AbortWithError(c, newValidationError("branchId", "invalid_number", "branchId must be an integer"))
		return
	}

	resp, err := s.reports.GymRange(c.Request.Context(), domain.GymRangeQuery{
		GymID:    gymID,
		From:     c.Query("from"),
		To:       c.Query("to"),
		BranchID: branchID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetGymTopUsers(c *gin.Context) {
	gymID, err := pathID(c, "gymId")
	if err != nil || gymID == 0 {
		AbortWithError(c, newValidationError("gymId", "invalid_number", "gymId must be an integer"))
		return
	}
	branchID, err := parseOptionalInt64(c.Query("branchId"))
	if err != nil {
		AbortWithError(c, newValidationError("branchId", "invalid_number", "branchId must be an integer"))
		return
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		AbortWithError(c, newValidationError("limit", "invalid_number", "limit must be an integer"))
		return
	}

	resp, err := s.reports.GymTopUsers(c.Request.Context(), domain.GymTopUsersQuery{
		GymID:    gymID,
		Limit:    limit,
		From:     c.Query("from"),
		To:       c.Query("to"),
		BranchID: branchID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
