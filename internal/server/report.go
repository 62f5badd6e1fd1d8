package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mutazsaeed/fitzy/internal/report/domain"
	"github.com/mutazsaeed/fitzy/internal/report/export"
)

func (s *Server) GetPlatformOverview(c *gin.Context) {
	resp, err := s.reports.PlatformOverview(c.Request.Context(), domain.OverviewQuery{
		Period: c.Query("period"),
		From:   c.Query("from"),
		To:     c.Query("to"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetTopGyms(c *gin.Context) {
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

	resp, err := s.reports.TopGyms(c.Request.Context(), domain.TopGymsQuery{
		From:     c.Query("from"),
		To:       c.Query("to"),
		SortBy:   c.Query("sortBy"),
		Order:    c.Query("order"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetPlanUsage(c *gin.Context) {
	low, err := parseOptionalFloat(c.Query("lowThreshold"))
	if err != nil {
		AbortWithError(c, newValidationError("lowThreshold", "invalid_number", "lowThreshold must be a number"))
		return
	}
	high, err := parseOptionalFloat(c.Query("highThreshold"))
	if err != nil {
		AbortWithError(c, newValidationError("highThreshold", "invalid_number", "highThreshold must be a number"))
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

	resp, err := s.reports.PlanUsage(c.Request.Context(), domain.PlanUsageQuery{
		Period:        c.Query("period"),
		From:          c.Query("from"),
		To:            c.Query("to"),
		LowThreshold:  low,
		HighThreshold: high,
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetGymHourlyHeatmap(c *gin.Context) {
	gymID, branchID, ok := s.gymScopeParams(c)
	if !ok {
		return
	}

	resp, err := s.reports.GymHourlyHeatmap(c.Request.Context(), domain.HeatmapQuery{
		GymID:    gymID,
		BranchID: branchID,
		Period:   c.Query("period"),
		From:     c.Query("from"),
		To:       c.Query("to"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetGymBranchDaily(c *gin.Context) {
	gymID, branchID, ok := s.gymScopeParams(c)
	if !ok {
		return
	}

	resp, err := s.reports.GymBranchDaily(c.Request.Context(), domain.BranchDailyQuery{
		GymID:    gymID,
		BranchID: branchID,
		Period:   c.Query("period"),
		From:     c.Query("from"),
		To:       c.Query("to"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// gymScopeParams parses the required gymId and optional branchId query
// params shared by the gym-scoped analytics endpoints.
func (s *Server) gymScopeParams(c *gin.Context) (int64, *int64, bool) {
	gymID, err := parseOptionalInt64(c.Query("gymId"))
	if err != nil || gymID == nil || *gymID == 0 {
		AbortWithError(c, newValidationError("gymId", "required", "gymId is required"))
		return 0, nil, false
	}
	branchID, err := parseOptionalInt64(c.Query("branchId"))
	if err != nil {
		AbortWithError(c, newValidationError("branchId", "invalid_number", "branchId must be an integer"))
		return 0, nil, false
	}
	return *gymID, branchID, true
}

func (s *Server) GetReconciliation(c *gin.Context) {
	q, ok := s.reconciliationQuery(c)
	if !ok {
		return
	}
	resp, err := s.reports.Reconciliation(c.Request.Context(), q)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) ExportReconciliationCSV(c *gin.Context) {
	q, ok := s.reconciliationQuery(c)
	if !ok {
		return
	}
	dataset, err := s.reports.ReconciliationExport(c.Request.Context(), q)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	buf, err := export.WriteCSV(dataset)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.sendPayload(c, export.BuildPayload("reconciliation-"+dataset.InvoiceMonthTag, export.ExtCSV, buf, s.clock.Now()))
}

func (s *Server) ExportReconciliationPDF(c *gin.Context) {
	q, ok := s.reconciliationQuery(c)
	if !ok {
		return
	}
	dataset, err := s.reports.ReconciliationExport(c.Request.Context(), q)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	buf, err := export.WritePDF(dataset)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.sendPayload(c, export.BuildPayload("reconciliation-"+dataset.InvoiceMonthTag, export.ExtPDF, buf, s.clock.Now()))
}

func (s *Server) reconciliationQuery(c *gin.Context) (domain.ReconciliationQuery, bool) {
	page, err := intQuery(c, "page")
	if err != nil {
		AbortWithError(c, newValidationError("page", "invalid_number", "page must be an integer"))
		return domain.ReconciliationQuery{}, false
	}
	pageSize, err := intQuery(c, "pageSize")
	if err != nil {
		AbortWithError(c, newValidationError("pageSize", "invalid_number", "pageSize must be an integer"))
		return domain.ReconciliationQuery{}, false
	}
	return domain.ReconciliationQuery{
		Month:    c.Query("month"),
		From:     c.Query("from"),
		To:       c.Query("to"),
		SortBy:   c.Query("sortBy"),
		Order:    c.Query("order"),
		Page:     page,
		PageSize: pageSize,
	}, true
}

func (s *Server) sendPayload(c *gin.Context, p export.Payload) {
	c.Header("Content-Disposition", export.ContentDisposition(p.Filename))
	c.Data(http.StatusOK, p.Mime, p.Buffer)
}
