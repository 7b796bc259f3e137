package handler

import (
	summaryapp "github.com/fitdesk/backend/internal/application/summary"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
)

// SummaryHandler handles financial summary HTTP requests
type SummaryHandler struct {
	BaseHandler
	queryService *summaryapp.QueryService
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(queryService *summaryapp.QueryService) *SummaryHandler {
	return &SummaryHandler{queryService: queryService}
}

// DailyRangeQuery captures the closed date interval of a range query
type DailyRangeQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// GetDailySummary godoc
// @Summary      Get a daily summary
// @Description  Retrieve the aggregate counters for one day; days without activity return zeros
// @Tags         summaries
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        date path string true "Date" format(date)
// @Success      200 {object} dto.Response{data=summaryapp.DailySummaryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /summaries/daily/{date} [get]
func (h *SummaryHandler) GetDailySummary(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	date, err := valueobject.ParseDate(c.Param("date"))
	if err != nil {
		h.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	result, err := h.queryService.GetDaily(c.Request.Context(), scope, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetDailySummaryRange godoc
// @Summary      Get daily summaries for a range
// @Description  Retrieve the summaries of each day with activity inside a closed date interval
// @Tags         summaries
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        from query string true "Start date (inclusive)" format(date)
// @Param        to query string true "End date (inclusive)" format(date)
// @Success      200 {object} dto.Response{data=[]summaryapp.DailySummaryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /summaries/daily [get]
func (h *SummaryHandler) GetDailySummaryRange(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var query DailyRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	from, err := valueobject.ParseDate(query.From)
	if err != nil {
		h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := valueobject.ParseDate(query.To)
	if err != nil {
		h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
		return
	}

	result, err := h.queryService.GetDailyRange(c.Request.Context(), scope, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetMonthlySummary godoc
// @Summary      Get a monthly summary
// @Description  Retrieve the aggregate counters for one month; months without activity return zeros
// @Tags         summaries
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        month path string true "Month (YYYY-MM)"
// @Success      200 {object} dto.Response{data=summaryapp.MonthlySummaryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /summaries/monthly/{month} [get]
func (h *SummaryHandler) GetMonthlySummary(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.queryService.GetMonthly(c.Request.Context(), scope, c.Param("month"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
