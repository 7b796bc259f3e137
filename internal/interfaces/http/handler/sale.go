package handler

import (
	salesapp "github.com/fitdesk/backend/internal/application/sales"
	"github.com/fitdesk/backend/internal/domain/sales"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleHandler handles sale HTTP requests
type SaleHandler struct {
	BaseHandler
	saleService *salesapp.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *salesapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// SaleListQuery captures sale list filters from the query string
type SaleListQuery struct {
	ClientID string `form:"client_id"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// SaveSale godoc
// @Summary      Save a sale
// @Description  Create or update a sale, generating contracts, ledger entries and receivables
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        request body salesapp.SaveSaleRequest true "Sale details"
// @Success      200 {object} dto.Response{data=salesapp.SaveSaleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales [post]
func (h *SaleHandler) SaveSale(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req salesapp.SaveSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.saleService.SaveSale(c.Request.Context(), scope, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetSale godoc
// @Summary      Get a sale
// @Description  Retrieve a sale with its items and totals
// @Tags         sales
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} dto.Response{data=salesapp.SaleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales/{id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), scope, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// ListSales godoc
// @Summary      List sales
// @Description  List sales for the current scope with optional filters
// @Tags         sales
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        client_id query string false "Filter by client" format(uuid)
// @Param        date_from query string false "From date (inclusive)" format(date)
// @Param        date_to query string false "To date (inclusive)" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]salesapp.SaleResponse,meta=dto.Meta}
// @Router       /sales [get]
func (h *SaleHandler) ListSales(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var query SaleListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := sales.SaleFilter{
		DateFrom: query.DateFrom,
		DateTo:   query.DateTo,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.ClientID != "" {
		clientID, err := uuid.Parse(query.ClientID)
		if err != nil {
			h.BadRequest(c, "Invalid client ID format")
			return
		}
		filter.ClientID = &clientID
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	salesList, total, err := h.saleService.ListSales(c.Request.Context(), scope, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, salesList, total, filter.Page, filter.PageSize)
}

// DeleteSale godoc
// @Summary      Delete a sale
// @Description  Soft-delete a sale; generated contracts and ledger entries remain
// @Tags         sales
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        id path string true "Sale ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales/{id} [delete]
func (h *SaleHandler) DeleteSale(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	if err := h.saleService.DeleteSale(c.Request.Context(), scope, saleID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
