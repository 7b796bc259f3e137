package handler

import (
	financeapp "github.com/fitdesk/backend/internal/application/finance"
	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FinanceHandler handles receivable and ledger transaction HTTP requests
type FinanceHandler struct {
	BaseHandler
	receivableService  *financeapp.ReceivableService
	transactionService *financeapp.TransactionService
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(
	receivableService *financeapp.ReceivableService,
	transactionService *financeapp.TransactionService,
) *FinanceHandler {
	return &FinanceHandler{
		receivableService:  receivableService,
		transactionService: transactionService,
	}
}

// TransactionListQuery captures transaction list filters from the query string
type TransactionListQuery struct {
	Type     string `form:"type"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// PayReceivables godoc
// @Summary      Pay open receivables
// @Description  Apply a payment across a client's open receivables, oldest due first
// @Tags         finance-receivables
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        clientId path string true "Client ID" format(uuid)
// @Param        request body financeapp.PayReceivablesRequest true "Payment details"
// @Success      200 {object} dto.Response{data=financeapp.PayReceivablesResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /clients/{clientId}/receivable-payments [post]
func (h *FinanceHandler) PayReceivables(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	clientID, err := uuid.Parse(c.Param("clientId"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	var req financeapp.PayReceivablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.ClientID != clientID {
		h.BadRequest(c, "Client ID in body does not match path")
		return
	}

	result, err := h.receivableService.PayReceivables(c.Request.Context(), scope, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListOpenReceivables godoc
// @Summary      List open receivables
// @Description  List a client's open receivables ordered by due date
// @Tags         finance-receivables
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        clientId path string true "Client ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]financeapp.ReceivableResponse}
// @Router       /clients/{clientId}/receivables [get]
func (h *FinanceHandler) ListOpenReceivables(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	clientID, err := uuid.Parse(c.Param("clientId"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	receivables, err := h.receivableService.ListOpenReceivables(c.Request.Context(), scope, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receivables)
}

// CreateTransaction godoc
// @Summary      Create a ledger transaction
// @Description  Record a manual financial transaction
// @Tags         finance-transactions
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        request body financeapp.CreateTransactionRequest true "Transaction details"
// @Success      201 {object} dto.Response{data=financeapp.TransactionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /transactions [post]
func (h *FinanceHandler) CreateTransaction(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req financeapp.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transaction, err := h.transactionService.Create(c.Request.Context(), scope, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, transaction)
}

// GetTransaction godoc
// @Summary      Get a ledger transaction
// @Description  Retrieve a financial transaction by its ID
// @Tags         finance-transactions
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.TransactionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /transactions/{id} [get]
func (h *FinanceHandler) GetTransaction(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	transaction, err := h.transactionService.Get(c.Request.Context(), scope, transactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transaction)
}

// ListTransactions godoc
// @Summary      List ledger transactions
// @Description  List financial transactions with optional type and date filters
// @Tags         finance-transactions
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        type query string false "Filter by type" Enums(SALE,EXPENSE,RECEIVABLE_PAYMENT)
// @Param        date_from query string false "From date (inclusive)" format(date)
// @Param        date_to query string false "To date (inclusive)" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]financeapp.TransactionResponse,meta=dto.Meta}
// @Router       /transactions [get]
func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var query TransactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := finance.TransactionFilter{
		DateFrom: query.DateFrom,
		DateTo:   query.DateTo,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Type != "" {
		txType := finance.TransactionType(query.Type)
		if !txType.IsValid() {
			h.BadRequest(c, "Invalid transaction type")
			return
		}
		filter.Type = &txType
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	transactions, total, err := h.transactionService.List(c.Request.Context(), scope, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, transactions, total, filter.Page, filter.PageSize)
}

// UpdateTransaction godoc
// @Summary      Update a ledger transaction
// @Description  Amend the amount, date or description of a transaction
// @Tags         finance-transactions
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        id path string true "Transaction ID" format(uuid)
// @Param        request body financeapp.UpdateTransactionRequest true "Updated fields"
// @Success      200 {object} dto.Response{data=financeapp.TransactionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /transactions/{id} [put]
func (h *FinanceHandler) UpdateTransaction(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	var req financeapp.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transaction, err := h.transactionService.Update(c.Request.Context(), scope, transactionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transaction)
}

// DeleteTransaction godoc
// @Summary      Delete a ledger transaction
// @Description  Remove a financial transaction from the ledger
// @Tags         finance-transactions
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /transactions/{id} [delete]
func (h *FinanceHandler) DeleteTransaction(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	if err := h.transactionService.Delete(c.Request.Context(), scope, transactionID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
