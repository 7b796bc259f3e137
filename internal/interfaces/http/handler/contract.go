package handler

import (
	membershipapp "github.com/fitdesk/backend/internal/application/membership"
	"github.com/fitdesk/backend/internal/domain/membership"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContractHandler handles contract lifecycle HTTP requests
type ContractHandler struct {
	BaseHandler
	contractService *membershipapp.ContractService
}

// NewContractHandler creates a new contract handler
func NewContractHandler(contractService *membershipapp.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// ContractListQuery captures contract list filters from the query string
type ContractListQuery struct {
	ClientID string `form:"client_id"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateContract godoc
// @Summary      Create a contract
// @Description  Create a new client contract, optionally linked to a sale item
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        request body membershipapp.CreateContractRequest true "Contract details"
// @Success      201 {object} dto.Response{data=membershipapp.ContractResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /contracts [post]
func (h *ContractHandler) CreateContract(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req membershipapp.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contract, err := h.contractService.CreateContract(c.Request.Context(), scope, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, contract)
}

// GetContract godoc
// @Summary      Get a contract
// @Description  Retrieve a contract by its ID
// @Tags         contracts
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} dto.Response{data=membershipapp.ContractResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /contracts/{id} [get]
func (h *ContractHandler) GetContract(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	contract, err := h.contractService.GetContract(c.Request.Context(), scope, contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contract)
}

// ListContracts godoc
// @Summary      List contracts
// @Description  List contracts for the current scope with optional filters
// @Tags         contracts
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        client_id query string false "Filter by client" format(uuid)
// @Param        status query string false "Filter by status" Enums(ACTIVE,SUSPENDED,SCHEDULED_CANCELLATION,CANCELLED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]membershipapp.ContractResponse,meta=dto.Meta}
// @Router       /contracts [get]
func (h *ContractHandler) ListContracts(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var query ContractListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := membership.ContractFilter{
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
	if query.Status != "" {
		status := membership.ContractStatus(query.Status)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid contract status")
			return
		}
		filter.Status = &status
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	contracts, total, err := h.contractService.ListContracts(c.Request.Context(), scope, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, contracts, total, filter.Page, filter.PageSize)
}

// ScheduleSuspension godoc
// @Summary      Schedule a suspension
// @Description  Book a future suspension or activate one starting today
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        id path string true "Contract ID" format(uuid)
// @Param        request body membershipapp.ScheduleSuspensionRequest true "Suspension window"
// @Success      201 {object} dto.Response{data=membershipapp.SuspensionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /contracts/{id}/suspensions [post]
func (h *ContractHandler) ScheduleSuspension(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	var req membershipapp.ScheduleSuspensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	suspension, err := h.contractService.ScheduleSuspension(c.Request.Context(), scope, contractID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, suspension)
}

// ListSuspensions godoc
// @Summary      List suspensions
// @Description  List every suspension of a contract, oldest first
// @Tags         contracts
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]membershipapp.SuspensionDetail}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /contracts/{id}/suspensions [get]
func (h *ContractHandler) ListSuspensions(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	suspensions, err := h.contractService.ListSuspensions(c.Request.Context(), scope, contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, suspensions)
}

// StopSuspension godoc
// @Summary      Stop a suspension
// @Description  Revoke a scheduled suspension or end an active one early
// @Tags         contracts
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        id path string true "Contract ID" format(uuid)
// @Param        suspensionId path string true "Suspension ID" format(uuid)
// @Success      200 {object} dto.Response{data=membershipapp.StopSuspensionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /contracts/{id}/suspensions/{suspensionId}/stop [post]
func (h *ContractHandler) StopSuspension(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	suspensionID, err := uuid.Parse(c.Param("suspensionId"))
	if err != nil {
		h.BadRequest(c, "Invalid suspension ID format")
		return
	}

	result, err := h.contractService.StopSuspension(c.Request.Context(), scope, contractID, suspensionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CancelContract godoc
// @Summary      Cancel a contract
// @Description  Cancel immediately or schedule a future cancellation
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        X-Branch-ID header string true "Branch ID" format(uuid)
// @Param        id path string true "Contract ID" format(uuid)
// @Param        request body membershipapp.CancelContractRequest true "Cancellation details"
// @Success      200 {object} dto.Response{data=membershipapp.CancelContractResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /contracts/{id}/cancel [post]
func (h *ContractHandler) CancelContract(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	var req membershipapp.CancelContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.contractService.CancelContract(c.Request.Context(), scope, contractID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
