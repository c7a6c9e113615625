package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/openbooks-backend/internal/core/ports/services"
	"github.com/openbooks/openbooks-backend/internal/dto"
	"github.com/openbooks/openbooks-backend/internal/middleware"
)

// voucherHandler handles the voucher lifecycle requests.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

func newVoucherHandler(vs portssvc.VoucherSvcFacade) *voucherHandler {
	return &voucherHandler{voucherService: vs}
}

// registerVoucherRoutes sets up the voucher routes under a company group. The
// posting and reversal routes live in handler_ledger.go since they belong to
// the posting engine.
func registerVoucherRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newVoucherHandler(services.Voucher)
	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.createVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:voucher_id", h.getVoucher)
		vouchers.PUT("/:voucher_id", h.updateVoucher)
		vouchers.DELETE("/:voucher_id", h.deleteVoucher)
		vouchers.POST("/:voucher_id/approve", h.approveVoucher)
		vouchers.POST("/:voucher_id/reject", h.rejectVoucher)
		vouchers.POST("/:voucher_id/lock", h.lockVoucher)
	}
}

// createVoucher godoc
// @Summary Create voucher
// @Description Creates a new draft voucher of the given type. Lines are
// validated and balanced by the type handler. Under a FLEXIBLE approval mode
// the draft is auto-approved.
// @Tags vouchers
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param voucher body dto.CreateVoucherRequest true "Voucher to create"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} ErrorResponse "Validation or imbalance error"
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers [post]
func (h *voucherHandler) createVoucher(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), c.Param("company_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create voucher")
		return
	}

	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// listVouchers godoc
// @Summary List vouchers
// @Description Retrieves a paginated list of the company's vouchers, newest
// first. Use nextToken from the previous page to continue.
// @Tags vouchers
// @Produce json
// @Param company_id path string true "Company ID"
// @Param limit query int false "Max results per page" default(20)
// @Param nextToken query string false "Continuation token from previous page"
// @Param status query string false "Filter by status (DRAFT, APPROVED, LOCKED, REJECTED)"
// @Success 200 {object} dto.ListVouchersResponse
// @Failure 400 {object} ErrorResponse "Malformed continuation token"
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var params dto.ListVouchersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	resp, err := h.voucherService.ListVouchers(c.Request.Context(), c.Param("company_id"), userID, params)
	if err != nil {
		respondError(c, err, "Failed to list vouchers")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getVoucher godoc
// @Summary Get voucher by ID
// @Description Retrieves a voucher with its lines.
// @Tags vouchers
// @Produce json
// @Param company_id path string true "Company ID"
// @Param voucher_id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers/{voucher_id} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	voucher, err := h.voucherService.GetVoucherByID(c.Request.Context(), c.Param("company_id"), c.Param("voucher_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to get voucher")
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// updateVoucher godoc
// @Summary Update voucher
// @Description Updates header fields of a draft voucher. Vouchers past draft
// cannot be edited.
// @Tags vouchers
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param voucher_id path string true "Voucher ID"
// @Param voucher body dto.UpdateVoucherRequest true "Fields to update"
// @Success 200 {object} dto.VoucherResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Voucher is not a draft"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers/{voucher_id} [put]
func (h *voucherHandler) updateVoucher(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.UpdateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	voucher, err := h.voucherService.UpdateVoucher(c.Request.Context(), c.Param("company_id"), c.Param("voucher_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update voucher")
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// deleteVoucher godoc
// @Summary Delete voucher
// @Description Deletes a voucher. Drafts and rejected vouchers can always be
// deleted; locked vouchers only when the company policy allows it.
// @Tags vouchers
// @Param company_id path string true "Company ID"
// @Param voucher_id path string true "Voucher ID"
// @Success 204 "Voucher deleted"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers/{voucher_id} [delete]
func (h *voucherHandler) deleteVoucher(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	if err := h.voucherService.DeleteVoucher(c.Request.Context(), c.Param("company_id"), c.Param("voucher_id"), userID); err != nil {
		respondError(c, err, "Failed to delete voucher")
		return
	}

	c.Status(http.StatusNoContent)
}

// approveVoucher godoc
// @Summary Approve voucher
// @Description Transitions a draft voucher to APPROVED. Requires reviewer role
// or above; creators cannot approve their own vouchers under STRICT mode.
// @Tags vouchers
// @Produce json
// @Param company_id path string true "Company ID"
// @Param voucher_id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Voucher is not a draft"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers/{voucher_id}/approve [post]
func (h *voucherHandler) approveVoucher(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	voucher, err := h.voucherService.ApproveVoucher(c.Request.Context(), c.Param("company_id"), c.Param("voucher_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to approve voucher")
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// rejectVoucher godoc
// @Summary Reject voucher
// @Description Transitions a draft voucher to REJECTED with a mandatory reason.
// @Tags vouchers
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param voucher_id path string true "Voucher ID"
// @Param rejection body dto.RejectVoucherRequest true "Rejection reason"
// @Success 200 {object} dto.VoucherResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Voucher is not a draft"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers/{voucher_id}/reject [post]
func (h *voucherHandler) rejectVoucher(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.RejectVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Rejection reason is required"})
		return
	}

	voucher, err := h.voucherService.RejectVoucher(c.Request.Context(), c.Param("company_id"), c.Param("voucher_id"), userID, req.Reason)
	if err != nil {
		respondError(c, err, "Failed to reject voucher")
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// lockVoucher godoc
// @Summary Lock voucher
// @Description Transitions an approved voucher to LOCKED, making it eligible
// for posting.
// @Tags vouchers
// @Produce json
// @Param company_id path string true "Company ID"
// @Param voucher_id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Voucher is not approved"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers/{voucher_id}/lock [post]
func (h *voucherHandler) lockVoucher(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	voucher, err := h.voucherService.LockVoucher(c.Request.Context(), c.Param("company_id"), c.Param("voucher_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to lock voucher")
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}
