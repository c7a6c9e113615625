package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/openbooks-backend/internal/core/ports/services"
	"github.com/openbooks/openbooks-backend/internal/dto"
	"github.com/openbooks/openbooks-backend/internal/middleware"
)

// ledgerHandler handles the posting engine and ledger read requests.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes sets up the posting, reversal and ledger read routes
// under a company group. These reuse the vouchers and accounts path segments
// the CRUD handlers register.
func registerLedgerRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newLedgerHandler(services.Ledger)

	rg.POST("/vouchers/:voucher_id/post", h.postVoucher)
	rg.POST("/vouchers/:voucher_id/reverse", h.reverseVoucher)
	rg.GET("/vouchers/:voucher_id/entries", h.getVoucherEntries)
	rg.GET("/accounts/:account_id/entries", h.listAccountEntries)
}

// postVoucher godoc
// @Summary Post voucher to ledger
// @Description Writes one immutable ledger entry per voucher line and updates
// account balances atomically. The voucher must be LOCKED, or APPROVED under a
// FLEXIBLE approval mode (posting locks it in the same transaction).
// @Tags ledger
// @Produce json
// @Param company_id path string true "Company ID"
// @Param voucher_id path string true "Voucher ID"
// @Success 201 {array} dto.LedgerEntryResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Voucher not postable or already posted"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers/{voucher_id}/post [post]
func (h *ledgerHandler) postVoucher(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	entries, err := h.ledgerService.PostVoucher(c.Request.Context(), c.Param("company_id"), c.Param("voucher_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to post voucher")
		return
	}

	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponses(entries))
}

// reverseVoucher godoc
// @Summary Reverse posted voucher
// @Description Creates a new draft voucher whose lines mirror the original's
// posted ledger entries with debit and credit swapped. The original voucher is
// never mutated and can only be reversed once.
// @Tags ledger
// @Produce json
// @Param company_id path string true "Company ID"
// @Param voucher_id path string true "Voucher ID of the posted voucher"
// @Success 201 {object} dto.VoucherResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Voucher not posted or already reversed"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers/{voucher_id}/reverse [post]
func (h *ledgerHandler) reverseVoucher(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	reversal, err := h.ledgerService.ReverseVoucher(c.Request.Context(), c.Param("company_id"), c.Param("voucher_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to reverse voucher")
		return
	}

	c.JSON(http.StatusCreated, dto.ToVoucherResponse(reversal))
}

// getVoucherEntries godoc
// @Summary Get ledger entries for a voucher
// @Description Retrieves the immutable entries posted for a voucher.
// @Tags ledger
// @Produce json
// @Param company_id path string true "Company ID"
// @Param voucher_id path string true "Voucher ID"
// @Success 200 {array} dto.LedgerEntryResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/vouchers/{voucher_id}/entries [get]
func (h *ledgerHandler) getVoucherEntries(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	entries, err := h.ledgerService.GetEntriesByVoucher(c.Request.Context(), c.Param("company_id"), c.Param("voucher_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to get ledger entries")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerEntryResponses(entries))
}

// listAccountEntries godoc
// @Summary List ledger entries for an account
// @Description Retrieves a paginated list of the entries posted against an
// account, newest first.
// @Tags ledger
// @Produce json
// @Param company_id path string true "Company ID"
// @Param account_id path string true "Account ID"
// @Param limit query int false "Max results per page" default(20)
// @Param nextToken query string false "Continuation token from previous page"
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Failure 400 {object} ErrorResponse "Malformed continuation token"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/{account_id}/entries [get]
func (h *ledgerHandler) listAccountEntries(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var params dto.ListLedgerEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	resp, err := h.ledgerService.ListEntriesByAccount(c.Request.Context(), c.Param("company_id"), c.Param("account_id"), userID, params)
	if err != nil {
		respondError(c, err, "Failed to list ledger entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}
