package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/openbooks-backend/internal/core/ports/services"
	"github.com/openbooks/openbooks-backend/internal/dto"
	"github.com/openbooks/openbooks-backend/internal/middleware"
)

// companyHandler handles company (tenant) related requests.
type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

func newCompanyHandler(cs portssvc.CompanySvcFacade) *companyHandler {
	return &companyHandler{companyService: cs}
}

// registerCompanyRoutes sets up the company routes and nests the
// company-scoped resources (accounts, vouchers, ledger, exchange rates)
// under /companies/:company_id.
func registerCompanyRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newCompanyHandler(services.Company)
	companies := rg.Group("/companies")
	{
		companies.POST("", h.createCompany)
		companies.GET("", h.listCompanies)

		company := companies.Group("/:company_id")
		{
			company.GET("", h.getCompany)
			company.PUT("/settings", h.updateSettings)
			company.POST("/users", h.addUserToCompany)

			registerAccountRoutes(company, services)
			registerVoucherRoutes(company, services)
			registerLedgerRoutes(company, services)
			registerExchangeRateRoutes(company, services)
		}
	}
}

// createCompany godoc
// @Summary Create company
// @Description Creates a new company with the caller as admin.
// @Tags companies
// @Accept json
// @Produce json
// @Param company body dto.CreateCompanyRequest true "Company to create"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies [post]
func (h *companyHandler) createCompany(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create company")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCompanyResponse(company))
}

// listCompanies godoc
// @Summary List companies
// @Description Retrieves all companies the caller is a member of.
// @Tags companies
// @Produce json
// @Success 200 {array} dto.CompanyResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies [get]
func (h *companyHandler) listCompanies(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	companies, err := h.companyService.ListCompanies(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list companies")
		return
	}

	responses := make([]dto.CompanyResponse, len(companies))
	for i := range companies {
		responses[i] = dto.ToCompanyResponse(&companies[i])
	}
	c.JSON(http.StatusOK, responses)
}

// getCompany godoc
// @Summary Get company by ID
// @Description Retrieves a company the caller is a member of.
// @Tags companies
// @Produce json
// @Param company_id path string true "Company ID"
// @Success 200 {object} dto.CompanyResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id} [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	company, err := h.companyService.GetCompanyByID(c.Request.Context(), c.Param("company_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to get company")
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// updateSettings godoc
// @Summary Update company settings
// @Description Updates the company's accounting policy. Admin only. The base
// currency is fixed at creation and cannot be changed here.
// @Tags companies
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param settings body dto.UpdateCompanySettingsRequest true "Settings to update"
// @Success 200 {object} dto.CompanyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/settings [put]
func (h *companyHandler) updateSettings(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.UpdateCompanySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	company, err := h.companyService.UpdateSettings(c.Request.Context(), c.Param("company_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update company settings")
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// addUserToCompany godoc
// @Summary Add user to company
// @Description Adds a user to the company with a role. Admin only.
// @Tags companies
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param membership body dto.AddUserToCompanyRequest true "User and role to add"
// @Success 204 "User added"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/users [post]
func (h *companyHandler) addUserToCompany(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.AddUserToCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.companyService.AddUserToCompany(c.Request.Context(), c.Param("company_id"), req, userID); err != nil {
		respondError(c, err, "Failed to add user to company")
		return
	}

	c.Status(http.StatusNoContent)
}
