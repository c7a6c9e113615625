package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/openbooks-backend/internal/core/ports/services"
	"github.com/openbooks/openbooks-backend/internal/dto"
	"github.com/openbooks/openbooks-backend/internal/middleware"
)

// exchangeRateHandler handles exchange rate related requests.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(es portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{exchangeRateService: es}
}

// registerExchangeRateRoutes sets up the exchange rate routes under a company group.
func registerExchangeRateRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newExchangeRateHandler(services.ExchangeRate)
	rates := rg.Group("/exchange-rates")
	{
		rates.POST("", h.createExchangeRate)
		rates.GET("", h.getExchangeRate)
	}
}

// createExchangeRate godoc
// @Summary Create exchange rate
// @Description Records a conversion rate for a currency pair effective from a date.
// @Tags exchange-rates
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param rate body dto.CreateExchangeRateRequest true "Exchange rate to create"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Duplicate rate for pair and date"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	rate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), c.Param("company_id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create exchange rate")
		return
	}

	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// getExchangeRate godoc
// @Summary Get exchange rate
// @Description Retrieves the latest rate for a currency pair, or the rate
// effective on a given date when ?date= is supplied.
// @Tags exchange-rates
// @Produce json
// @Param company_id path string true "Company ID"
// @Param from query string true "Source currency code"
// @Param to query string true "Target currency code"
// @Param date query string false "Effective date (YYYY-MM-DD)"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No rate recorded for pair"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/exchange-rates [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	companyID := c.Param("company_id")
	fromCode := c.Query("from")
	toCode := c.Query("to")
	if fromCode == "" || toCode == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Query parameters 'from' and 'to' are required"})
		return
	}

	var rate *dto.ExchangeRateResponse
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date format, expected YYYY-MM-DD"})
			return
		}
		found, err := h.exchangeRateService.GetRateForDate(c.Request.Context(), companyID, fromCode, toCode, date)
		if err != nil {
			respondError(c, err, "Failed to get exchange rate")
			return
		}
		resp := dto.ToExchangeRateResponse(found)
		rate = &resp
	} else {
		found, err := h.exchangeRateService.GetExchangeRate(c.Request.Context(), companyID, fromCode, toCode)
		if err != nil {
			respondError(c, err, "Failed to get exchange rate")
			return
		}
		resp := dto.ToExchangeRateResponse(found)
		rate = &resp
	}

	c.JSON(http.StatusOK, rate)
}
