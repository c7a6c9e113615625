package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/openbooks-backend/internal/core/ports/services"
	"github.com/openbooks/openbooks-backend/internal/middleware"
	"github.com/openbooks/openbooks-backend/pkg/config"
)

const oauthStateCookieName = "oauth_state"

// googleOAuthHandler handles the server-side Google OAuth redirect flow.
type googleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	tokenService       portssvc.TokenSvcFacade
	cfg                *config.Config
}

// newGoogleOAuthHandler creates a new googleOAuthHandler.
func newGoogleOAuthHandler(
	gs portssvc.GoogleOAuthHandlerSvcFacade,
	us portssvc.UserSvcFacade,
	ts portssvc.TokenSvcFacade,
	cfg *config.Config,
) *googleOAuthHandler {
	return &googleOAuthHandler{
		googleOAuthService: gs,
		userService:        us,
		tokenService:       ts,
		cfg:                cfg,
	}
}

// registerGoogleOAuthRoutes registers the Google OAuth routes under the auth group.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newGoogleOAuthHandler(services.GoogleOAuth, services.User, services.Token, cfg)
	googleRoutes := rg.Group("/google")
	{
		googleRoutes.GET("/login", h.loginGoogle)
		googleRoutes.GET("/callback", h.callbackGoogle)
	}
}

// loginGoogle godoc
// @Summary Start Google OAuth flow
// @Description Sets a CSRF state cookie and redirects the browser to Google's consent screen.
// @Tags oauth
// @Success 307 "Redirect to Google"
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login [get]
func (h *googleOAuthHandler) loginGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		logger.Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start Google login"})
		return
	}

	// Short-lived cookie; verified on callback to tie the response to this browser.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookieName, state, 600, "/api/v1/auth/google", "", h.cfg.IsProduction, true)

	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuthService.GetGoogleLoginURL(ctx, state))
}

// callbackGoogle godoc
// @Summary Google OAuth callback
// @Description Verifies the CSRF state, exchanges the authorization code,
// resolves the Google account to a local user, issues tokens and redirects
// back to the frontend with the access token in the fragment.
// @Tags oauth
// @Param state query string true "CSRF state from the login redirect"
// @Param code query string true "Authorization code from Google"
// @Success 307 "Redirect to frontend"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *googleOAuthHandler) callbackGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	expectedState, err := c.Cookie(oauthStateCookieName)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		logger.Warn("OAuth state mismatch on Google callback")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	// State is single use.
	c.SetCookie(oauthStateCookieName, "", -1, "/api/v1/auth/google", "", h.cfg.IsProduction, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Authorization code is required"})
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired authorization code"})
		return
	}

	userInfo, err := h.googleOAuthService.GetUserInfo(ctx, oauth2Token)
	if err != nil {
		logger.Error("Failed to fetch Google user info", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve user information from Google"})
		return
	}
	if userInfo.Email == "" || userInfo.ID == "" {
		logger.Error("Essential fields missing from Google user info")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Incomplete user information from Google"})
		return
	}

	user, err := h.userService.FindOrCreateUserFromGoogle(ctx, userInfo)
	if err != nil {
		logger.Error("Failed to resolve Google account to local user", slog.String("error", err.Error()))
		respondError(c, err, "Failed to process Google login")
		return
	}

	auth := newAuthHandler(h.userService, h.tokenService, h.cfg)
	resp, err := auth.issueTokens(c, user)
	if err != nil {
		logger.Error("Failed to issue tokens after Google login", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	logger.Info("User logged in via Google", slog.String("user_id", user.UserID))

	// Access token travels in the fragment so it never hits frontend server logs.
	c.Redirect(http.StatusTemporaryRedirect, h.cfg.FrontendBaseURL+"/auth/callback#token="+resp.Token)
}
