package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/credential-auth/config"
	"github.com/duynhne/credential-auth/internal/core/domain"
	logicv1 "github.com/duynhne/credential-auth/internal/logic/v1"
	"github.com/duynhne/credential-auth/middleware"
	pkgzerolog "github.com/duynhne/credential-auth/pkg/logger/zerolog"
)

// ErrorResponse is the body of every non-2xx auth response.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Handler groups HTTP handlers for the auth API v1.
// Dependencies are injected via the constructor; there is no global state.
type Handler struct {
	auth   *logicv1.AuthService
	cookie CookieConfig
	pages  config.PagesConfig
}

// CookieConfig controls the session cookie set on login and registration.
type CookieConfig struct {
	Name   string
	Secure bool
}

// NewHandler creates a new Handler with the given AuthService.
func NewHandler(auth *logicv1.AuthService, cookie CookieConfig, pages config.PagesConfig) *Handler {
	if cookie.Name == "" {
		cookie.Name = "session_token"
	}
	return &Handler{auth: auth, cookie: cookie, pages: pages}
}

// RegisterRoutes registers all auth API v1 routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/logout", h.Logout)
	rg.GET("/auth/pages", h.Pages)
	rg.GET("/auth/me", h.RequireSession(), h.GetMe)
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Status: status, Message: message})
}

// startRequestSpan opens the web-layer span and carries it in c.Request.
func startRequestSpan(c *gin.Context) trace.Span {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.FullPath()),
	))
	c.Request = c.Request.WithContext(ctx)
	return span
}

// Login handles HTTP request for user login.
func (h *Handler) Login(c *gin.Context) {
	span := startRequestSpan(c)
	defer span.End()

	ctx := c.Request.Context()
	logger := pkgzerolog.FromContext(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Warn().Err(err).Msg("Invalid login request")
		abortWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	// Call business logic layer
	response, err := h.auth.Login(ctx, req)
	if err != nil {
		span.RecordError(err)

		switch {
		case logicv1.IsInvalidLogin(err):
			// NoSuchUser and InvalidCredential are deliberately the same response.
			logger.Info().Err(err).Msg("Login rejected")
			abortWithError(c, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, logicv1.ErrMissingField):
			abortWithError(c, http.StatusBadRequest, "Email and password are required")
		default:
			logger.Error().Err(err).Msg("Login failed")
			abortWithError(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.setSessionCookie(c, response)
	logger.Info().Str("user_id", response.User.ID).Msg("Login successful")
	c.JSON(http.StatusOK, response)
}

// Register handles HTTP request for user registration.
func (h *Handler) Register(c *gin.Context) {
	span := startRequestSpan(c)
	defer span.End()

	ctx := c.Request.Context()
	logger := pkgzerolog.FromContext(ctx)

	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Warn().Err(err).Msg("Invalid register request")
		abortWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	// Call business logic layer
	response, err := h.auth.Register(ctx, req)
	if err != nil {
		span.RecordError(err)

		switch {
		case errors.Is(err, logicv1.ErrPostRegistrationAuthFailed):
			logger.Warn().Err(err).Str("user_id", response.User.ID).Msg("Registered, automatic login failed")
			c.JSON(http.StatusCreated, response)
		case errors.Is(err, logicv1.ErrUserExists):
			abortWithError(c, http.StatusConflict, "An account with this email already exists")
		case errors.Is(err, logicv1.ErrMissingField):
			abortWithError(c, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, logicv1.ErrPasswordTooLong):
			abortWithError(c, http.StatusBadRequest, "Password is too long")
		default:
			logger.Error().Err(err).Msg("Registration failed")
			abortWithError(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.setSessionCookie(c, response)
	logger.Info().Str("user_id", response.User.ID).Msg("Registration successful")
	c.JSON(http.StatusCreated, response)
}

// GetMe returns the session view of the current request.
// GET /api/v1/auth/me
// Authorization: Bearer <token> or the session cookie
func (h *Handler) GetMe(c *gin.Context) {
	view, ok := SessionFromContext(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Logout clears the session cookie. Tokens are stateless, so an already
// copied token stays valid until it expires.
func (h *Handler) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.JSON(http.StatusOK, gin.H{"redirect": h.pages.SignOut})
}

// Pages returns the frontend redirect targets.
func (h *Handler) Pages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sign_in":  h.pages.SignIn,
		"sign_out": h.pages.SignOut,
		"error":    h.pages.Error,
	})
}

func (h *Handler) setSessionCookie(c *gin.Context, resp *domain.AuthResponse) {
	if resp.Token == "" || resp.ExpiresAt == nil {
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    resp.Token,
		Path:     "/",
		Expires:  *resp.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
