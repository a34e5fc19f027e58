package rest

import (
	"errors"
	"net/http"

	"github.com/dfryer1193/markblog/api"
	"github.com/dfryer1193/markblog/internal/middleware"
	"github.com/dfryer1193/markblog/shared/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AuthHandler struct {
	authn *auth.Authenticator
}

func NewAuthHandler(authn *auth.Authenticator) *AuthHandler {
	return &AuthHandler{authn: authn}
}

func (h *AuthHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/check", middleware.OptionalAuth(h.authn), h.Check)
}

func (h *AuthHandler) Login(c *gin.Context) {
	req := &api.LoginRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Password is required"})
		return
	}

	if err := h.authn.CheckPassword(req.Password); err != nil {
		if errors.Is(err, auth.ErrNotConfigured) {
			log.Error().Msg("Login attempted but no admin password is configured")
		} else {
			log.Warn().Str("ip", c.ClientIP()).Msg("Failed admin login")
		}
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid password"})
		return
	}

	token, err := h.authn.Issue()
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue session token")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Login failed"})
		return
	}

	h.setSessionCookie(c, token, int(h.authn.TTL().Seconds()))
	c.JSON(http.StatusOK, api.LoginResponse{Success: true})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, api.LoginResponse{Success: true})
}

func (h *AuthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, api.AuthCheckResponse{Authenticated: middleware.IsAdmin(c)})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, value, maxAge, "/", "", c.Request.TLS != nil, true)
}
