package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the login endpoint for the two staff consoles.
type Handler struct {
	creds    Credentials
	sessions *SessionManager
}

func NewHandler(creds Credentials, sessions *SessionManager) *Handler {
	return &Handler{creds: creds, sessions: sessions}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/login", h.Login)
}

type loginRequest struct {
	Role     string `json:"role"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	ExpiresIn int    `json:"expires_in"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !h.creds.Check(req.Role, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	token, err := h.sessions.Issue(req.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue session")
	}
	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		Role:      req.Role,
		ExpiresIn: int(h.sessions.TTL().Seconds()),
	})
}
