package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/forestplants/storefront/internal/core/domain"
	"github.com/forestplants/storefront/internal/core/ports"
	"github.com/forestplants/storefront/internal/core/service"
)

type SessionHandler struct {
	session ports.SessionService
}

func NewSessionHandler(session ports.SessionService) *SessionHandler {
	return &SessionHandler{session: session}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	LoggedIn  bool                `json:"loggedIn"`
	Admin     bool                `json:"admin"`
	Role      string              `json:"role,omitempty"`
	User      *domain.UserProfile `json:"user,omitempty"`
	ExpiresAt *time.Time          `json:"expiresAt,omitempty"`
}

func (h *SessionHandler) state() sessionResponse {
	resp := sessionResponse{
		LoggedIn: h.session.IsLoggedIn(),
		Admin:    h.session.IsAdmin(),
		Role:     h.session.Role(),
		User:     h.session.Profile(),
	}
	if exp, ok := service.CredentialExpiry(h.session.Credential()); ok {
		resp.ExpiresAt = &exp
	}
	return resp
}

// Show returns the current session state.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /_state/session [get]
func (h *SessionHandler) Show(c echo.Context) error {
	return c.JSON(http.StatusOK, h.state())
}

// Login signs in with email and password.
//
// @Summary      Sign in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /_state/session [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := h.session.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.state())
}

// Register creates an account and signs in with it.
//
// @Summary      Create an account
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      ports.RegisterInput  true  "Account details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /_state/session/register [post]
func (h *SessionHandler) Register(c echo.Context) error {
	var req ports.RegisterInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := h.session.Register(c.Request().Context(), req); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.state())
}

// Refresh reloads the profile from the backend.
//
// @Summary      Refresh the profile
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /_state/session/refresh [post]
func (h *SessionHandler) Refresh(c echo.Context) error {
	if _, err := h.session.RefreshProfile(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.state())
}

// Logout clears the session.
//
// @Summary      Sign out
// @Tags         session
// @Success      204
// @Router       /_state/session [delete]
func (h *SessionHandler) Logout(c echo.Context) error {
	h.session.Logout()
	return c.NoContent(http.StatusNoContent)
}
