package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/courseverse/course-marketplace/internal/api/metrics"
	"github.com/courseverse/course-marketplace/internal/core/domain"
	"github.com/courseverse/course-marketplace/internal/core/ports"
)

// AccountHandler exposes signup, login and profile management for one role
// collection. The router registers one instance under /users and one under
// /admin.
type AccountHandler struct {
	service ports.AccountService
	role    string
}

func NewAccountHandler(service ports.AccountService, role string) *AccountHandler {
	return &AccountHandler{service: service, role: role}
}

// Signup creates a new account.
//
// @Summary      Create an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /users/signup [post]
func (h *AccountHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.service.Signup(c.Request().Context(), ports.SignupInput{
		Username:     req.Username,
		Password:     req.Password,
		Name:         req.Name,
		ProfilePhoto: req.ProfilePhoto,
		Bio:          req.Bio,
	})
	if err != nil {
		return err
	}

	metrics.SignupsTotal.WithLabelValues(h.role).Inc()
	return c.JSON(http.StatusCreated, messageResponse{Message: "account created successfully, please login"})
}

// Login authenticates an account and returns a bearer token.
//
// @Summary      Login
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Router       /users/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	tokenString, err := h.service.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		// Unknown account and wrong password produce the same response, so
		// login cannot be used to probe for usernames.
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	return c.JSON(http.StatusOK, loginResponse{Message: "login successful", Token: tokenString})
}

// Profile returns the caller's profile details.
//
// @Summary      Fetch own profile
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/profile [get]
func (h *AccountHandler) Profile(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	account, err := h.service.Profile(c.Request().Context(), username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		Username:     account.Username,
		Name:         account.Name,
		ProfilePhoto: account.ProfilePhoto,
		Bio:          account.Bio,
	})
}

// UpdateProfile replaces the caller's mutable profile fields.
//
// @Summary      Update own profile
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileUpdateRequest  true  "Profile fields"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/profileupdate [put]
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req profileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.service.UpdateProfile(c.Request().Context(), username, ports.ProfileUpdateInput{
		Name:         req.Name,
		ProfilePhoto: req.ProfilePhoto,
		Bio:          req.Bio,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "updated successfully"})
}

// ChangePassword verifies the current password and stores a new hash.
//
// @Summary      Change password
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Password change"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/changepassword [post]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	// The payload names the target account, but only the caller's own
	// password may be changed.
	if req.Username != username {
		return echo.NewHTTPError(http.StatusForbidden, "cannot change another account's password")
	}

	if err := h.service.ChangePassword(c.Request().Context(), req.Username, req.CurrentPassword, req.NewPassword); err != nil {
		return mapChangePasswordError(err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "password updated successfully"})
}

// mapChangePasswordError downgrades a failed current-password check to 400.
// Elsewhere bad credentials mean 401, but here the caller is already
// authenticated — the request itself is wrong.
func mapChangePasswordError(err error) error {
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusBadRequest, "current password is incorrect")
	}
	return err
}
