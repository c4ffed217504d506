package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneyguard/internal/errors"
	"moneyguard/internal/middleware"
	"moneyguard/internal/models"
	"moneyguard/internal/validator"
	"moneyguard/internal/wallet"
)

// AuthHandler handles sign-up, sign-in and sign-out.
type AuthHandler struct {
	registry *wallet.Registry
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(registry *wallet.Registry) *AuthHandler {
	return &AuthHandler{registry: registry}
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// SignUp handles user registration
// @Summary     Register a new user
// @Description Register with username, email and password. The new session loads its transactions once.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.SignUpRequest true "Registration data"
// @Success     201 {object} AuthResponse "User registered"
// @Failure     400 {object} ErrorResponse "Invalid registration data"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     502 {object} ErrorResponse "Wallet service failure"
// @Router      /auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidSignUp, validator.Describe(err)))
		return
	}

	client, err := h.registry.SignUp(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse(client))
}

// SignIn handles user login
// @Summary     Sign in
// @Description Authenticate with email and password. The new session loads its transactions once.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.SignInRequest true "Credentials"
// @Success     200 {object} AuthResponse "Signed in"
// @Failure     400 {object} ErrorResponse "Invalid email or password format"
// @Failure     403 {object} ErrorResponse "Incorrect password"
// @Failure     404 {object} ErrorResponse "Unknown email"
// @Router      /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidCredentials, validator.Describe(err)))
		return
	}

	client, err := h.registry.SignIn(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse(client))
}

// SignOut revokes the token and resets the session's transactions
// @Summary     Sign out
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     204 "Signed out"
// @Failure     401 {object} ErrorResponse "Not authenticated"
// @Router      /auth/sign-out [delete]
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.registry.SignOut(c.Request.Context(), c.GetString(middleware.TokenKey)); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Current returns the signed-in user with the balance reported by the wallet service
// @Summary     Current user
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.User "Current user"
// @Failure     401 {object} ErrorResponse "Session expired"
// @Router      /auth/current [get]
func (h *AuthHandler) Current(c *gin.Context) {
	client, err := getClient(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := client.CurrentUser(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func authResponse(client *wallet.Client) AuthResponse {
	resp := AuthResponse{Token: client.Session.Token()}
	if u := client.Session.User(); u != nil {
		resp.User = *u
	}
	return resp
}
