package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"user_auth/internal/apperrors"
	"user_auth/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	msgRegistered  = "User registered successfully!"
	msgBadBody     = "Username and password are required"
	welcomeMessage = "Welcome %s! This is a protected route."
)

// AuthRequest is the shared credentials payload for both register and login.
type AuthRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

// MessageResponse is the body of every non-token response.
type MessageResponse struct {
	Message string `json:"message" example:"User registered successfully!"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Infow("auth_bad_request_body", "err", err, "request_id", requestID(c))
		c.AbortWithStatusJSON(http.StatusBadRequest, MessageResponse{Message: msgBadBody})
		return false
	}
	return true
}

// respondError maps err to a fixed status and message. Internal causes are
// logged and never returned to the client.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	httpErr := apperrors.MapErrorToHTTP(err)
	fields := append([]interface{}{"err", err, "request_id", requestID(c)}, kv...)
	if httpErr.IsInternal() {
		h.log.Errorw(logKey, fields...)
	} else {
		h.log.Infow(logKey, fields...)
	}
	c.AbortWithStatusJSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// clientMeta is the audit metadata attached to auth events.
func clientMeta(c *gin.Context) map[string]any {
	return map[string]any{
		"ip":         c.ClientIP(),
		"request_id": requestID(c),
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      AuthRequest  true  "Credentials"
// @Success      200   {object}  MessageResponse
// @Failure      400   {object}  MessageResponse
// @Failure      409   {object}  MessageResponse
// @Failure      500   {object}  MessageResponse
// @Router       /register [post]
func (h *Handler) register(c *gin.Context) {
	var input AuthRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	ctx := c.Request.Context()
	id, err := h.services.Credentials.Register(ctx, input.Username, input.Password)
	if err != nil {
		h.respondError(c, err, "auth_register_failed", "username", input.Username)
		return
	}

	h.services.Audit.Record(ctx, models.AuthEvent{
		Type:        models.EventRegister,
		UserID:      id,
		Username:    strings.TrimSpace(input.Username),
		Description: "User registered",
		Metadata:    clientMeta(c),
	})
	c.JSON(http.StatusOK, MessageResponse{Message: msgRegistered})
}

// @Summary      Log in and obtain a bearer token
// @Description  The token is valid for one hour.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      AuthRequest  true  "Credentials"
// @Success      200   {object}  TokenResponse
// @Failure      400   {object}  MessageResponse
// @Failure      401   {object}  MessageResponse
// @Failure      500   {object}  MessageResponse
// @Router       /login [post]
func (h *Handler) login(c *gin.Context) {
	var input AuthRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	ctx := c.Request.Context()
	id, err := h.services.Credentials.Verify(ctx, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) || errors.Is(err, apperrors.ErrInvalidCredentials) {
			// id is the matched user on a wrong password, 0 for an unknown username
			h.services.Audit.Record(ctx, models.AuthEvent{
				Type:        models.EventLoginFailed,
				UserID:      id,
				Username:    strings.TrimSpace(input.Username),
				Description: "Invalid credentials",
				Metadata:    clientMeta(c),
			})
		}
		h.respondError(c, err, "auth_login_failed", "username", input.Username)
		return
	}

	token, err := h.services.Tokens.Issue(id)
	if err != nil {
		h.respondError(c, err, "auth_token_issue_failed", "user_id", id)
		return
	}

	h.services.Audit.Record(ctx, models.AuthEvent{
		Type:        models.EventLogin,
		UserID:      id,
		Username:    strings.TrimSpace(input.Username),
		Description: "Token issued",
		Metadata:    clientMeta(c),
	})
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// @Summary      Protected greeting
// @Tags         auth
// @Produce      json
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  MessageResponse
// @Failure      500  {object}  MessageResponse
// @Router       /protected [get]
// @Security     BearerAuth
func (h *Handler) protected(c *gin.Context) {
	uid := currentUserID(c)
	user, err := h.services.Credentials.Lookup(c.Request.Context(), uid)
	if err != nil {
		h.respondError(c, err, "auth_protected_lookup_failed", "user_id", uid)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf(welcomeMessage, user.Username)})
}
