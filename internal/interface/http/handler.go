package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/climalab/clima-chat/internal/domain/auth"
	"github.com/climalab/clima-chat/internal/domain/chat"
	apperrors "github.com/climalab/clima-chat/pkg/errors"
)

// internalMessage is the fixed user-facing text for server-side failures on
// conversation endpoints.
const internalMessage = "Error al procesar la solicitud"

// Handler wires the HTTP transport to domain services.
type Handler struct {
	authSvc auth.Service
	chatSvc chat.Service
	logger  *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(authSvc auth.Service, chatSvc chat.Service, logger *slog.Logger) *Handler {
	return &Handler{
		authSvc: authSvc,
		chatSvc: chatSvc,
		logger:  logger.With("component", "http.handler"),
	}
}

// Register creates a new account.
func (h *Handler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	view, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, authError(err))
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Login exchanges credentials for a token pair.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, authError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a fresh token pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		abortWithError(c, authError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Profile returns the authenticated user's account view.
func (h *Handler) Profile(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing auth claims", nil))
		return
	}

	view, err := h.authSvc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, authError(err))
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListChats returns the user's conversations, newest first.
func (h *Handler) ListChats(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing auth claims", nil))
		return
	}

	convs, err := h.chatSvc.ListConversations(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, chatError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

// CreateChat starts a new conversation with the sentinel title.
func (h *Handler) CreateChat(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing auth claims", nil))
		return
	}

	conv, err := h.chatSvc.CreateConversation(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, chatError(err))
		return
	}
	c.JSON(http.StatusCreated, conv)
}

// GetChat returns a conversation and its turns.
func (h *Handler) GetChat(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing auth claims", nil))
		return
	}
	id, ok := chatID(c)
	if !ok {
		return
	}

	conv, turns, err := h.chatSvc.GetConversation(c.Request.Context(), claims.UserID, id)
	if err != nil {
		abortWithError(c, chatError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv, "turns": turns})
}

// DeleteChat removes a conversation and all of its turns.
func (h *Handler) DeleteChat(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing auth claims", nil))
		return
	}
	id, ok := chatID(c)
	if !ok {
		return
	}

	if err := h.chatSvc.DeleteConversation(c.Request.Context(), claims.UserID, id); err != nil {
		abortWithError(c, chatError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

// SendMessage posts a user message and returns the assistant's reply.
func (h *Handler) SendMessage(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing auth claims", nil))
		return
	}
	id, ok := chatID(c)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	res, err := h.chatSvc.SendMessage(c.Request.Context(), claims.UserID, id, req.Message)
	if err != nil {
		abortWithError(c, chatError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": res.Reply, "conversation": res.Conversation})
}

func chatID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid conversation id", err))
		return 0, false
	}
	return id, true
}

func authError(err error) *HTTPError {
	status := http.StatusInternalServerError
	code := "auth_failed"
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.IsCode(err, "email_exists"):
		status = http.StatusConflict
		code = "email_exists"
	case apperrors.IsCode(err, "invalid_credentials"):
		status = http.StatusUnauthorized
		code = "invalid_credentials"
	case apperrors.IsCode(err, "invalid_token"):
		status = http.StatusUnauthorized
		code = "invalid_token"
	case apperrors.IsCode(err, "user_not_found"):
		status = http.StatusNotFound
		code = "user_not_found"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func chatError(err error) *HTTPError {
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		return NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err)
	case apperrors.IsCode(err, "not_found"):
		return NewHTTPError(http.StatusNotFound, "not_found", errMessage(err), err)
	case apperrors.IsCode(err, "forbidden"):
		return NewHTTPError(http.StatusForbidden, "forbidden", errMessage(err), err)
	default:
		return NewHTTPError(http.StatusInternalServerError, "chat_error", internalMessage, err)
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
