package app

import (
	"school_chat_service/internal/chat/domain"
	"school_chat_service/pkg/apperr"
	"school_chat_service/pkg/logger"
	"school_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ChatHandler REST endpoints of the unread/history reconciliation service.
// Source of truth for a client that missed live socket delivery.
type ChatHandler struct {
	resolver  *PrincipalResolver
	historyUC *HistoryUseCase
}

// NewChatHandler create ChatHandler
func NewChatHandler(resolver *PrincipalResolver, historyUC *HistoryUseCase) *ChatHandler {
	return &ChatHandler{
		resolver:  resolver,
		historyUC: historyUC,
	}
}

// ConversationRequest body of history/acknowledge/unread-count
type ConversationRequest struct {
	CounterpartID string `json:"counterpartId" validate:"required"`
	StudentID     string `json:"studentId" validate:"required"`
}

// UnreadAllRequest body of unread-count-all
type UnreadAllRequest struct {
	StudentID string `json:"studentId" validate:"required"`
}

func (h *ChatHandler) principalFrom(c *fiber.Ctx) (*domain.Principal, error) {
	subjectID, _ := c.Locals(middlewares.TokenUserID).(string)
	return h.resolver.ResolveSubject(c.Context(), subjectID)
}

func (h *ChatHandler) fail(c *fiber.Ctx, op string, err error) error {
	logger.Log.Error("chat handler err", zap.String("op", op), zap.String("err", err.Error()))
	return c.Status(apperr.StatusCode(err)).JSON(fiber.Map{"error": err.Error()})
}

// History return the ordered conversation with read flags
// @Summary conversation history
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ConversationRequest true "conversation key"
// @Success 200 {array} domain.HistoryEntry
// @Router /chat/history [post]
func (h *ChatHandler) History(c *fiber.Ctx) error {
	principal, err := h.principalFrom(c)
	if err != nil {
		return h.fail(c, "history", err)
	}

	var req ConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, "history", apperr.Wrap(apperr.Validation, "malformed body", err))
	}
	if err := validate.Struct(req); err != nil {
		return h.fail(c, "history", apperr.Wrap(apperr.Validation, "missing field", err))
	}

	entries, err := h.historyUC.GetHistory(c.Context(), principal, req.CounterpartID, req.StudentID)
	if err != nil {
		return h.fail(c, "history", err)
	}
	return c.JSON(fiber.Map{"messages": entries})
}

// Acknowledge bulk mark-read one conversation, idempotent
// @Summary acknowledge a conversation
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ConversationRequest true "conversation key"
// @Success 200 {object} map[string]interface{}
// @Router /chat/acknowledge [post]
func (h *ChatHandler) Acknowledge(c *fiber.Ctx) error {
	principal, err := h.principalFrom(c)
	if err != nil {
		return h.fail(c, "acknowledge", err)
	}

	var req ConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, "acknowledge", apperr.Wrap(apperr.Validation, "malformed body", err))
	}
	if err := validate.Struct(req); err != nil {
		return h.fail(c, "acknowledge", apperr.Wrap(apperr.Validation, "missing field", err))
	}

	updated, err := h.historyUC.Acknowledge(c.Context(), principal, req.CounterpartID, req.StudentID)
	if err != nil {
		return h.fail(c, "acknowledge", err)
	}

	// refreshed total lets the client redraw its unread banner in one round trip
	summary, err := h.historyUC.UnreadAll(c.Context(), principal, req.StudentID)
	if err != nil {
		return h.fail(c, "acknowledge", err)
	}

	return c.JSON(fiber.Map{
		"updatedCount": updated,
		"totalUnread":  summary.TotalUnread,
	})
}

// UnreadCount scalar unread count for one conversation
// @Summary unread count for a conversation
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ConversationRequest true "conversation key"
// @Success 200 {object} domain.ConversationUnread
// @Router /chat/unread-count [post]
func (h *ChatHandler) UnreadCount(c *fiber.Ctx) error {
	principal, err := h.principalFrom(c)
	if err != nil {
		return h.fail(c, "unread-count", err)
	}

	var req ConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, "unread-count", apperr.Wrap(apperr.Validation, "malformed body", err))
	}
	if err := validate.Struct(req); err != nil {
		return h.fail(c, "unread-count", apperr.Wrap(apperr.Validation, "missing field", err))
	}

	info, err := h.historyUC.UnreadForConversation(c.Context(), principal, req.CounterpartID, req.StudentID)
	if err != nil {
		return h.fail(c, "unread-count", err)
	}
	return c.JSON(info)
}

// UnreadCountAll aggregate unread across all counterparts for one student
// @Summary unread summary for a student context
// @Tags chat
// @Accept json
// @Produce json
// @Param request body UnreadAllRequest true "student context"
// @Success 200 {object} domain.UnreadSummary
// @Router /chat/unread-count-all [post]
func (h *ChatHandler) UnreadCountAll(c *fiber.Ctx) error {
	principal, err := h.principalFrom(c)
	if err != nil {
		return h.fail(c, "unread-count-all", err)
	}

	var req UnreadAllRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, "unread-count-all", apperr.Wrap(apperr.Validation, "malformed body", err))
	}
	if err := validate.Struct(req); err != nil {
		return h.fail(c, "unread-count-all", apperr.Wrap(apperr.Validation, "missing field", err))
	}

	summary, err := h.historyUC.UnreadAll(c.Context(), principal, req.StudentID)
	if err != nil {
		return h.fail(c, "unread-count-all", err)
	}
	return c.JSON(summary)
}
