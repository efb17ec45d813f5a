package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"school_chat_service/internal/chat/domain"
	"school_chat_service/internal/chat/repository"
	"school_chat_service/pkg/apperr"
	"school_chat_service/pkg/logger"
	"school_chat_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultAuthTimeout = 10 * time.Second

// wsConn the slice of *websocket.Conn the session writes through, so the
// dispatch path is testable without a live transport
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
}

// session one authenticated connection. Events on it are handled one at a
// time in arrival order; different sessions run concurrently.
type session struct {
	id        string
	conn      wsConn
	principal *domain.Principal
	// the read loop and the pub/sub subscriber both write to the conn
	writeMu sync.Mutex
}

// Principal the identity attached at authentication
func (s *session) Principal() *domain.Principal { return s.principal }

// Emit best-effort write of one event to this connection
func (s *session) Emit(resp domain.WSResponse) {
	b, _ := json.Marshal(resp)
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		logger.Log.Errorf("write message error:", err)
	}
}

// ChatWebsocketHandler connection-level protocol state machine:
// Connecting -> Authenticated -> Active -> Closed
type ChatWebsocketHandler struct {
	resolver    *PrincipalResolver
	messageUC   *SendMessageUseCase
	presence    PresenceRegistry
	bus         repository.PubSub
	authTimeout time.Duration
}

// NewChatWebsocketHandler create ChatWebsocketHandler
func NewChatWebsocketHandler(
	resolver *PrincipalResolver,
	messageUC *SendMessageUseCase,
	presence PresenceRegistry,
	bus repository.PubSub,
	authTimeout time.Duration,
) *ChatWebsocketHandler {
	if authTimeout <= 0 {
		authTimeout = defaultAuthTimeout
	}
	return &ChatWebsocketHandler{
		resolver:    resolver,
		messageUC:   messageUC,
		presence:    presence,
		bus:         bus,
		authTimeout: authTimeout,
	}
}

// HandleConnection entry point of a WebSocket connection. ctx is the
// process context, not the connection's: an in-flight persistence write must
// complete even if the sender disconnects a moment after sending.
func (h *ChatWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	rawToken, _ := conn.Locals(middlewares.TokenRaw).(string)

	// Connecting -> Authenticated: bounded window, terminal on failure (no
	// Closed handlers fire for a half-open session)
	authCtx, cancelAuth := context.WithTimeout(ctx, h.authTimeout)
	principal, err := h.resolver.Resolve(authCtx, rawToken)
	cancelAuth()
	if err != nil {
		logger.Log.Warn("websocket auth failed", zap.Error(err))
		b, _ := json.Marshal(domain.WSResponse{Event: domain.EventError, Error: "authentication failed"})
		_ = conn.WriteMessage(websocket.TextMessage, b)
		conn.Close()
		return
	}

	sess := &session{
		id:        uuid.New().String(),
		conn:      conn,
		principal: principal,
	}
	logger.Log.Info("websocket session open",
		zap.String("sessionID", sess.id),
		zap.String("userID", principal.ID),
		zap.String("kind", string(principal.Kind)))

	ticker := time.NewTicker(10 * time.Minute)
	ctxClose, cancel := context.WithCancel(context.Background())

	// Active: join presence and the private delivery channel
	h.presence.Register(principal.ID, sess)

	defer func() {
		ticker.Stop()
		h.presence.Unregister(principal.ID, sess)
		h.broadcastOffline(sess)
		logger.Log.Info("websocket session close",
			zap.String("sessionID", sess.id),
			zap.String("userID", principal.ID))
		conn.Close()
		cancel()
	}()

	// fiber handles close/ping/pong internally, hook them out for logging
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})
	conn.SetPongHandler(func(appData string) error {
		logger.Log.Debug("Received PONG", zap.String("data", appData))
		return nil
	})
	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(appData),
			time.Now().Add(time.Second),
		)
	})

	// everything pushed at this principal flows through their channel
	h.bus.Subscribe(ctxClose, repository.UserChannel(principal.ID), func(resp domain.WSResponse) {
		sess.Emit(resp)
	})

	go func() {
		for {
			select {
			case <-ticker.C:
				sess.writeMu.Lock()
				err := conn.WriteMessage(websocket.PingMessage, []byte("ping message"))
				sess.writeMu.Unlock()
				if err != nil {
					logger.Log.Errorf("Ping error:", err)
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Infof("Connection closed:", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		h.execWebsocketAction(ctx, sess, mt, message)
	}
}

func (h *ChatWebsocketHandler) execWebsocketAction(ctx context.Context, sess *session, mt int, msg []byte) {
	switch mt {
	case websocket.TextMessage:
		h.textMessageAction(ctx, sess, msg)
	default:
		h.sendError(sess, "", "unknown message type")
	}
}

// textMessageAction decode the typed envelope and dispatch. Any error is
// delivered back to this connection only; the session stays Active.
func (h *ChatWebsocketHandler) textMessageAction(ctx context.Context, sess *session, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		h.sendError(sess, "", "malformed event envelope")
		return
	}

	var err error
	switch req.Event {
	case domain.EventSendMessage:
		err = h.handleSendMessage(ctx, sess, req.Data)
	case domain.EventMarkAsRead:
		err = h.handleMarkAsRead(ctx, sess, req.Data)
	case domain.EventTyping:
		err = h.handleTyping(sess, req.Data, true)
	case domain.EventStopTyping:
		err = h.handleTyping(sess, req.Data, false)
	case domain.EventGetUserStatus:
		err = h.handleGetUserStatus(sess, req.Data)
	default:
		h.sendError(sess, req.Event, "unknown event")
		return
	}

	if err != nil {
		logger.Log.Error("websocket event err",
			zap.String("userID", sess.principal.ID),
			zap.String("event", string(req.Event)),
			zap.String("err", err.Error()))
		h.sendError(sess, req.Event, err.Error())
	}
}

func (h *ChatWebsocketHandler) handleSendMessage(ctx context.Context, sess *session, data json.RawMessage) error {
	var p domain.SendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return apperr.Wrap(apperr.Validation, "malformed send_message payload", err)
	}

	msg, err := h.messageUC.Execute(ctx, sess.principal, p)
	if err != nil {
		return err
	}

	status := "sent"
	if h.presence.IsOnline(msg.ReceiverID) {
		h.publish(repository.UserChannel(msg.ReceiverID), domain.WSResponse{
			Event:   domain.EventReceiveMessage,
			Success: true,
			Payload: messagePayload(msg, sess.principal.DisplayName),
		})
		status = "delivered"
	}

	// always ack the sender so their optimistic local copy can reconcile
	payload := messagePayload(msg, sess.principal.DisplayName)
	payload["status"] = status
	sess.Emit(domain.WSResponse{
		Event:   domain.EventMessageSent,
		Success: true,
		Payload: payload,
	})
	return nil
}

func (h *ChatWebsocketHandler) handleMarkAsRead(ctx context.Context, sess *session, data json.RawMessage) error {
	var p domain.MarkAsReadPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return apperr.Wrap(apperr.Validation, "malformed mark_as_read payload", err)
	}

	readAt, _, err := h.messageUC.MarkRead(ctx, sess.principal, p)
	if err != nil {
		return err
	}

	if h.presence.IsOnline(p.SenderID) {
		h.publish(repository.UserChannel(p.SenderID), domain.WSResponse{
			Event:   domain.EventMessagesRead,
			Success: true,
			Payload: map[string]interface{}{
				"messageIds": p.MessageIDs,
				"readBy":     sess.principal.ID,
				"readAt":     readAt,
			},
		})
	}
	return nil
}

func (h *ChatWebsocketHandler) handleTyping(sess *session, data json.RawMessage, typing bool) error {
	var p domain.TypingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return apperr.Wrap(apperr.Validation, "malformed typing payload", err)
	}
	if err := validate.Struct(p); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid typing payload", err)
	}

	// no persistence, no validation beyond "recipient present"
	if !h.presence.IsOnline(p.RecipientID) {
		return nil
	}

	resp := domain.WSResponse{
		Event:   domain.EventUserStopTyping,
		Success: true,
		Payload: map[string]interface{}{"userId": sess.principal.ID},
	}
	if typing {
		resp.Event = domain.EventUserTyping
		resp.Payload["userName"] = sess.principal.DisplayName
	}
	h.publish(repository.UserChannel(p.RecipientID), resp)
	return nil
}

// handleGetUserStatus synchronous presence reply from the registry only,
// never touches the message store
func (h *ChatWebsocketHandler) handleGetUserStatus(sess *session, data json.RawMessage) error {
	var p domain.UserStatusPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return apperr.Wrap(apperr.Validation, "malformed get_user_status payload", err)
	}
	if err := validate.Struct(p); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid get_user_status payload", err)
	}

	statuses := make(map[string]interface{}, len(p.UserIDs))
	for _, id := range p.UserIDs {
		if h.presence.IsOnline(id) {
			statuses[id] = "online"
		} else {
			statuses[id] = "offline"
		}
	}
	sess.Emit(domain.WSResponse{
		Event:   domain.EventUserStatuses,
		Success: true,
		Payload: statuses,
	})
	return nil
}

// broadcastOffline best-effort user_offline to every other active session,
// no acknowledgement, no retry
func (h *ChatWebsocketHandler) broadcastOffline(sess *session) {
	for _, other := range h.presence.Snapshot() {
		if other.Principal().ID == sess.principal.ID {
			continue
		}
		other.Emit(domain.WSResponse{
			Event:   domain.EventUserOffline,
			Success: true,
			Payload: map[string]interface{}{"userId": sess.principal.ID},
		})
	}
}

func (h *ChatWebsocketHandler) publish(channel string, resp domain.WSResponse) {
	if err := h.bus.Publish(channel, resp); err != nil {
		logger.Log.Errorf("publish error:", err)
	}
}

func (h *ChatWebsocketHandler) sendError(sess *session, event domain.Event, errorMsg string) {
	resp := domain.WSResponse{
		Event: domain.EventError,
		Error: errorMsg,
	}
	if event != "" {
		resp.Payload = map[string]interface{}{"event": string(event)}
	}
	sess.Emit(resp)
}

func messagePayload(msg *domain.Message, senderName string) map[string]interface{} {
	return map[string]interface{}{
		"_id":         msg.ID.Hex(),
		"message":     msg.Body,
		"senderId":    msg.SenderID,
		"senderName":  senderName,
		"senderModel": msg.SenderModel,
		"receiverId":  msg.ReceiverID,
		"studentId":   msg.StudentID,
		"timestamp":   msg.CreatedAt,
		"read":        msg.Read,
	}
}
