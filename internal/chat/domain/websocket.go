package domain

import "encoding/json"

// Event websocket event name
type Event string

// Client -> server events
const (
	// EventSendMessage send a chat message
	EventSendMessage Event = "send_message"
	// EventMarkAsRead bulk read receipt
	EventMarkAsRead Event = "mark_as_read"
	// EventTyping keystroke-triggered typing signal
	EventTyping Event = "typing"
	// EventStopTyping explicit typing stop
	EventStopTyping Event = "stop_typing"
	// EventGetUserStatus presence query
	EventGetUserStatus Event = "get_user_status"
)

// Server -> client events
const (
	// EventReceiveMessage deliver an inbound message
	EventReceiveMessage Event = "receive_message"
	// EventMessageSent ack the sender's own send with the persisted fields
	EventMessageSent Event = "message_sent"
	// EventMessagesRead notify the original sender their messages were read
	EventMessagesRead Event = "messages_read"
	// EventUserTyping forwarded typing indicator
	EventUserTyping Event = "user_typing"
	// EventUserStopTyping forwarded typing stop
	EventUserStopTyping Event = "user_stop_typing"
	// EventUserStatuses presence reply
	EventUserStatuses Event = "user_statuses"
	// EventUserOffline broadcast on disconnect
	EventUserOffline Event = "user_offline"
	// EventError non-fatal per-event failure, delivered to the offending connection only
	EventError Event = "error"
)

// WSRequest websocket request envelope. Data holds the event-specific
// payload and is decoded against the matching typed struct below; anything
// not matching shape is rejected as a validation error.
type WSRequest struct {
	Event Event           `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// SendMessagePayload payload of send_message
type SendMessagePayload struct {
	RecipientID string `json:"recipientId" validate:"required"`
	StudentID   string `json:"studentId" validate:"required"`
	Message     string `json:"message" validate:"required"`
}

// MarkAsReadPayload payload of mark_as_read
type MarkAsReadPayload struct {
	MessageIDs []string `json:"messageIds" validate:"required,min=1,dive,required"`
	SenderID   string   `json:"senderId" validate:"required"`
}

// TypingPayload payload of typing / stop_typing
type TypingPayload struct {
	RecipientID string `json:"recipientId" validate:"required"`
}

// UserStatusPayload payload of get_user_status
type UserStatusPayload struct {
	UserIDs []string `json:"userIds" validate:"required,min=1"`
}

// WSResponse websocket response envelope
type WSResponse struct {
	Event   Event                  `json:"event"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
