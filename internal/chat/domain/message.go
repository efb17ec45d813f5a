package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message one teacher<->parent chat message in the messages collection.
// Immutable after insert except the (Read, ReadAt) pair, which only ever
// transitions false->true.
type Message struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	SenderID      string             `bson:"sender_id" json:"senderId"`
	SenderModel   PrincipalKind      `bson:"sender_model" json:"senderModel"`
	ReceiverID    string             `bson:"receiver_id" json:"receiverId"`
	ReceiverModel PrincipalKind      `bson:"receiver_model" json:"receiverModel"`
	StudentID     string             `bson:"student_id" json:"studentId"`
	Body          string             `bson:"message" json:"message"`
	CreatedAt     time.Time          `bson:"created_at" json:"timestamp"`
	Read          bool               `bson:"read" json:"read"`
	ReadAt        *time.Time         `bson:"read_at,omitempty" json:"readAt,omitempty"`
}

// HistoryEntry one message of a conversation as returned to the requesting
// principal, annotated with whether they were the sender
type HistoryEntry struct {
	Message
	IsSender bool `json:"isSender"`
}

// ConversationUnread unread count for one conversation plus the latest
// message preview, derived by query only
type ConversationUnread struct {
	Count         int        `json:"count"`
	LastMessage   string     `json:"lastMessage,omitempty"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
}

// CounterpartUnread unread info for one counterpart within a student context
type CounterpartUnread struct {
	CounterpartID   string        `bson:"_id" json:"counterpartId"`
	CounterpartKind PrincipalKind `bson:"counterpart_kind" json:"counterpartKind"`
	UnreadCount     int           `bson:"unread_count" json:"unreadCount"`
	LastMessage     string        `bson:"last_message" json:"lastMessage"`
	LastMessageAt   time.Time     `bson:"last_message_at" json:"lastMessageAt"`
}

// UnreadSummary aggregate across all counterparts for one student context,
// drives the persistent unread banner after a page reload
type UnreadSummary struct {
	TotalUnread    int                 `json:"totalUnread"`
	PerCounterpart []CounterpartUnread `json:"perCounterpart"`
}
