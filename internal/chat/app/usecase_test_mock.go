package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"school_chat_service/internal/chat/domain"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Insert mock insert message
func (m *MockMessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// FindConversation mock find conversation
func (m *MockMessageRepository) FindConversation(ctx context.Context, userA, userB, studentID string) ([]domain.Message, error) {
	args := m.Called(ctx, userA, userB, studentID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// MarkReadByIDs mock bulk read receipt by ids
func (m *MockMessageRepository) MarkReadByIDs(ctx context.Context, receiverID, senderID string, ids []primitive.ObjectID, readAt time.Time) (int64, error) {
	args := m.Called(ctx, receiverID, senderID, ids, readAt)
	return args.Get(0).(int64), args.Error(1)
}

// MarkConversationRead mock conversation acknowledge
func (m *MockMessageRepository) MarkConversationRead(ctx context.Context, receiverID, senderID, studentID string, readAt time.Time) (int64, error) {
	args := m.Called(ctx, receiverID, senderID, studentID, readAt)
	return args.Get(0).(int64), args.Error(1)
}

// UnreadForConversation mock scalar unread
func (m *MockMessageRepository) UnreadForConversation(ctx context.Context, receiverID, counterpartID, studentID string) (*domain.ConversationUnread, error) {
	args := m.Called(ctx, receiverID, counterpartID, studentID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ConversationUnread), args.Error(1)
	}
	return nil, args.Error(1)
}

// UnreadSummary mock per-counterpart unread
func (m *MockMessageRepository) UnreadSummary(ctx context.Context, receiverID, studentID string) ([]domain.CounterpartUnread, error) {
	args := m.Called(ctx, receiverID, studentID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.CounterpartUnread), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAccountRepository Mock AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

// FindTeacher mock teacher lookup
func (m *MockAccountRepository) FindTeacher(ctx context.Context, id string) (*domain.TeacherAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.TeacherAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindParent mock parent lookup
func (m *MockAccountRepository) FindParent(ctx context.Context, id string) (*domain.ParentAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ParentAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindStudent mock student lookup
func (m *MockAccountRepository) FindStudent(ctx context.Context, id string) (*domain.StudentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.StudentRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPubSub Mock delivery bus
type MockPubSub struct {
	mock.Mock
}

// Publish mock publisher
func (m *MockPubSub) Publish(channel string, resp domain.WSResponse) error {
	args := m.Called(channel, resp)
	return args.Error(0)
}

// Subscribe mock subscriber
func (m *MockPubSub) Subscribe(ctx context.Context, channel string, handler func(resp domain.WSResponse)) error {
	args := m.Called(channel, handler)
	return args.Error(0)
}

// fakeConn records everything the session writes, in order
type fakeConn struct {
	mu     sync.Mutex
	writes []domain.WSResponse
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	var resp domain.WSResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, resp)
	return nil
}

func (c *fakeConn) responses() []domain.WSResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.WSResponse, len(c.writes))
	copy(out, c.writes)
	return out
}
