package app

import (
	"context"
	"testing"
	"time"

	"school_chat_service/internal/chat/domain"
	"school_chat_service/pkg/apperr"
	"school_chat_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	m.Run()
}

func teacherPrincipal() *domain.Principal {
	return &domain.Principal{ID: "teacher-1", Kind: domain.KindTeacher, DisplayName: "Ms. Rivera"}
}

func parentPrincipal() *domain.Principal {
	return &domain.Principal{ID: "parent-1", Kind: domain.KindParent, DisplayName: "Mr. Shah"}
}

func TestSendMessageUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	mockMsgRepo := new(MockMessageRepository)
	mockAccounts := new(MockAccountRepository)

	mockAccounts.On("FindParent", ctx, "parent-1").Return(&domain.ParentAccount{ID: "parent-1", Name: "Mr. Shah"}, nil)
	mockAccounts.On("FindStudent", ctx, "student-1").Return(&domain.StudentRecord{ID: "student-1", ParentID: "parent-1"}, nil)
	mockMsgRepo.On("Insert", ctx, mock.Anything).Run(func(args mock.Arguments) {
		msg := args.Get(1).(*domain.Message)
		msg.ID = primitive.NewObjectID()
		msg.CreatedAt = time.Now().UTC()
	}).Return(nil)

	uc := NewSendMessageUseCase(mockMsgRepo, mockAccounts)
	msg, err := uc.Execute(ctx, teacherPrincipal(), domain.SendMessagePayload{
		RecipientID: "parent-1",
		StudentID:   "student-1",
		Message:     "Please submit the form",
	})

	assert.NoError(t, err)
	assert.False(t, msg.ID.IsZero())
	assert.Equal(t, domain.KindParent, msg.ReceiverModel)
	assert.Equal(t, "teacher-1", msg.SenderID)
	assert.False(t, msg.Read)
	assert.Nil(t, msg.ReadAt)

	mockMsgRepo.AssertExpectations(t)
	mockAccounts.AssertExpectations(t)
}

func TestSendMessageUseCase_Execute_EmptyBody(t *testing.T) {
	uc := NewSendMessageUseCase(new(MockMessageRepository), new(MockAccountRepository))

	_, err := uc.Execute(context.Background(), teacherPrincipal(), domain.SendMessagePayload{
		RecipientID: "parent-1",
		StudentID:   "student-1",
	})

	assert.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestSendMessageUseCase_Execute_SameKindRejected(t *testing.T) {
	ctx := context.Background()
	mockAccounts := new(MockAccountRepository)

	// recipient does not exist as a parent but does exist as a teacher
	mockAccounts.On("FindParent", ctx, "teacher-2").Return(nil, apperr.New(apperr.NotFound, "parent not found"))
	mockAccounts.On("FindTeacher", ctx, "teacher-2").Return(&domain.TeacherAccount{ID: "teacher-2"}, nil)

	uc := NewSendMessageUseCase(new(MockMessageRepository), mockAccounts)
	_, err := uc.Execute(ctx, teacherPrincipal(), domain.SendMessagePayload{
		RecipientID: "teacher-2",
		StudentID:   "student-1",
		Message:     "hi",
	})

	assert.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
	mockAccounts.AssertExpectations(t)
}

func TestSendMessageUseCase_Execute_UnknownRecipient(t *testing.T) {
	ctx := context.Background()
	mockAccounts := new(MockAccountRepository)

	mockAccounts.On("FindParent", ctx, "ghost").Return(nil, apperr.New(apperr.NotFound, "parent not found"))
	mockAccounts.On("FindTeacher", ctx, "ghost").Return(nil, apperr.New(apperr.NotFound, "teacher not found"))

	uc := NewSendMessageUseCase(new(MockMessageRepository), mockAccounts)
	_, err := uc.Execute(ctx, teacherPrincipal(), domain.SendMessagePayload{
		RecipientID: "ghost",
		StudentID:   "student-1",
		Message:     "hi",
	})

	assert.True(t, apperr.Is(err, apperr.NotFound))
	mockAccounts.AssertExpectations(t)
}

func TestSendMessageUseCase_Execute_NoRelationship(t *testing.T) {
	ctx := context.Background()
	mockAccounts := new(MockAccountRepository)

	mockAccounts.On("FindTeacher", ctx, "teacher-1").Return(&domain.TeacherAccount{ID: "teacher-1"}, nil)
	// the student's parent is someone else
	mockAccounts.On("FindStudent", ctx, "student-9").Return(&domain.StudentRecord{ID: "student-9", ParentID: "parent-2"}, nil)

	uc := NewSendMessageUseCase(new(MockMessageRepository), mockAccounts)
	_, err := uc.Execute(ctx, parentPrincipal(), domain.SendMessagePayload{
		RecipientID: "teacher-1",
		StudentID:   "student-9",
		Message:     "hi",
	})

	assert.True(t, apperr.Is(err, apperr.Authorization))
	mockAccounts.AssertExpectations(t)
}

func TestSendMessageUseCase_MarkRead(t *testing.T) {
	ctx := context.Background()
	id := primitive.NewObjectID()

	mockMsgRepo := new(MockMessageRepository)
	mockMsgRepo.On("MarkReadByIDs", ctx, "parent-1", "teacher-1", []primitive.ObjectID{id}, mock.Anything).Return(int64(1), nil)

	uc := NewSendMessageUseCase(mockMsgRepo, new(MockAccountRepository))
	readAt, n, err := uc.MarkRead(ctx, parentPrincipal(), domain.MarkAsReadPayload{
		MessageIDs: []string{id.Hex()},
		SenderID:   "teacher-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.False(t, readAt.IsZero())
	mockMsgRepo.AssertExpectations(t)
}

func TestSendMessageUseCase_MarkRead_BadID(t *testing.T) {
	uc := NewSendMessageUseCase(new(MockMessageRepository), new(MockAccountRepository))

	_, _, err := uc.MarkRead(context.Background(), parentPrincipal(), domain.MarkAsReadPayload{
		MessageIDs: []string{"not-an-object-id"},
		SenderID:   "teacher-1",
	})

	assert.True(t, apperr.Is(err, apperr.Validation))
}
