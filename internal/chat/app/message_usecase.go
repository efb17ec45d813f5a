package app

import (
	"context"
	"fmt"
	"time"

	"school_chat_service/internal/chat/domain"
	"school_chat_service/internal/chat/repository"
	"school_chat_service/pkg/apperr"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// validate shared payload validator; anything not matching the declared
// shape is rejected as a validation error at the boundary
var validate = validator.New()

// SendMessageUseCase persists outgoing messages and applies read receipts.
// The socket and REST paths both go through the same repository updates so a
// REST-only client converges on identical stored state.
type SendMessageUseCase struct {
	msgRepo  repository.MessageRepository
	accounts repository.AccountRepository
}

// NewSendMessageUseCase init create message use case
func NewSendMessageUseCase(msgRepo repository.MessageRepository, accounts repository.AccountRepository) *SendMessageUseCase {
	return &SendMessageUseCase{
		msgRepo:  msgRepo,
		accounts: accounts,
	}
}

// Execute validate and persist one message from sender. The receiver kind is
// always the opposite of the sender kind; there is no teacher-to-teacher or
// parent-to-parent channel.
func (uc *SendMessageUseCase) Execute(ctx context.Context, sender *domain.Principal, p domain.SendMessagePayload) (*domain.Message, error) {
	if err := validate.Struct(p); err != nil {
		return nil, apperr.Wrap(apperr.Validation, "invalid send_message payload", err)
	}

	receiverKind := sender.Kind.Opposite()
	if err := uc.checkRecipient(ctx, receiverKind, p.RecipientID); err != nil {
		return nil, err
	}

	student, err := uc.accounts.FindStudent(ctx, p.StudentID)
	if err != nil {
		return nil, err
	}

	// the parent side of the conversation must be the student's own parent
	parentID := p.RecipientID
	if sender.Kind == domain.KindParent {
		parentID = sender.ID
	}
	if student.ParentID != parentID {
		return nil, apperr.New(apperr.Authorization, "no relationship to this student")
	}

	msg := &domain.Message{
		SenderID:      sender.ID,
		SenderModel:   sender.Kind,
		ReceiverID:    p.RecipientID,
		ReceiverModel: receiverKind,
		StudentID:     p.StudentID,
		Body:          p.Message,
	}
	if err := uc.msgRepo.Insert(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// checkRecipient the recipient must exist under the opposite account kind;
// an id resolving to the sender's own kind is a bipartite violation, not a
// missing account
func (uc *SendMessageUseCase) checkRecipient(ctx context.Context, kind domain.PrincipalKind, recipientID string) error {
	var err error
	if kind == domain.KindTeacher {
		_, err = uc.accounts.FindTeacher(ctx, recipientID)
	} else {
		_, err = uc.accounts.FindParent(ctx, recipientID)
	}
	if err == nil {
		return nil
	}
	if !apperr.Is(err, apperr.NotFound) {
		return err
	}

	var sameKindErr error
	if kind == domain.KindTeacher {
		_, sameKindErr = uc.accounts.FindParent(ctx, recipientID)
	} else {
		_, sameKindErr = uc.accounts.FindTeacher(ctx, recipientID)
	}
	if sameKindErr == nil {
		return apperr.New(apperr.Validation, fmt.Sprintf("recipient must be a %s", kind))
	}
	return apperr.New(apperr.NotFound, "recipient not found")
}

// MarkRead bulk read receipt over explicit message ids. Conditional on
// read=false, so repeating the identical call flips nothing.
func (uc *SendMessageUseCase) MarkRead(ctx context.Context, receiver *domain.Principal, p domain.MarkAsReadPayload) (time.Time, int64, error) {
	if err := validate.Struct(p); err != nil {
		return time.Time{}, 0, apperr.Wrap(apperr.Validation, "invalid mark_as_read payload", err)
	}

	ids := make([]primitive.ObjectID, 0, len(p.MessageIDs))
	for _, raw := range p.MessageIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return time.Time{}, 0, apperr.Wrap(apperr.Validation, "invalid message id "+raw, err)
		}
		ids = append(ids, id)
	}

	readAt := time.Now().UTC()
	n, err := uc.msgRepo.MarkReadByIDs(ctx, receiver.ID, p.SenderID, ids, readAt)
	if err != nil {
		return time.Time{}, 0, err
	}
	return readAt, n, nil
}
