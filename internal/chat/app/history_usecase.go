package app

import (
	"context"
	"time"

	"school_chat_service/internal/chat/domain"
	"school_chat_service/internal/chat/repository"
)

// HistoryUseCase REST-facing unread/history reconciliation. Only the stored
// read flag is authoritative; clients that missed live delivery recover here.
type HistoryUseCase struct {
	msgRepo repository.MessageRepository
}

// NewHistoryUseCase create HistoryUseCase
func NewHistoryUseCase(msgRepo repository.MessageRepository) *HistoryUseCase {
	return &HistoryUseCase{msgRepo: msgRepo}
}

// GetHistory ordered conversation history annotated with isSender. Reading
// history never marks anything read; acknowledgement is explicit.
func (uc *HistoryUseCase) GetHistory(ctx context.Context, principal *domain.Principal, counterpartID, studentID string) ([]domain.HistoryEntry, error) {
	msgs, err := uc.msgRepo.FindConversation(ctx, principal.ID, counterpartID, studentID)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.HistoryEntry, 0, len(msgs))
	for _, m := range msgs {
		entries = append(entries, domain.HistoryEntry{
			Message:  m,
			IsSender: m.SenderID == principal.ID,
		})
	}
	return entries, nil
}

// Acknowledge bulk mark-read of everything the counterpart sent in this
// conversation. Same false->true-only update as the socket path; idempotent.
func (uc *HistoryUseCase) Acknowledge(ctx context.Context, principal *domain.Principal, counterpartID, studentID string) (int64, error) {
	return uc.msgRepo.MarkConversationRead(ctx, principal.ID, counterpartID, studentID, time.Now().UTC())
}

// UnreadForConversation scalar unread count plus last-message preview
func (uc *HistoryUseCase) UnreadForConversation(ctx context.Context, principal *domain.Principal, counterpartID, studentID string) (*domain.ConversationUnread, error) {
	return uc.msgRepo.UnreadForConversation(ctx, principal.ID, counterpartID, studentID)
}

// UnreadAll aggregate unread across all counterparts for one student
// context, derived entirely from stored state so it survives a page reload
func (uc *HistoryUseCase) UnreadAll(ctx context.Context, principal *domain.Principal, studentID string) (*domain.UnreadSummary, error) {
	per, err := uc.msgRepo.UnreadSummary(ctx, principal.ID, studentID)
	if err != nil {
		return nil, err
	}
	summary := &domain.UnreadSummary{PerCounterpart: per}
	for _, c := range per {
		summary.TotalUnread += c.UnreadCount
	}
	return summary, nil
}
