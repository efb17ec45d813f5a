package app

import (
	"context"

	"school_chat_service/internal/chat/domain"
	"school_chat_service/internal/chat/repository"
	"school_chat_service/pkg/apperr"
	"school_chat_service/pkg/token"
)

// PrincipalResolver resolves a bearer credential to exactly one Teacher or
// Parent principal. Pure lookup, no side effects; the accounts collections
// are authoritative for kind and display name, the role claim is a hint only.
type PrincipalResolver struct {
	accounts repository.AccountRepository
}

// NewPrincipalResolver create a PrincipalResolver
func NewPrincipalResolver(accounts repository.AccountRepository) *PrincipalResolver {
	return &PrincipalResolver{accounts: accounts}
}

// Resolve verify the credential and look up its subject
func (r *PrincipalResolver) Resolve(ctx context.Context, credential string) (*domain.Principal, error) {
	if credential == "" {
		return nil, apperr.New(apperr.Unauthenticated, "missing credential")
	}
	claims, err := token.ParseJWTWrapper(credential)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unauthenticated, "invalid credential", err)
	}
	return r.ResolveSubject(ctx, claims.UserID)
}

// ResolveSubject look up an already-verified subject id. The id belongs to at
// most one of the two collections.
func (r *PrincipalResolver) ResolveSubject(ctx context.Context, subjectID string) (*domain.Principal, error) {
	t, err := r.accounts.FindTeacher(ctx, subjectID)
	if err == nil {
		return &domain.Principal{ID: t.ID, Kind: domain.KindTeacher, DisplayName: t.Name}, nil
	}
	if !apperr.Is(err, apperr.NotFound) {
		return nil, err
	}

	p, err := r.accounts.FindParent(ctx, subjectID)
	if err == nil {
		return &domain.Principal{ID: p.ID, Kind: domain.KindParent, DisplayName: p.Name}, nil
	}
	if apperr.Is(err, apperr.NotFound) {
		return nil, apperr.New(apperr.Unauthenticated, "unknown account")
	}
	return nil, err
}
