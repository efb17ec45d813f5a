package app

import (
	"context"
	"errors"
	"testing"

	"school_chat_service/internal/chat/domain"
	"school_chat_service/pkg/apperr"
	"school_chat_service/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func withParsedClaims(t *testing.T, claims *token.Claims, err error) {
	t.Helper()
	orig := token.ParseJWTFunc
	token.ParseJWTFunc = func(string) (*token.Claims, error) {
		return claims, err
	}
	t.Cleanup(func() { token.ParseJWTFunc = orig })
}

func TestResolver_TeacherCredential(t *testing.T) {
	withParsedClaims(t, &token.Claims{UserID: "teacher-1", Role: string(token.RoleTeacher)}, nil)

	accounts := new(MockAccountRepository)
	accounts.On("FindTeacher", mock.Anything, "teacher-1").
		Return(&domain.TeacherAccount{ID: "teacher-1", Name: "Ms. Rivera"}, nil)

	r := NewPrincipalResolver(accounts)
	p, err := r.Resolve(context.Background(), "some-token")
	assert.NoError(t, err)
	assert.Equal(t, domain.KindTeacher, p.Kind)
	assert.Equal(t, "Ms. Rivera", p.DisplayName)
}

func TestResolver_ParentCredential(t *testing.T) {
	withParsedClaims(t, &token.Claims{UserID: "parent-1", Role: string(token.RoleParent)}, nil)

	accounts := new(MockAccountRepository)
	accounts.On("FindTeacher", mock.Anything, "parent-1").
		Return(nil, apperr.New(apperr.NotFound, "teacher not found"))
	accounts.On("FindParent", mock.Anything, "parent-1").
		Return(&domain.ParentAccount{ID: "parent-1", Name: "Mr. Shah"}, nil)

	r := NewPrincipalResolver(accounts)
	p, err := r.Resolve(context.Background(), "some-token")
	assert.NoError(t, err)
	assert.Equal(t, domain.KindParent, p.Kind)
}

func TestResolver_MissingCredential(t *testing.T) {
	r := NewPrincipalResolver(new(MockAccountRepository))
	_, err := r.Resolve(context.Background(), "")
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
}

func TestResolver_BadCredential(t *testing.T) {
	withParsedClaims(t, nil, errors.New("token is malformed"))

	r := NewPrincipalResolver(new(MockAccountRepository))
	_, err := r.Resolve(context.Background(), "garbage")
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
}

// a verified token whose subject matches no account is still unauthenticated
func TestResolver_UnknownSubject(t *testing.T) {
	withParsedClaims(t, &token.Claims{UserID: "ghost-1"}, nil)

	accounts := new(MockAccountRepository)
	accounts.On("FindTeacher", mock.Anything, "ghost-1").
		Return(nil, apperr.New(apperr.NotFound, "teacher not found"))
	accounts.On("FindParent", mock.Anything, "ghost-1").
		Return(nil, apperr.New(apperr.NotFound, "parent not found"))

	r := NewPrincipalResolver(accounts)
	_, err := r.Resolve(context.Background(), "some-token")
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
}

// store failures surface as-is, never as an auth failure
func TestResolver_LookupFailure(t *testing.T) {
	withParsedClaims(t, &token.Claims{UserID: "teacher-1"}, nil)

	accounts := new(MockAccountRepository)
	accounts.On("FindTeacher", mock.Anything, "teacher-1").
		Return(nil, apperr.New(apperr.Persistence, "mongo down"))

	r := NewPrincipalResolver(accounts)
	_, err := r.Resolve(context.Background(), "some-token")
	assert.True(t, apperr.Is(err, apperr.Persistence))
}
