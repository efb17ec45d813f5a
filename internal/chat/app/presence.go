package app

import (
	"sync"

	"school_chat_service/internal/chat/domain"
)

// SessionHandle live-connection handle of one online principal. Emit is
// best-effort; presence is never a source of truth beyond "can I push a live
// event right now".
type SessionHandle interface {
	Principal() *domain.Principal
	Emit(resp domain.WSResponse)
}

// PresenceRegistry process-wide in-memory map principal id -> live handle.
// Rebuilt from zero on restart; injected into the session handler, never
// accessed as a global.
type PresenceRegistry interface {
	Register(principalID string, h SessionHandle)
	// Unregister removes the mapping only while h is still the registered
	// handle, so a reconnect racing the old connection's teardown keeps the
	// newer registration.
	Unregister(principalID string, h SessionHandle)
	IsOnline(principalID string) bool
	HandleFor(principalID string) (SessionHandle, bool)
	Snapshot() []SessionHandle
}

type presenceRegistry struct {
	mu       sync.RWMutex
	sessions map[string]SessionHandle
}

// NewPresenceRegistry create an empty registry
func NewPresenceRegistry() PresenceRegistry {
	return &presenceRegistry{
		sessions: make(map[string]SessionHandle),
	}
}

// Register last-register-wins: a second connection of the same principal
// replaces the first
func (r *presenceRegistry) Register(principalID string, h SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[principalID] = h
}

func (r *presenceRegistry) Unregister(principalID string, h SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.sessions[principalID]; ok && cur == h {
		delete(r.sessions, principalID)
	}
}

func (r *presenceRegistry) IsOnline(principalID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[principalID]
	return ok
}

func (r *presenceRegistry) HandleFor(principalID string) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.sessions[principalID]
	return h, ok
}

func (r *presenceRegistry) Snapshot() []SessionHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handles := make([]SessionHandle, 0, len(r.sessions))
	for _, h := range r.sessions {
		handles = append(handles, h)
	}
	return handles
}
