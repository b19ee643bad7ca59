// Package registry holds the in-memory run-session registry. Sessions are
// runtime state: after a server restart clients simply re-register on
// their next poll, so nothing here is persisted.
package registry

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/settingsync/settingsync/internal/domain"
	"github.com/settingsync/settingsync/internal/ports"
)

type clientSessions struct {
	mu       sync.Mutex
	sessions []domain.RunSession
}

// Registry serializes all mutation per client definition: each definition
// gets its own lock, so polls for different clients never contend while
// read-modify-write of one definition's session set stays atomic.
type Registry struct {
	mu      sync.RWMutex
	clients map[domain.ClientKey]*clientSessions
}

var _ ports.SessionRegistry = (*Registry)(nil)

func New() *Registry {
	return &Registry{clients: map[domain.ClientKey]*clientSessions{}}
}

func (r *Registry) Sessions(ctx context.Context, key domain.ClientKey) ([]domain.RunSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry := r.entry(key)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	return cloneSessions(entry.sessions), nil
}

func (r *Registry) Update(ctx context.Context, key domain.ClientKey, fn func(sessions []domain.RunSession) ([]domain.RunSession, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := r.entry(key)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	updated, err := fn(cloneSessions(entry.sessions))
	if err != nil {
		return err
	}

	entry.sessions = cloneSessions(updated)

	return nil
}

func (r *Registry) UpdateSession(ctx context.Context, id uuid.UUID, fn func(session *domain.RunSession) error) (domain.ClientKey, domain.RunSession, error) {
	if err := ctx.Err(); err != nil {
		return domain.ClientKey{}, domain.RunSession{}, err
	}

	r.mu.RLock()
	keys := make([]domain.ClientKey, 0, len(r.clients))
	entries := make([]*clientSessions, 0, len(r.clients))
	for key, entry := range r.clients {
		keys = append(keys, key)
		entries = append(entries, entry)
	}
	r.mu.RUnlock()

	for i, entry := range entries {
		entry.mu.Lock()
		for j := range entry.sessions {
			if entry.sessions[j].RunSessionID != id {
				continue
			}

			session := cloneSession(entry.sessions[j])
			if err := fn(&session); err != nil {
				entry.mu.Unlock()
				return domain.ClientKey{}, domain.RunSession{}, err
			}
			entry.sessions[j] = cloneSession(session)
			entry.mu.Unlock()

			return keys[i], session, nil
		}
		entry.mu.Unlock()
	}

	return domain.ClientKey{}, domain.RunSession{}, domain.ErrRunSessionNotFound
}

func (r *Registry) entry(key domain.ClientKey) *clientSessions {
	r.mu.RLock()
	entry, ok := r.clients[key]
	r.mu.RUnlock()
	if ok {
		return entry
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.clients[key]; ok {
		return entry
	}

	entry = &clientSessions{}
	r.clients[key] = entry

	return entry
}

// cloneSessions copies the set deeply enough that callers can mutate
// their view without sharing backing arrays with the stored state.
func cloneSessions(sessions []domain.RunSession) []domain.RunSession {
	cloned := make([]domain.RunSession, len(sessions))
	for i, session := range sessions {
		cloned[i] = cloneSession(session)
	}

	return cloned
}

func cloneSession(session domain.RunSession) domain.RunSession {
	cloned := session
	cloned.ConfigurationErrors = append([]string(nil), session.ConfigurationErrors...)
	cloned.MemorySamples = append([]domain.MemorySample(nil), session.MemorySamples...)
	if session.MemoryAnalysis != nil {
		analysis := *session.MemoryAnalysis
		cloned.MemoryAnalysis = &analysis
	}

	return cloned
}
