// Package session persists coloring sessions: a graph, its current
// assignment and the full undo/redo history.
//
// The Store interface has two implementations:
//   - [FileStore]: JSON files in a data directory, for the CLI
//   - [MongoStore]: a MongoDB collection, for the HTTP server
//
// # Usage
//
//	store, err := session.NewFileStore(dir)
//
//	sess := session.New("australia", e.State(), session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, id)
//	if sess == nil {
//	    // not found or expired
//	}
//	e := sess.Engine()
package session

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/franzenjb/fourcolor/pkg/engine"
)

// DefaultTTL is the default session lifetime.
const DefaultTTL = 30 * 24 * time.Hour

// Session is a saved coloring session.
type Session struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	State     engine.State `json:"state" bson:"state"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time    `json:"expires_at" bson:"expires_at"`
}

// New creates a session with a random UUID.
func New(name string, st engine.State, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Name:      name,
		State:     st,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Engine restores the session into a new engine.
func (s *Session) Engine(opts ...engine.Option) *engine.Engine {
	e := engine.New(opts...)
	e.Restore(s.State)
	return e
}

// Info summarizes a session without its state.
type Info struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Nodes     int       `json:"nodes" bson:"nodes"`
	Chromatic int       `json:"chromatic" bson:"chromatic"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

// Info returns the session summary.
func (s *Session) Info() Info {
	return Info{
		ID:        s.ID,
		Name:      s.Name,
		Nodes:     len(s.State.Graph.Nodes),
		Chromatic: s.State.Current.Chromatic,
		UpdatedAt: s.UpdatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

// SortInfos orders summaries most recently updated first.
func SortInfos(infos []Info) {
	slices.SortFunc(infos, func(a, b Info) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// Capture replaces the stored state with e's and bumps UpdatedAt.
func (s *Session) Capture(e *engine.Engine) {
	s.State = e.State()
	s.UpdatedAt = time.Now()
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session, replacing any existing one with the same ID.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns summaries of the live sessions, most recently updated
	// first.
	List(ctx context.Context) ([]Info, error)

	// Cleanup removes expired sessions and returns how many it removed.
	Cleanup(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}
