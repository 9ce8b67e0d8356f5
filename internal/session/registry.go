package session

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/youruser/storycards/internal/cards"
	imagepkg "github.com/youruser/storycards/internal/image"
)

var ErrSessionNotFound = errors.New("session not found")

// Options configure how a Registry builds sessions.
type Options struct {
	Counts  cards.CountRange
	Palette []string
	Policy  cards.RevealPolicy
	TTL     time.Duration // zero keeps sessions until deleted
	// NewAllocator returns the allocator for a fresh session.
	NewAllocator func() *imagepkg.Allocator
	RNG          imagepkg.RandomSource
}

// Registry holds live sessions keyed by id.
type Registry struct {
	opts   Options
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(opts Options, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Counts == (cards.CountRange{}) {
		opts.Counts = cards.DefaultCountRange
	}
	if opts.NewAllocator == nil {
		opts.NewAllocator = func() *imagepkg.Allocator {
			return imagepkg.NewAllocator(imagepkg.DefaultIllustrations("", imagepkg.DefaultIllustrationCount), nil)
		}
	}
	return &Registry{opts: opts, logger: logger, sessions: make(map[string]*Session)}
}

// Create generates a batch of count cards and registers a session for it.
// Invalid counts and pool configs fail before any state is created.
func (r *Registry) Create(count int, pools imagepkg.PoolConfig) (*Session, error) {
	if err := r.opts.Counts.Check(count); err != nil {
		return nil, err
	}
	if err := pools.Validate(); err != nil {
		return nil, err
	}
	batch := cards.Generate(count, r.opts.Palette, r.opts.RNG)
	s, err := New(batch, pools, r.opts.NewAllocator(), r.opts.Policy)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.logger.Debug("session created",
		zap.String("session", s.ID),
		zap.Int("cards", count),
		zap.Bool("photos", pools.Photos),
		zap.Bool("illustrations", pools.Illustrations))
	r.sweep()
	return s, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok || r.expired(s, time.Now()) {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete drops a session. Unknown ids report ErrSessionNotFound.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// sweep removes expired sessions.
func (r *Registry) sweep() {
	if r.opts.TTL <= 0 {
		return
	}
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if r.expired(s, now) {
			delete(r.sessions, id)
			r.logger.Debug("session expired", zap.String("session", id))
		}
	}
}

func (r *Registry) expired(s *Session, now time.Time) bool {
	return r.opts.TTL > 0 && now.Sub(s.idleSince()) > r.opts.TTL
}

// Counts is the card count range sessions accept.
func (r *Registry) Counts() cards.CountRange { return r.opts.Counts }
