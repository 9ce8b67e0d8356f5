package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/youruser/storycards/internal/cards"
	imagepkg "github.com/youruser/storycards/internal/image"
)

var ErrCardNotFound = errors.New("card not found")

// Session is one browsing session's batch: the cards, the pools they draw
// from and the keys already handed out. Methods are safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	cards     []cards.Card
	pools     imagepkg.PoolConfig
	used      *imagepkg.UsedSet
	alloc     *imagepkg.Allocator
	policy    cards.RevealPolicy
	touchedAt time.Time
}

// Snapshot is a copy of a session's visible state.
type Snapshot struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"createdAt"`
	Pools     imagepkg.PoolConfig `json:"pools"`
	Policy    cards.RevealPolicy  `json:"policy"`
	Cards     []cards.Card        `json:"cards"`
	Revealed  int                 `json:"revealed"`
	Used      int                 `json:"used"`
}

// New starts a session over batch. The pool config is checked before
// anything else so a bad config never produces a session.
func New(batch []cards.Card, pools imagepkg.PoolConfig, alloc *imagepkg.Allocator, policy cards.RevealPolicy) (*Session, error) {
	if err := pools.Validate(); err != nil {
		return nil, err
	}
	if alloc == nil {
		return nil, errors.New("session: nil allocator")
	}
	if policy == "" {
		policy = cards.PolicyToggle
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		cards:     append([]cards.Card(nil), batch...),
		pools:     pools,
		used:      imagepkg.NewUsedSet(),
		alloc:     alloc,
		policy:    policy,
		touchedAt: now,
	}, nil
}

// Flip handles a click on card id: a hidden card is revealed, drawing an
// image the first time; a revealed card follows the reveal policy.
func (s *Session) Flip(id int) (cards.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.card(id)
	if err != nil {
		return cards.Card{}, err
	}
	if c.Revealed {
		if s.policy == cards.PolicyToggle {
			c.Revealed = false
		}
		return *c, nil
	}
	if err := s.reveal(c); err != nil {
		return cards.Card{}, err
	}
	return *c, nil
}

// RevealAll reveals every hidden card in id order and returns the batch.
// It stops at the first allocation error; cards revealed before it stay so.
func (s *Session) RevealAll() ([]cards.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	for i := range s.cards {
		if s.cards[i].Revealed {
			continue
		}
		if err := s.reveal(&s.cards[i]); err != nil {
			return nil, err
		}
	}
	return append([]cards.Card(nil), s.cards...), nil
}

// Hide turns a card face down regardless of policy. The image stays
// assigned and is shown again on the next reveal.
func (s *Session) Hide(id int) (cards.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.card(id)
	if err != nil {
		return cards.Card{}, err
	}
	c.Revealed = false
	return *c, nil
}

// MarkImageFailed records that the client could not load the card's image.
// The card stays revealed.
func (s *Session) MarkImageFailed(id int) (cards.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.card(id)
	if err != nil {
		return cards.Card{}, err
	}
	c.ImageFailed = true
	return *c, nil
}

// Revealed returns the face-up cards in id order.
func (s *Session) Revealed() []cards.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []cards.Card{}
	for _, c := range s.cards {
		if c.Revealed {
			out = append(out, c)
		}
	}
	return out
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.cards {
		if c.Revealed {
			n++
		}
	}
	return Snapshot{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Pools:     s.pools,
		Policy:    s.policy,
		Cards:     append([]cards.Card(nil), s.cards...),
		Revealed:  n,
		Used:      s.used.Len(),
	}
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

// reveal flips c face up, drawing an image if it has none. On error c is
// left as it was.
func (s *Session) reveal(c *cards.Card) error {
	if !c.HasImage() {
		ref, err := s.alloc.Draw(s.used, s.pools)
		if err != nil {
			return fmt.Errorf("card %d: %w", c.ID, err)
		}
		c.ImageRef = ref.URL
		c.ImageKind = string(ref.Kind)
	}
	c.Revealed = true
	return nil
}

func (s *Session) card(id int) (*cards.Card, error) {
	s.touch()
	if id < 0 || id >= len(s.cards) {
		return nil, fmt.Errorf("%w: %d", ErrCardNotFound, id)
	}
	return &s.cards[id], nil
}

func (s *Session) touch() { s.touchedAt = time.Now() }
