package story

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrMissingField = errors.New("title and content are required")
	ErrNotFound     = errors.New("story not found")
)

// Store keeps stories in memory with auto-incrementing ids starting at 1.
type Store struct {
	mu      sync.RWMutex
	stories map[int]Story
	nextID  int
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{stories: make(map[int]Story), nextID: 1, now: time.Now}
}

func (s *Store) Create(in NewStory) (Story, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return Story{}, ErrMissingField
	}
	images := append([]string{}, in.CardImages...)

	s.mu.Lock()
	defer s.mu.Unlock()
	st := Story{
		ID:         s.nextID,
		Title:      in.Title,
		Content:    in.Content,
		CardImages: images,
		CreatedAt:  s.now(),
	}
	s.stories[st.ID] = st
	s.nextID++
	return st, nil
}

func (s *Store) Get(id int) (Story, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stories[id]
	if !ok {
		return Story{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return st, nil
}

// List returns every story, newest first.
func (s *Store) List() []Story {
	s.mu.RLock()
	out := make([]Story, 0, len(s.stories))
	for _, st := range s.stories {
		out = append(out, st)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Search lists the stories matching opt, newest first.
func (s *Store) Search(opt FilterOptions) []Story {
	return Filter(s.List(), opt)
}
