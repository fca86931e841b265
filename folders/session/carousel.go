package session

import (
	"fmt"

	"github.com/ZanzyTHEbar/fire-folders/folders/common"
	"github.com/ZanzyTHEbar/fire-folders/folders/types"
)

// OpenCarousel switches to carousel mode on the photo at position at
func (s *Session) OpenCarousel(at int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sel.kind == types.CollectionNone {
		return common.ErrNoCollection
	}
	if at < 0 || at >= len(s.sel.displayed) {
		return fmt.Errorf("carousel position %d: %w", at, common.ErrNotFound)
	}
	s.sel.mode = types.ModeCarousel
	s.sel.carousel = at
	return nil
}

// CloseCarousel goes back to the grid, keeping the position
func (s *Session) CloseCarousel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sel.kind != types.CollectionNone {
		s.sel.mode = types.ModeGrid
	}
}

// Next moves the carousel forward, wrapping to the first photo
func (s *Session) Next() int { return s.step(1) }

// Prev moves the carousel back, wrapping to the last photo
func (s *Session) Prev() int { return s.step(-1) }

func (s *Session) step(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.sel.displayed)
	if n == 0 {
		return s.sel.carousel
	}
	s.sel.carousel = ((s.sel.carousel+delta)%n + n) % n
	return s.sel.carousel
}

// Current returns the photo under the carousel cursor
func (s *Session) Current() (types.PhotoID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sel.carousel < 0 || s.sel.carousel >= len(s.sel.displayed) {
		return "", fmt.Errorf("carousel position %d: %w", s.sel.carousel, common.ErrNotFound)
	}
	return s.sel.displayed[s.sel.carousel], nil
}
