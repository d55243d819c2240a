// Package adhkar manages the user's ordered morning and evening
// remembrance lists.
package adhkar

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smokyabdulrahman/salah-times/internal/logger"
)

// Type names one of the two lists.
type Type string

const (
	Morning Type = "morning"
	Evening Type = "evening"
)

// Types lists every list type in display order.
var Types = []Type{Morning, Evening}

var (
	// ErrUnknownType is returned for a list name other than morning or evening.
	ErrUnknownType = errors.New("unknown adhkar list")

	// ErrNotFound is returned when no item with the given ID is in the list.
	ErrNotFound = errors.New("adhkar item not found")

	// ErrEmptyText is returned when adding an item without text.
	ErrEmptyText = errors.New("adhkar text is empty")
)

// ParseType accepts "morning", "evening" and their short forms "am"/"pm".
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "morning", "am", "sabah":
		return Morning, nil
	case "evening", "pm", "masa":
		return Evening, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Item is one entry of a list. Positions are 0-based and contiguous
// within a list. IDs are unique across both lists.
type Item struct {
	ID       int64  `json:"id" db:"id"`
	Type     Type   `json:"type" db:"type"`
	Text     string `json:"text" db:"text"`
	Position int    `json:"position" db:"position"`
}

// Store persists the lists.
//
// ListAdhkar returns the items of t ordered by position. SaveAdhkar
// replaces the whole list of t with items, keeping their IDs and
// positions. InsertAdhkar appends one item and returns it with its new ID.
type Store interface {
	ListAdhkar(ctx context.Context, t Type) ([]Item, error)
	InsertAdhkar(ctx context.Context, it Item) (Item, error)
	SaveAdhkar(ctx context.Context, t Type, items []Item) error
}

// Service edits the lists and keeps positions contiguous.
type Service struct {
	store Store
}

// NewService wraps store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the items of t in order.
func (s *Service) List(ctx context.Context, t Type) ([]Item, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	return s.store.ListAdhkar(ctx, t)
}

// Add appends text to the end of t.
func (s *Service) Add(ctx context.Context, t Type, text string) (Item, error) {
	if err := t.validate(); err != nil {
		return Item{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Item{}, ErrEmptyText
	}
	items, err := s.store.ListAdhkar(ctx, t)
	if err != nil {
		return Item{}, err
	}
	it, err := s.store.InsertAdhkar(ctx, Item{Type: t, Text: text, Position: len(items)})
	if err != nil {
		return Item{}, err
	}
	logger.Debug("adhkar added", "type", t, "id", it.ID, "position", it.Position)
	return it, nil
}

// Delete removes id from t and closes the gap it leaves.
func (s *Service) Delete(ctx context.Context, t Type, id int64) error {
	items, err := s.List(ctx, t)
	if err != nil {
		return err
	}
	i := indexOf(items, id)
	if i < 0 {
		return fmt.Errorf("%w: %s #%d", ErrNotFound, t, id)
	}
	items = append(items[:i], items[i+1:]...)
	logger.Debug("adhkar deleted", "type", t, "id", id)
	return s.save(ctx, t, items)
}

// Move places id at position to within t, shifting the items between.
// to is clamped to the list bounds.
func (s *Service) Move(ctx context.Context, t Type, id int64, to int) ([]Item, error) {
	items, err := s.List(ctx, t)
	if err != nil {
		return nil, err
	}
	from := indexOf(items, id)
	if from < 0 {
		return nil, fmt.Errorf("%w: %s #%d", ErrNotFound, t, id)
	}
	to = max(0, min(to, len(items)-1))
	if from == to {
		return items, nil
	}

	it := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items[:to], append([]Item{it}, items[to:]...)...)
	if err := s.save(ctx, t, items); err != nil {
		return nil, err
	}
	logger.Debug("adhkar moved", "type", t, "id", id, "from", from, "to", to)
	return items, nil
}

// save renumbers positions in slice order and persists the list.
func (s *Service) save(ctx context.Context, t Type, items []Item) error {
	for i := range items {
		items[i].Position = i
		items[i].Type = t
	}
	return s.store.SaveAdhkar(ctx, t, items)
}

func (t Type) validate() error {
	if t != Morning && t != Evening {
		return fmt.Errorf("%w: %q", ErrUnknownType, string(t))
	}
	return nil
}

func indexOf(items []Item, id int64) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
