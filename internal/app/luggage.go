package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"trip_planner/internal/domain"
)

type LuggageService struct {
	store *Store
	mu    sync.Mutex
}

func NewLuggageService(s *Store) *LuggageService { return &LuggageService{store: s} }

type Checklist struct {
	Items   []domain.LuggageItem `json:"items"`
	Packed  int                  `json:"packed"`
	Total   int                  `json:"total"`
	Percent float64              `json:"percent"`
}

func checklist(items []domain.LuggageItem) Checklist {
	c := Checklist{Items: items, Total: len(items)}
	for _, it := range items {
		if it.Packed {
			c.Packed++
		}
	}
	if c.Total > 0 {
		c.Percent = float64(c.Packed) * 100 / float64(c.Total)
	}
	return c
}

func (s *LuggageService) items(ctx context.Context) []domain.LuggageItem {
	items, ok := load(ctx, s.store, KeyLuggage, []domain.LuggageItem(nil))
	if !ok {
		items = make([]domain.LuggageItem, len(domain.DefaultLuggage))
		for i, n := range domain.DefaultLuggage {
			items[i] = domain.LuggageItem{Name: n}
		}
	}
	if items == nil {
		items = []domain.LuggageItem{}
	}
	return items
}

func (s *LuggageService) List(ctx context.Context) Checklist { return checklist(s.items(ctx)) }

func (s *LuggageService) Add(ctx context.Context, name string) (Checklist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Checklist{}, fmt.Errorf("%w: item name is required", domain.ErrValidation)
	}
	return s.mutate(ctx, func(items []domain.LuggageItem) ([]domain.LuggageItem, error) {
		return append(items, domain.LuggageItem{Name: name}), nil
	})
}

func (s *LuggageService) Remove(ctx context.Context, index int) (Checklist, error) {
	return s.mutate(ctx, func(items []domain.LuggageItem) ([]domain.LuggageItem, error) {
		if index < 0 || index >= len(items) {
			return nil, fmt.Errorf("item %d: %w", index, domain.ErrNotFound)
		}
		return append(items[:index], items[index+1:]...), nil
	})
}

func (s *LuggageService) SetPacked(ctx context.Context, index int, packed bool) (Checklist, error) {
	return s.mutate(ctx, func(items []domain.LuggageItem) ([]domain.LuggageItem, error) {
		if index < 0 || index >= len(items) {
			return nil, fmt.Errorf("item %d: %w", index, domain.ErrNotFound)
		}
		items[index].Packed = packed
		return items, nil
	})
}

func (s *LuggageService) mutate(ctx context.Context, fn func([]domain.LuggageItem) ([]domain.LuggageItem, error)) (Checklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := fn(s.items(ctx))
	if err != nil {
		return Checklist{}, err
	}
	if !save(ctx, s.store, KeyLuggage, items) {
		return Checklist{}, domain.ErrPersist
	}
	return checklist(items), nil
}
