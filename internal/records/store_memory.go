package records

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory SearchStore for tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items []*Item
}

// NewMemoryStore creates an empty in-memory search store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Put appends an item.
func (s *MemoryStore) Put(item *Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *item
	s.items = append(s.items, &cp)
}

func (s *MemoryStore) Search(_ context.Context, params SearchParams) ([]*Item, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*Item
	for _, item := range s.items {
		if !matches(item, params) {
			continue
		}
		cp := *item
		matched = append(matched, &cp)
	}

	sortItems(matched, params)

	total := int64(len(matched))
	start := params.Offset()
	if start >= len(matched) {
		return []*Item{}, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func matches(item *Item, p SearchParams) bool {
	if p.Query != "" {
		q := strings.ToLower(p.Query)
		if !containsFold(item.Notes, q) && !containsFold(item.SourceName, q) {
			return false
		}
	}
	if p.EventType != "" && item.Type != p.EventType {
		return false
	}
	if p.DateFrom != nil && (item.EventDate == nil || item.EventDate.Before(*p.DateFrom)) {
		return false
	}
	if p.DateTo != nil && (item.EventDate == nil || item.EventDate.After(*p.DateTo)) {
		return false
	}
	if p.Place != "" && !containsFold(item.Place, strings.ToLower(p.Place)) {
		return false
	}
	if p.SourceType != "" && !containsFold(item.SourceType, strings.ToLower(p.SourceType)) {
		return false
	}
	if p.EventIDFrom != nil && item.ID < *p.EventIDFrom {
		return false
	}
	if p.EventIDTo != nil && item.ID > *p.EventIDTo {
		return false
	}
	return true
}

func containsFold(s *string, loweredNeedle string) bool {
	return s != nil && strings.Contains(strings.ToLower(*s), loweredNeedle)
}

func sortItems(items []*Item, p SearchParams) {
	desc := p.SortDirection == SortDesc
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			i, j = j, i
		}
		return itemLess(items[i], items[j], p.SortField)
	})
}

// itemLess orders by the sort field with id as the stable tiebreaker.
// Dateless items sort after dated ones.
func itemLess(a, b *Item, field string) bool {
	if field == SortByDate {
		switch {
		case a.EventDate == nil && b.EventDate == nil:
		case a.EventDate == nil:
			return false
		case b.EventDate == nil:
			return true
		case !a.EventDate.Equal(*b.EventDate):
			return a.EventDate.Before(*b.EventDate)
		}
	}
	return a.ID < b.ID
}
