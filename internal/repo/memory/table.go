// Package memory holds map-backed stores with the same contracts as the
// postgres repositories. They back the "memory" storage driver and tests.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
)

// table is a moderatable collection. Accessors are supplied per entity so the
// list and transition logic is written once.
type table[E any] struct {
	mu     sync.RWMutex
	seq    int64
	rows   map[int64]E
	id     func(E) int64
	status func(E) enums.ModerationStatus
	create func(E) time.Time
	match  func(E, string) bool
}

func newTable[E any](id func(E) int64, status func(E) enums.ModerationStatus, created func(E) time.Time, match func(E, string) bool) *table[E] {
	return &table[E]{
		rows:   make(map[int64]E),
		id:     id,
		status: status,
		create: created,
		match:  match,
	}
}

func (t *table[E]) nextID() int64 {
	t.seq++
	return t.seq
}

func (t *table[E]) get(id int64) (E, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		var zero E
		return zero, model.ErrNotFound
	}
	return row, nil
}

func (t *table[E]) list(f model.ListFilter, extra func(E) bool) ([]E, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(f.Query))
	matched := make([]E, 0, len(t.rows))
	for _, row := range t.rows {
		if f.Status != "" && t.status(row) != f.Status {
			continue
		}
		if query != "" && !t.match(row, query) {
			continue
		}
		if extra != nil && !extra(row) {
			continue
		}
		matched = append(matched, row)
	}

	sort.Slice(matched, func(i, j int) bool {
		ci, cj := t.create(matched[i]), t.create(matched[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return t.id(matched[i]) > t.id(matched[j])
	})

	total := len(matched)
	start := f.Offset()
	if start >= total {
		return []E{}, total
	}
	end := start + f.PageSize
	if f.PageSize <= 0 || end > total {
		end = total
	}
	return append([]E(nil), matched[start:end]...), total
}

// transition applies mutate to a pending row under the write lock.
func (t *table[E]) transition(id int64, mutate func(*E)) (E, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.rows[id]
	if !ok {
		var zero E
		return zero, model.ErrNotFound
	}
	if t.status(row) != enums.ModerationStatusPending {
		var zero E
		return zero, model.ErrStatusChanged
	}
	mutate(&row)
	t.rows[id] = row
	return row, nil
}

func (t *table[E]) count(status enums.ModerationStatus) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if status == "" {
		return len(t.rows)
	}
	n := 0
	for _, row := range t.rows {
		if t.status(row) == status {
			n++
		}
	}
	return n
}

func contains(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}

func decided(t model.Transition) (*int64, *time.Time) {
	at := t.At
	var actor *int64
	if t.ActorID > 0 {
		id := t.ActorID
		actor = &id
	}
	return actor, &at
}
