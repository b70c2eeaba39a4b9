// Package memory implements the user and photo repositories in process memory.
// It backs STORE_DRIVER=memory and the service tests.
package memory

import (
	"sort"
	"sync"
	"time"
)

// Store shares one lock between users and photos so the owner join and the
// delete cascade behave like the SQL schema.
type Store struct {
	mu     sync.RWMutex
	seq    int64
	users  map[string]*userRow
	photos map[string]*photoRow

	// Now is the clock used for timestamps. Tests may replace it.
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]*userRow),
		photos: make(map[string]*photoRow),
		Now:    time.Now,
	}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (s *Store) Photos() *PhotoRepository { return &PhotoRepository{s: s} }

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

type ordered interface {
	created() time.Time
	order() int64
}

// newestFirst sorts by created_at desc, falling back to insertion order.
func newestFirst[T ordered](rows []T) {
	sort.SliceStable(rows, func(i, j int) bool {
		ci, cj := rows[i].created(), rows[j].created()
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return rows[i].order() > rows[j].order()
	})
}

func window[T any](rows []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
