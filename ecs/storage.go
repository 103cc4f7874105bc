package ecs

import (
	"cmp"
	"reflect"
	"slices"
)

// Storage owns every component column. Columns are created the first time a
// component of their type is inserted and are never removed.
//
// Storage is not safe for concurrent use.
type Storage struct {
	entities entityAllocator
	columns  map[reflect.Type]anyColumn
}

// NewStorage creates an empty storage.
func NewStorage() *Storage {
	return &Storage{
		columns: make(map[reflect.Type]anyColumn),
	}
}

// AddEntity allocates the next entity id and inserts the components under it
// in list order. When the same type appears more than once the last value
// wins.
func (s *Storage) AddEntity(components ...Component) EntityId {
	id := s.entities.allocate()
	for _, c := range components {
		c.insert(s, id)
	}
	return id
}

// EntityCount returns the number of entities allocated so far.
func (s *Storage) EntityCount() int {
	return s.entities.Count()
}

// lookupColumn returns the column for T, or nil when no T was ever inserted.
func lookupColumn[T any](s *Storage) *column[T] {
	existing, ok := s.columns[reflect.TypeFor[T]()]
	if !ok {
		return nil
	}
	return existing.(*column[T])
}

// columnFor returns the column for T, creating it on first use.
func columnFor[T any](s *Storage) *column[T] {
	t := reflect.TypeFor[T]()
	if existing, ok := s.columns[t]; ok {
		return existing.(*column[T])
	}

	c := newColumn[T]()
	s.columns[t] = c
	return c
}

// Get returns the T component of the entity, if it has one.
func Get[T any](s *Storage, id EntityId) (T, bool) {
	return lookupColumn[T](s).get(id)
}

// Has reports whether the entity has a T component.
func Has[T any](s *Storage, id EntityId) bool {
	return lookupColumn[T](s).Has(id)
}

// Count returns the number of entities with a T component.
func Count[T any](s *Storage) int {
	return lookupColumn[T](s).Len()
}

// StorageStats describes the contents of a Storage.
type StorageStats struct {
	EntityCount int
	ColumnCount int
	Columns     []ColumnStats
}

// ColumnStats describes a single component column.
type ColumnStats struct {
	Id       ComponentId
	TypeName string
	Rows     int
}

// CollectStats walks every column. Columns are sorted by type name, then id.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		EntityCount: s.EntityCount(),
		ColumnCount: len(s.columns),
		Columns:     make([]ColumnStats, 0, len(s.columns)),
	}

	for t, c := range s.columns {
		stats.Columns = append(stats.Columns, ColumnStats{
			Id:       componentIdOf(t),
			TypeName: c.Type().String(),
			Rows:     c.Len(),
		})
	}

	slices.SortFunc(stats.Columns, func(a, b ColumnStats) int {
		return cmp.Or(cmp.Compare(a.TypeName, b.TypeName), cmp.Compare(a.Id, b.Id))
	})
	return stats
}
