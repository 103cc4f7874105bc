package ecs

import (
	"iter"
	"reflect"

	"github.com/kamstrup/intmap"
)

const defaultColumnCapacity = 64

// anyColumn is the type-erased view of a column used by the join and by
// storage stats.
type anyColumn interface {
	Len() int
	Has(id EntityId) bool
	Ids() iter.Seq[EntityId]
	Type() reflect.Type
}

// column maps entity ids to the component values of a single type T.
// A nil *column behaves as an empty column.
type column[T any] struct {
	rows *intmap.Map[EntityId, T]
}

func newColumn[T any]() *column[T] {
	return &column[T]{
		rows: intmap.New[EntityId, T](defaultColumnCapacity),
	}
}

// put stores value for id, replacing any previous value.
func (c *column[T]) put(id EntityId, value T) {
	c.rows.Put(id, value)
}

func (c *column[T]) get(id EntityId) (T, bool) {
	if c == nil {
		var zero T
		return zero, false
	}
	return c.rows.Get(id)
}

func (c *column[T]) Has(id EntityId) bool {
	if c == nil {
		return false
	}
	return c.rows.Has(id)
}

func (c *column[T]) Len() int {
	if c == nil {
		return 0
	}
	return c.rows.Len()
}

func (c *column[T]) Ids() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		if c == nil {
			return
		}
		for id := range c.rows.Keys() {
			if !yield(id) {
				return
			}
		}
	}
}

// All iterates over every (id, value) pair in the column's native order.
func (c *column[T]) All() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		if c == nil {
			return
		}
		c.rows.ForEach(yield)
	}
}

func (c *column[T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}
