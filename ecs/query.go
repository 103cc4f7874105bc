package ecs

import (
	"iter"
	"reflect"
)

// Row is one query hit: an entity and its component payload.
type Row[T any] struct {
	Id    EntityId
	Value T
}

// Result is a snapshot of query hits. It is built once and never updated;
// later changes to the storage are not reflected in it.
type Result[T any] []Row[T]

// Len returns the number of rows.
func (r Result[T]) Len() int {
	return len(r)
}

// Iter returns an iterator over entity IDs and payloads.
func (r Result[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, row := range r {
			if !yield(row.Id, row.Value) {
				return
			}
		}
	}
}

// Values returns an iterator over payloads only.
func (r Result[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, row := range r {
			if !yield(row.Value) {
				return
			}
		}
	}
}

// Ids returns the entity ids of every row, in row order.
func (r Result[T]) Ids() []EntityId {
	ids := make([]EntityId, len(r))
	for i, row := range r {
		ids[i] = row.Id
	}
	return ids
}

// queryDescriptor is implemented by the query types a system may declare as
// parameters. The zero value of a query type is the descriptor; resolve
// produces a populated value of the same type.
type queryDescriptor interface {
	ComponentTypes() []reflect.Type
	queryType() reflect.Type
	resolve(s *Storage) reflect.Value
}

var (
	_ queryDescriptor = Query[int]{}
	_ queryDescriptor = Query2[int, int]{}
	_ queryDescriptor = Query3[int, int, int]{}
	_ queryDescriptor = Query4[int, int, int, int]{}
)

// Query holds every entity with a T component.
//
// Declare it as a system parameter to receive a fresh snapshot on each call:
//
//	func(healths ecs.Query[Health]) { ... }
type Query[T any] struct {
	Result[T]
}

// ResolveQuery scans the T column. The result is empty if no T was ever added.
func ResolveQuery[T any](s *Storage) Query[T] {
	c := lookupColumn[T](s)
	if c == nil {
		return Query[T]{}
	}

	rows := make(Result[T], 0, c.Len())
	for id, value := range c.All() {
		rows = append(rows, Row[T]{Id: id, Value: value})
	}
	return Query[T]{Result: rows}
}

// ComponentTypes returns the component type the query selects.
func (Query[T]) ComponentTypes() []reflect.Type {
	return []reflect.Type{reflect.TypeFor[T]()}
}

func (Query[T]) queryType() reflect.Type {
	return reflect.TypeFor[Query[T]]()
}

func (Query[T]) resolve(s *Storage) reflect.Value {
	return reflect.ValueOf(ResolveQuery[T](s))
}
