package ecs

import "reflect"

// Tuple2 is the payload of a two-way join, in declared type order.
type Tuple2[T1, T2 any] struct {
	V1 T1
	V2 T2
}

// Tuple3 is the payload of a three-way join, in declared type order.
type Tuple3[T1, T2, T3 any] struct {
	V1 T1
	V2 T2
	V3 T3
}

// Tuple4 is the payload of a four-way join, in declared type order.
type Tuple4[T1, T2, T3, T4 any] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
}

// joinIds returns the ids present in every column. The smallest column
// drives the scan and every other column is probed in order, stopping at
// the first miss. Ties keep the earliest column. Result order follows the
// driver column.
func joinIds(columns ...anyColumn) []EntityId {
	driver := 0
	for i := 1; i < len(columns); i++ {
		if columns[i].Len() < columns[driver].Len() {
			driver = i
		}
	}

	ids := make([]EntityId, 0, columns[driver].Len())

candidates:
	for id := range columns[driver].Ids() {
		for i, c := range columns {
			if i == driver {
				continue
			}
			if !c.Has(id) {
				continue candidates
			}
		}
		ids = append(ids, id)
	}
	return ids
}

// Query2 holds every entity with both a T1 and a T2 component.
type Query2[T1, T2 any] struct {
	Result[Tuple2[T1, T2]]
}

// ResolveQuery2 joins the T1 and T2 columns on entity id.
func ResolveQuery2[T1, T2 any](s *Storage) Query2[T1, T2] {
	c1, c2 := lookupColumn[T1](s), lookupColumn[T2](s)
	if c1 == nil || c2 == nil {
		return Query2[T1, T2]{}
	}

	ids := joinIds(c1, c2)
	rows := make(Result[Tuple2[T1, T2]], len(ids))
	for i, id := range ids {
		rows[i].Id = id
		rows[i].Value.V1, _ = c1.get(id)
		rows[i].Value.V2, _ = c2.get(id)
	}
	return Query2[T1, T2]{Result: rows}
}

// ComponentTypes returns the joined component types in declared order.
func (Query2[T1, T2]) ComponentTypes() []reflect.Type {
	return []reflect.Type{reflect.TypeFor[T1](), reflect.TypeFor[T2]()}
}

func (Query2[T1, T2]) queryType() reflect.Type {
	return reflect.TypeFor[Query2[T1, T2]]()
}

func (Query2[T1, T2]) resolve(s *Storage) reflect.Value {
	return reflect.ValueOf(ResolveQuery2[T1, T2](s))
}

// Query3 holds every entity with a T1, a T2 and a T3 component.
type Query3[T1, T2, T3 any] struct {
	Result[Tuple3[T1, T2, T3]]
}

// ResolveQuery3 joins the T1, T2 and T3 columns on entity id.
func ResolveQuery3[T1, T2, T3 any](s *Storage) Query3[T1, T2, T3] {
	c1, c2, c3 := lookupColumn[T1](s), lookupColumn[T2](s), lookupColumn[T3](s)
	if c1 == nil || c2 == nil || c3 == nil {
		return Query3[T1, T2, T3]{}
	}

	ids := joinIds(c1, c2, c3)
	rows := make(Result[Tuple3[T1, T2, T3]], len(ids))
	for i, id := range ids {
		rows[i].Id = id
		rows[i].Value.V1, _ = c1.get(id)
		rows[i].Value.V2, _ = c2.get(id)
		rows[i].Value.V3, _ = c3.get(id)
	}
	return Query3[T1, T2, T3]{Result: rows}
}

// ComponentTypes returns the joined component types in declared order.
func (Query3[T1, T2, T3]) ComponentTypes() []reflect.Type {
	return []reflect.Type{reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3]()}
}

func (Query3[T1, T2, T3]) queryType() reflect.Type {
	return reflect.TypeFor[Query3[T1, T2, T3]]()
}

func (Query3[T1, T2, T3]) resolve(s *Storage) reflect.Value {
	return reflect.ValueOf(ResolveQuery3[T1, T2, T3](s))
}

// Query4 holds every entity with a T1, a T2, a T3 and a T4 component.
type Query4[T1, T2, T3, T4 any] struct {
	Result[Tuple4[T1, T2, T3, T4]]
}

// ResolveQuery4 joins the T1, T2, T3 and T4 columns on entity id.
func ResolveQuery4[T1, T2, T3, T4 any](s *Storage) Query4[T1, T2, T3, T4] {
	c1, c2 := lookupColumn[T1](s), lookupColumn[T2](s)
	c3, c4 := lookupColumn[T3](s), lookupColumn[T4](s)
	if c1 == nil || c2 == nil || c3 == nil || c4 == nil {
		return Query4[T1, T2, T3, T4]{}
	}

	ids := joinIds(c1, c2, c3, c4)
	rows := make(Result[Tuple4[T1, T2, T3, T4]], len(ids))
	for i, id := range ids {
		rows[i].Id = id
		rows[i].Value.V1, _ = c1.get(id)
		rows[i].Value.V2, _ = c2.get(id)
		rows[i].Value.V3, _ = c3.get(id)
		rows[i].Value.V4, _ = c4.get(id)
	}
	return Query4[T1, T2, T3, T4]{Result: rows}
}

// ComponentTypes returns the joined component types in declared order.
func (Query4[T1, T2, T3, T4]) ComponentTypes() []reflect.Type {
	return []reflect.Type{reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4]()}
}

func (Query4[T1, T2, T3, T4]) queryType() reflect.Type {
	return reflect.TypeFor[Query4[T1, T2, T3, T4]]()
}

func (Query4[T1, T2, T3, T4]) resolve(s *Storage) reflect.Value {
	return reflect.ValueOf(ResolveQuery4[T1, T2, T3, T4](s))
}
