package ecs

import (
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// ComponentId is a stable tag for a component type, used in stats and
// reports. It is derived from the type's package path and name, so it does
// not change between runs. It is not a storage key: function-local types
// that share a name also share a ComponentId.
type ComponentId uint64

// ComponentIdFor returns the ComponentId of T.
func ComponentIdFor[T any]() ComponentId {
	return componentIdOf(reflect.TypeFor[T]())
}

func componentIdOf(t reflect.Type) ComponentId {
	return ComponentId(xxhash.Sum64String(typeKey(t)))
}

// typeKey returns a string that names t uniquely within a program.
// reflect.Type.String only carries the package name, so named types are
// qualified by their full import path.
func typeKey(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// Component is a typed component value ready to be attached to an entity.
// Build one with With.
type Component interface {
	Type() reflect.Type
	insert(s *Storage, id EntityId)
}

// With wraps a component value of type T. The static type is kept so the
// value lands in its own column without a registry lookup.
//
//	engine.AddEntity(ecs.With(Position{X: 1}), ecs.With(Velocity{DX: 2}))
func With[T any](value T) Component {
	return componentValue[T]{value: value}
}

type componentValue[T any] struct {
	value T
}

func (c componentValue[T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

func (c componentValue[T]) insert(s *Storage, id EntityId) {
	columnFor[T](s).put(id, c.value)
}
