package ecs

// EntityId identifies an entity. Ids are handed out in increasing order
// starting at 0 and are never reused.
type EntityId uint64

// entityAllocator hands out entity ids.
type entityAllocator struct {
	next EntityId
}

func (a *entityAllocator) allocate() EntityId {
	id := a.next
	a.next++
	return id
}

// Count returns how many ids have been allocated so far.
func (a *entityAllocator) Count() int {
	return int(a.next)
}
