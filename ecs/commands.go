package ecs

// Commands is the mutation capability handed to systems. It can only add
// entities. Changes are applied immediately, so a query resolved after the
// call (for example, for the next system in the same tick) sees them.
type Commands struct {
	storage *Storage
}

func newCommands(storage *Storage) *Commands {
	return &Commands{storage: storage}
}

// AddEntity creates a new entity with the given components and returns its id.
func (c *Commands) AddEntity(components ...Component) EntityId {
	return c.storage.AddEntity(components...)
}
