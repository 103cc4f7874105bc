package ecs_test

import (
	"fmt"

	"github.com/plus3/engineless/ecs"
)

// ExampleStorage demonstrates the basic API for adding entities and reading
// their components. Each component type gets its own column the first time
// it is added.
func ExampleStorage() {
	storage := ecs.NewStorage()

	player := storage.AddEntity(
		ecs.With(Position{X: 10, Y: 20}),
		ecs.With(Velocity{DX: 1, DY: 0}),
		ecs.With(Health{Current: 100, Max: 100}),
	)
	rock := storage.AddEntity(ecs.With(Position{X: 3, Y: 3}))

	pos, _ := ecs.Get[Position](storage, player)
	fmt.Printf("Player %d at (%.0f, %.0f)\n", player, pos.X, pos.Y)

	_, moving := ecs.Get[Velocity](storage, rock)
	fmt.Printf("Rock %d moving: %v\n", rock, moving)

	for _, c := range storage.CollectStats().Columns {
		fmt.Printf("%s: %d\n", c.TypeName, c.Rows)
	}

	// Output:
	// Player 0 at (10, 20)
	// Rock 1 moving: false
	// ecs_test.Health: 1
	// ecs_test.Position: 2
	// ecs_test.Velocity: 1
}
