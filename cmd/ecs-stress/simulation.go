package main

import (
	"math/rand"

	"github.com/plus3/engineless/ecs"
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Health struct {
	Current, Max int
}

type Age struct {
	Born int64
}

type Label string

// simulation holds the systems of a stress run. The counters are written
// only from the engine goroutine and read after it has stopped.
type simulation struct {
	rng          *rand.Rand
	spawnPerTick int
	tick         int64

	moved   int64
	wounded int64
	aged    int64
	spawned int64
}

func newSimulation(seed int64, spawnPerTick int) *simulation {
	return &simulation{
		rng:          rand.New(rand.NewSource(seed)),
		spawnPerTick: spawnPerTick,
	}
}

// register wires every system of the simulation into the engine.
func (s *simulation) register(engine *ecs.Engine) *ecs.Engine {
	return engine.
		AddSystem(ecs.Startup, s.seedLandmarks).
		AddSystem(ecs.Update, s.advance).
		AddSystem(ecs.Update, s.spawn).
		AddSystem(ecs.Update, s.move).
		AddSystem(ecs.Update, s.countWounded).
		AddSystem(ecs.Update, s.age)
}

// randomComponents picks between one and four of the simulation's component
// types, mirroring the mix of archetypes a real world would carry.
func (s *simulation) randomComponents() []ecs.Component {
	all := []ecs.Component{
		ecs.With(Position{X: s.rng.Float64() * 100, Y: s.rng.Float64() * 100}),
		ecs.With(Velocity{DX: s.rng.Float64() - 0.5, DY: s.rng.Float64() - 0.5}),
		ecs.With(Health{Current: s.rng.Intn(100), Max: 100}),
		ecs.With(Age{Born: s.tick}),
	}
	s.rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:s.rng.Intn(len(all))+1]
}

func (s *simulation) populate(engine *ecs.Engine, n int) {
	for i := 0; i < n; i++ {
		engine.AddEntity(s.randomComponents()...)
	}
}

func (s *simulation) seedLandmarks(cmd *ecs.Commands) {
	for _, name := range []Label{"north", "south", "east", "west"} {
		cmd.AddEntity(ecs.With(name), ecs.With(Position{}))
	}
}

func (s *simulation) advance() {
	s.tick++
}

func (s *simulation) spawn(cmd *ecs.Commands) {
	for i := 0; i < s.spawnPerTick; i++ {
		cmd.AddEntity(s.randomComponents()...)
		s.spawned++
	}
}

func (s *simulation) move(movers ecs.Query2[Position, Velocity]) {
	for pv := range movers.Values() {
		if pv.V2.DX != 0 || pv.V2.DY != 0 {
			s.moved++
		}
	}
}

func (s *simulation) countWounded(healths ecs.Query[Health]) {
	for h := range healths.Values() {
		if h.Current < h.Max {
			s.wounded++
		}
	}
}

func (s *simulation) age(agents ecs.Query3[Age, Position, Health]) {
	for a := range agents.Values() {
		if s.tick-a.V1.Born > 100 {
			s.aged++
		}
	}
}
