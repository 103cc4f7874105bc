package ecs

import "strconv"

// Phase selects when a system runs.
type Phase uint8

const (
	// Startup systems run once, before any Update system.
	Startup Phase = iota
	// Update systems run once per tick.
	Update
)

func (p Phase) String() string {
	switch p {
	case Startup:
		return "startup"
	case Update:
		return "update"
	default:
		return "phase(" + strconv.Itoa(int(p)) + ")"
	}
}
