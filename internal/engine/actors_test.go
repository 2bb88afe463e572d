package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGhostSpawner_SingleSlot(t *testing.T) {
	s := &GhostSpawner{}

	first, _ := s.Spawn(mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent())
	second, _ := s.Spawn(mgl32.Vec3{}, mgl32.QuatIdent())

	g1 := first.(*GhostActor)
	g2 := second.(*GhostActor)

	if !g1.Destroyed {
		t.Error("spawning a new ghost must destroy the old one")
	}
	if s.Active != g2 || s.Spawned != 2 {
		t.Errorf("active=%v spawned=%d", s.Active, s.Spawned)
	}
	if g1.ID == g2.ID || g2.ID == "" {
		t.Errorf("ghost IDs must be unique: %q %q", g1.ID, g2.ID)
	}

	g2.DisableSimulation()
	g2.Destroy()
	if !g2.Kinematic || s.Active != nil {
		t.Error("destroy must free the slot")
	}
}

func TestWallClock_Monotonic(t *testing.T) {
	c := NewWallClock()
	a := c.Now()
	b := c.Now()
	if a < 0 || b < a {
		t.Errorf("clock went backwards: %v then %v", a, b)
	}
}
