package player

import (
	"errors"
	"math"
	"testing"

	"ghost-server/internal/domain"

	"github.com/go-gl/mathgl/mgl32"
)

type fakeGhost struct {
	pos       mgl32.Vec3
	rot       mgl32.Quat
	kinematic bool
	destroyed bool
	poses     int
}

func (g *fakeGhost) SetPose(pos mgl32.Vec3, rot mgl32.Quat) {
	g.pos, g.rot = pos, rot
	g.poses++
}
func (g *fakeGhost) DisableSimulation() { g.kinematic = true }
func (g *fakeGhost) Destroy()           { g.destroyed = true }

type fakeSpawner struct {
	spawned []*fakeGhost
	err     error
}

func (s *fakeSpawner) Spawn(pos mgl32.Vec3, rot mgl32.Quat) (domain.Ghost, error) {
	if s.err != nil {
		return nil, s.err
	}
	g := &fakeGhost{pos: pos, rot: rot}
	s.spawned = append(s.spawned, g)
	return g, nil
}

func twoFrames() domain.Sequence {
	return domain.Sequence{
		domain.NewFrame(0, mgl32.Vec3{0, 0, 0}, mgl32.QuatIdent()),
		domain.NewFrame(1, mgl32.Vec3{10, 0, 0}, mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 1, 0})),
	}
}

func TestPlayer_StartEmpty(t *testing.T) {
	p := New()
	sp := &fakeSpawner{}

	if err := p.Start(domain.Sequence{}, sp, 0); !errors.Is(err, domain.ErrEmptySequence) {
		t.Fatalf("Start(empty) = %v, want ErrEmptySequence", err)
	}
	if len(sp.spawned) != 0 {
		t.Error("ghost must not be spawned for an empty sequence")
	}
	if p.State() != StateIdle {
		t.Errorf("state = %v, want idle", p.State())
	}
}

func TestPlayer_StartSpawnsAtFirstFrame(t *testing.T) {
	p := New()
	sp := &fakeSpawner{}
	seq := twoFrames()

	if err := p.Start(seq, sp, 100); err != nil {
		t.Fatal(err)
	}
	if len(sp.spawned) != 1 {
		t.Fatalf("spawned %d ghosts, want 1", len(sp.spawned))
	}
	g := sp.spawned[0]
	if g.pos != seq[0].Position || g.rot != seq[0].Rotation {
		t.Errorf("ghost spawned at %v/%v, want first frame pose", g.pos, g.rot)
	}
	if !g.kinematic {
		t.Error("ghost must be excluded from physics simulation")
	}
	if p.State() != StateAdvancing || p.Cursor() != 1 {
		t.Errorf("state=%v cursor=%d, want advancing/1", p.State(), p.Cursor())
	}
}

func TestPlayer_SpawnFailure(t *testing.T) {
	p := New()
	if err := p.Start(twoFrames(), &fakeSpawner{err: errors.New("no prefab")}, 0); err == nil {
		t.Fatal("expected spawn error")
	}
	if p.State() != StateIdle {
		t.Errorf("state = %v, want idle after failed spawn", p.State())
	}
}

func TestPlayer_InterpolatesMidpoint(t *testing.T) {
	p := New()
	sp := &fakeSpawner{}
	if err := p.Start(twoFrames(), sp, 2.0); err != nil {
		t.Fatal(err)
	}

	res := p.Tick(2.5)
	if res.Kind != TickPose {
		t.Fatalf("Tick kind = %v, want POSE", res.Kind)
	}
	if !res.Position.ApproxEqualThreshold(mgl32.Vec3{5, 0, 0}, 1e-4) {
		t.Errorf("position = %v, want (5,0,0)", res.Position)
	}

	want := mgl32.QuatRotate(math.Pi/4, mgl32.Vec3{0, 1, 0})
	if !res.Rotation.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("rotation = %v, want %v", res.Rotation, want)
	}

	g := sp.spawned[0]
	if g.poses != 1 || g.pos != res.Position {
		t.Errorf("ghost was not driven: %+v", g)
	}
}

func TestPlayer_ExhaustionFiresDoneOnce(t *testing.T) {
	p := New()
	sp := &fakeSpawner{}
	if err := p.Start(twoFrames(), sp, 0); err != nil {
		t.Fatal(err)
	}

	if res := p.Tick(1.5); res.Kind != TickDone {
		t.Fatalf("Tick(1.5) = %v, want DONE", res.Kind)
	}
	if res := p.Tick(2.0); res.Kind != TickNoOp {
		t.Errorf("second tick after exhaustion = %v, want NOOP", res.Kind)
	}

	p.Stop()
	if res := p.Tick(3.0); res.Kind != TickNoOp {
		t.Errorf("Tick after Stop = %v, want NOOP", res.Kind)
	}
	if !sp.spawned[0].destroyed {
		t.Error("Stop must destroy the ghost")
	}
}

func TestPlayer_SingleFrame(t *testing.T) {
	p := New()
	if err := p.Start(twoFrames()[:1], &fakeSpawner{}, 0); err != nil {
		t.Fatal(err)
	}
	if p.State() != StateFinished {
		t.Fatalf("state = %v, want finished", p.State())
	}
	if res := p.Tick(0); res.Kind != TickDone {
		t.Errorf("first tick = %v, want DONE", res.Kind)
	}
	if res := p.Tick(1); res.Kind != TickNoOp {
		t.Errorf("second tick = %v, want NOOP", res.Kind)
	}
}

func TestPlayer_CursorNeverRewinds(t *testing.T) {
	seq := domain.Sequence{
		domain.NewFrame(0, mgl32.Vec3{0, 0, 0}, mgl32.QuatIdent()),
		domain.NewFrame(1, mgl32.Vec3{1, 0, 0}, mgl32.QuatIdent()),
		domain.NewFrame(2, mgl32.Vec3{2, 0, 0}, mgl32.QuatIdent()),
		domain.NewFrame(3, mgl32.Vec3{3, 0, 0}, mgl32.QuatIdent()),
	}
	p := New()
	if err := p.Start(seq, nil, 0); err != nil {
		t.Fatal(err)
	}

	p.Tick(2.5)
	if p.Cursor() != 3 {
		t.Fatalf("cursor = %d, want 3", p.Cursor())
	}

	// Время "откатилось" назад - курсор остается, доля зажимается в 0
	res := p.Tick(0.5)
	if p.Cursor() != 3 {
		t.Errorf("cursor rewound to %d", p.Cursor())
	}
	if res.Kind != TickPose || res.Position != (mgl32.Vec3{2, 0, 0}) {
		t.Errorf("Tick(0.5) after 2.5 = %+v, want clamp at frame 2", res)
	}
}

func TestPlayer_RestartReleasesPreviousGhost(t *testing.T) {
	p := New()
	sp := &fakeSpawner{}
	_ = p.Start(twoFrames(), sp, 0)
	_ = p.Start(twoFrames(), sp, 0)

	if len(sp.spawned) != 2 {
		t.Fatalf("spawned %d ghosts, want 2", len(sp.spawned))
	}
	if !sp.spawned[0].destroyed || sp.spawned[1].destroyed {
		t.Error("restart must destroy only the previous ghost")
	}
}

func TestPlayer_StopIdempotent(t *testing.T) {
	p := New()
	p.Stop()
	p.Stop()
	if p.State() != StateIdle {
		t.Errorf("state = %v, want idle", p.State())
	}
}
