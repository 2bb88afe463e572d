package session

import (
	"errors"
	"os"
	"testing"

	"ghost-server/internal/domain"
	"ghost-server/internal/infrastructure/storage"
	"ghost-server/internal/player"
	"ghost-server/pkg/logger"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type manualClock struct{ now float64 }

func (c *manualClock) Now() float64 { return c.now }

type pawn struct {
	pos mgl32.Vec3
	rot mgl32.Quat
}

func (p *pawn) Position() mgl32.Vec3 { return p.pos }
func (p *pawn) Rotation() mgl32.Quat { return p.rot }

type ghost struct {
	destroyed bool
	pos       mgl32.Vec3
}

func (g *ghost) SetPose(pos mgl32.Vec3, _ mgl32.Quat) { g.pos = pos }
func (g *ghost) DisableSimulation()                   {}
func (g *ghost) Destroy()                             { g.destroyed = true }

type spawner struct{ ghosts []*ghost }

func (s *spawner) Spawn(pos mgl32.Vec3, _ mgl32.Quat) (domain.Ghost, error) {
	g := &ghost{pos: pos}
	s.ghosts = append(s.ghosts, g)
	return g, nil
}

type failingStore struct{}

func (failingStore) Exists() bool { return false }
func (failingStore) Save(domain.Sequence) error {
	return domain.ErrIO
}
func (failingStore) Load() (domain.Sequence, error) { return nil, domain.ErrNoSavedData }

type fixture struct {
	ctrl    *Controller
	clock   *manualClock
	pawn    *pawn
	spawner *spawner
	store   *storage.GhostStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock:   &manualClock{},
		pawn:    &pawn{rot: mgl32.QuatIdent()},
		spawner: &spawner{},
		store:   storage.NewGhostStore(t.TempDir()),
	}
	f.ctrl = New(Deps{Store: f.store, Clock: f.clock, Tracked: f.pawn, Spawner: f.spawner})
	return f
}

// record делает n фиксированных шагов по 0.1с, двигая пешку по X на 1 за шаг.
// Вместе с кадром старта в буфере n+1 кадр.
func (f *fixture) record(n int) {
	for i := 1; i <= n; i++ {
		f.clock.now += 0.1
		f.pawn.pos = mgl32.Vec3{float32(i), 0, 0}
		f.ctrl.OnFixedTick()
	}
}

func TestController_RecordAndSave(t *testing.T) {
	f := newFixture(t)

	f.ctrl.BeginRecording()
	if f.ctrl.State() != domain.StateRecording {
		t.Fatalf("state = %v, want RECORDING", f.ctrl.State())
	}
	f.record(4)

	if err := f.ctrl.EndRecording(); err != nil {
		t.Fatalf("EndRecording: %v", err)
	}
	if f.ctrl.State() != domain.StateIdle {
		t.Errorf("state = %v, want IDLE", f.ctrl.State())
	}

	seq, err := f.store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(seq) != 5 || seq[0].Timestamp != 0 {
		t.Errorf("saved %d frames (first t=%v), want 5 starting at 0", len(seq), seq[0].Timestamp)
	}
}

func TestController_EndRecordingWhenIdle(t *testing.T) {
	f := newFixture(t)

	if err := f.ctrl.EndRecording(); err != nil {
		t.Fatalf("EndRecording while idle: %v", err)
	}
	if f.store.Exists() {
		t.Error("nothing must be persisted when not recording")
	}
}

func TestController_SaveFailureStillStops(t *testing.T) {
	ctrl := New(Deps{Store: failingStore{}, Clock: &manualClock{}, Tracked: &pawn{}, Spawner: &spawner{}})
	ctrl.BeginRecording()
	ctrl.OnFixedTick()

	if err := ctrl.EndRecording(); !errors.Is(err, domain.ErrIO) {
		t.Fatalf("EndRecording = %v, want ErrIO", err)
	}
	if ctrl.State() != domain.StateIdle {
		t.Errorf("state = %v, want IDLE despite failed save", ctrl.State())
	}
}

func TestController_ReplayWithoutSave(t *testing.T) {
	f := newFixture(t)

	if err := f.ctrl.BeginReplay(); !errors.Is(err, domain.ErrNoSavedData) {
		t.Fatalf("BeginReplay = %v, want ErrNoSavedData", err)
	}
	if f.ctrl.State() != domain.StateIdle {
		t.Errorf("state = %v, want IDLE", f.ctrl.State())
	}
	if len(f.spawner.ghosts) != 0 {
		t.Error("ghost spawned without saved data")
	}
}

func TestController_ReplayDiscardsRecording(t *testing.T) {
	f := newFixture(t)

	// Первая запись сохранена: 3 кадра
	f.ctrl.BeginRecording()
	f.record(2)
	if err := f.ctrl.EndRecording(); err != nil {
		t.Fatal(err)
	}

	// Вторая запись прерывается реплеем
	f.ctrl.BeginRecording()
	f.record(7)

	if err := f.ctrl.BeginReplay(); err != nil {
		t.Fatalf("BeginReplay: %v", err)
	}
	if f.ctrl.State() != domain.StateReplaying {
		t.Fatalf("state = %v, want REPLAYING", f.ctrl.State())
	}
	if got := f.ctrl.Status().ReplayFrames; got != 3 {
		t.Errorf("replaying %d frames, want the saved 3", got)
	}

	seq, err := f.store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(seq) != 3 {
		t.Errorf("file has %d frames, interrupted recording must not be persisted", len(seq))
	}
}

func TestController_RearmKeepsOnlyLatest(t *testing.T) {
	f := newFixture(t)

	f.ctrl.BeginRecording()
	f.record(4)
	f.ctrl.BeginRecording()
	f.record(1)

	if err := f.ctrl.EndRecording(); err != nil {
		t.Fatal(err)
	}
	seq, err := f.store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(seq) != 2 {
		t.Fatalf("saved %d frames, want 2", len(seq))
	}
	if seq[0].Timestamp != 0 {
		t.Errorf("first frame after re-arm at t=%v, want 0", seq[0].Timestamp)
	}
	if seq[0].Position != (mgl32.Vec3{4, 0, 0}) {
		t.Errorf("first frame after re-arm at %v, want pose at the second BeginRecording", seq[0].Position)
	}
}

func TestController_ReplayRunsToCompletion(t *testing.T) {
	f := newFixture(t)

	f.ctrl.BeginRecording()
	f.record(2) // кадры в 0, 0.1, 0.2
	if err := f.ctrl.EndRecording(); err != nil {
		t.Fatal(err)
	}

	if err := f.ctrl.BeginReplay(); err != nil {
		t.Fatal(err)
	}
	start := f.clock.now

	f.clock.now = start + 0.05
	res := f.ctrl.OnFrameTick()
	if res.Kind != player.TickPose {
		t.Fatalf("tick = %v, want POSE", res.Kind)
	}
	if !res.Position.ApproxEqualThreshold(mgl32.Vec3{0.5, 0, 0}, 1e-3) {
		t.Errorf("ghost at %v, want (0.5,0,0)", res.Position)
	}

	f.clock.now = start + 1
	if res := f.ctrl.OnFrameTick(); res.Kind != player.TickDone {
		t.Fatalf("tick = %v, want DONE", res.Kind)
	}
	if f.ctrl.State() != domain.StateIdle {
		t.Errorf("state = %v, want IDLE after replay end", f.ctrl.State())
	}
	if !f.spawner.ghosts[0].destroyed {
		t.Error("ghost must be released when replay ends")
	}
	if res := f.ctrl.OnFrameTick(); res.Kind != player.TickNoOp {
		t.Errorf("tick after end = %v, want NOOP", res.Kind)
	}
}

func TestController_RecordingPreemptsReplay(t *testing.T) {
	f := newFixture(t)

	f.ctrl.BeginRecording()
	f.record(2)
	_ = f.ctrl.EndRecording()
	if err := f.ctrl.BeginReplay(); err != nil {
		t.Fatal(err)
	}

	f.ctrl.BeginRecording()
	if f.ctrl.State() != domain.StateRecording {
		t.Fatalf("state = %v, want RECORDING", f.ctrl.State())
	}
	if !f.spawner.ghosts[0].destroyed {
		t.Error("replay ghost must be destroyed when recording starts")
	}
}

func TestController_ReplayRestart(t *testing.T) {
	f := newFixture(t)

	f.ctrl.BeginRecording()
	f.record(2)
	_ = f.ctrl.EndRecording()

	_ = f.ctrl.BeginReplay()
	if err := f.ctrl.BeginReplay(); err != nil {
		t.Fatal(err)
	}
	if len(f.spawner.ghosts) != 2 || !f.spawner.ghosts[0].destroyed {
		t.Error("second BeginReplay must replace the first ghost")
	}
}

func TestController_BadFiles(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"foreign magic", []byte{4, 'C', 'D', 'R', 'P', 0, 0, 0, 0}, domain.ErrEmptySequence},
		{"zero frames", []byte{5, 'G', 'H', 'O', 'S', 'T', 0, 0, 0, 0}, domain.ErrEmptySequence},
		{"truncated frames", []byte{5, 'G', 'H', 'O', 'S', 'T', 2, 0, 0, 0, 1, 2, 3}, domain.ErrFormat},
		{"empty file", []byte{}, domain.ErrIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if err := os.WriteFile(f.store.Path, tt.data, 0644); err != nil {
				t.Fatal(err)
			}

			err := f.ctrl.BeginReplay()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("BeginReplay = %v, want %v", err, tt.wantErr)
			}
			if f.ctrl.State() != domain.StateIdle {
				t.Errorf("state = %v, want IDLE", f.ctrl.State())
			}
		})
	}
}

func TestController_EndReplayWhenIdle(t *testing.T) {
	f := newFixture(t)
	f.ctrl.EndReplay()
	if f.ctrl.State() != domain.StateIdle {
		t.Errorf("state = %v, want IDLE", f.ctrl.State())
	}
}
