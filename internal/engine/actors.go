package engine

import (
	"time"

	"ghost-server/internal/domain"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Pawn - записываемый игрок. Позу ему задает клиент командой POSE.
type Pawn struct {
	pos mgl32.Vec3
	rot mgl32.Quat
}

func NewPawn() *Pawn {
	return &Pawn{rot: mgl32.QuatIdent()}
}

func (p *Pawn) Position() mgl32.Vec3 { return p.pos }
func (p *Pawn) Rotation() mgl32.Quat { return p.rot }

func (p *Pawn) SetPose(pos mgl32.Vec3, rot mgl32.Quat) {
	p.pos, p.rot = pos, rot
}

// GhostActor - призрак, которого двигает Player.
type GhostActor struct {
	ID        string
	Position  mgl32.Vec3
	Rotation  mgl32.Quat
	Kinematic bool // физика выключена
	Destroyed bool

	owner *GhostSpawner
}

func (g *GhostActor) SetPose(pos mgl32.Vec3, rot mgl32.Quat) {
	g.Position, g.Rotation = pos, rot
}

func (g *GhostActor) DisableSimulation() {
	g.Kinematic = true
}

func (g *GhostActor) Destroy() {
	g.Destroyed = true
	if g.owner != nil && g.owner.Active == g {
		g.owner.Active = nil
	}
}

// GhostSpawner держит единственный слот под призрака.
type GhostSpawner struct {
	Active  *GhostActor
	Spawned int // сколько призраков создано за жизнь хоста
}

func (s *GhostSpawner) Spawn(pos mgl32.Vec3, rot mgl32.Quat) (domain.Ghost, error) {
	if s.Active != nil {
		s.Active.Destroy()
	}
	g := &GhostActor{
		ID:       uuid.NewString(),
		Position: pos,
		Rotation: rot,
		owner:    s,
	}
	s.Active = g
	s.Spawned++
	return g, nil
}

// WallClock - монотонные секунды с момента создания.
type WallClock struct {
	start time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (c *WallClock) Now() float64 {
	return time.Since(c.start).Seconds()
}
