package player

import (
	"fmt"

	"ghost-server/internal/domain"

	"github.com/go-gl/mathgl/mgl32"
)

// State - состояние проигрывателя
type State int

const (
	StateIdle State = iota
	StateAdvancing
	StateFinished
)

// TickKind - что произошло за тик
type TickKind int

const (
	TickNoOp TickKind = iota
	TickPose
	TickDone
)

func (k TickKind) String() string {
	switch k {
	case TickPose:
		return "POSE"
	case TickDone:
		return "DONE"
	default:
		return "NOOP"
	}
}

// TickResult - результат одного кадрового тика.
// Position/Rotation заполнены только для TickPose.
type TickResult struct {
	Kind     TickKind
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// Player ведет призрака по загруженной ленте кадров.
// Не потокобезопасен: вызывается только из игрового цикла.
type Player struct {
	seq       domain.Sequence
	ghost     domain.Ghost
	startTime float64
	cursor    int // индекс следующего кадра; только растет
	state     State
	// Done отдается ровно один раз
	doneReported bool
}

func New() *Player {
	return &Player{}
}

// Start спавнит призрака в позе первого кадра и начинает проигрывание.
// spawner может быть nil (проигрывание без актора).
func (p *Player) Start(seq domain.Sequence, spawner domain.Spawner, now float64) error {
	if len(seq) == 0 {
		return domain.ErrEmptySequence
	}

	// Старый призрак не должен пережить перезапуск
	p.Stop()

	if spawner != nil {
		first := seq[0]
		ghost, err := spawner.Spawn(first.Position, first.Rotation)
		if err != nil {
			return fmt.Errorf("failed to spawn ghost: %w", err)
		}
		if ghost != nil {
			ghost.DisableSimulation()
		}
		p.ghost = ghost
	}

	p.seq = seq
	p.startTime = now
	p.cursor = 1
	p.doneReported = false
	if len(seq) == 1 {
		p.state = StateFinished
	} else {
		p.state = StateAdvancing
	}
	return nil
}

// Tick продвигает курсор по прошедшему времени и ставит призрака в интерполированную позу.
func (p *Player) Tick(now float64) TickResult {
	switch p.state {
	case StateIdle:
		return TickResult{Kind: TickNoOp}
	case StateFinished:
		if p.doneReported {
			return TickResult{Kind: TickNoOp}
		}
		p.doneReported = true
		return TickResult{Kind: TickDone}
	}

	elapsed := now - p.startTime

	for p.cursor < len(p.seq) && float64(p.seq[p.cursor].Timestamp) <= elapsed {
		p.cursor++
	}

	if p.cursor >= len(p.seq) {
		// Лента кончилась: без экстраполяции и без зацикливания
		p.state = StateFinished
		p.doneReported = true
		return TickResult{Kind: TickDone}
	}

	pos, rot := Interpolate(p.seq[p.cursor-1], p.seq[p.cursor], elapsed)
	if p.ghost != nil {
		p.ghost.SetPose(pos, rot)
	}
	return TickResult{Kind: TickPose, Position: pos, Rotation: rot}
}

// Stop останавливает проигрывание из любого состояния и уничтожает призрака.
func (p *Player) Stop() {
	if p.ghost != nil {
		p.ghost.Destroy()
		p.ghost = nil
	}
	p.seq = nil
	p.cursor = 0
	p.state = StateIdle
	p.doneReported = false
}

func (p *Player) State() State {
	return p.state
}

// Cursor - индекс следующего кадра (для отладки)
func (p *Player) Cursor() int {
	return p.cursor
}

// Duration - длительность загруженной ленты
func (p *Player) Duration() float32 {
	return p.seq.Duration()
}

func (p *Player) FrameCount() int {
	return len(p.seq)
}
