package session

import (
	"fmt"

	"ghost-server/internal/domain"
	"ghost-server/internal/player"
	"ghost-server/internal/recorder"
	"ghost-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Store - хранилище единственной записи призрака.
type Store interface {
	Exists() bool
	Save(seq domain.Sequence) error
	Load() (domain.Sequence, error)
}

// Deps - внешние зависимости контроллера.
type Deps struct {
	Store   Store
	Clock   domain.Clock
	Tracked domain.Transform // Кого записываем
	Spawner domain.Spawner   // Кто создает призрака
}

// Controller разводит запись и реплей: в каждый момент активен максимум один режим.
// Принадлежит игровому циклу, блокировок нет.
type Controller struct {
	state    domain.SessionState
	recorder *recorder.Recorder
	player   *player.Player
	deps     Deps
}

func New(deps Deps) *Controller {
	return &Controller{
		state:    domain.StateIdle,
		recorder: recorder.New(),
		player:   player.New(),
		deps:     deps,
	}
}

func (c *Controller) log() *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"component": "ghost_session",
		"state":     c.state.String(),
	})
}

// BeginRecording начинает запись. Идущий реплей останавливается,
// идущая запись перезапускается с пустым буфером.
func (c *Controller) BeginRecording() {
	if c.state == domain.StateReplaying {
		c.stopReplay()
	}

	c.recorder.Start(c.deps.Tracked, c.deps.Clock.Now())
	c.state = domain.StateRecording
	c.log().Info("Recording started")
}

// EndRecording завершает запись и сохраняет ее в файл.
// Ошибка сохранения не откатывает остановку записи.
func (c *Controller) EndRecording() error {
	if c.state != domain.StateRecording {
		return nil
	}

	seq, _ := c.recorder.StopAndFinalize()
	c.state = domain.StateIdle

	if err := c.deps.Store.Save(seq); err != nil {
		c.log().WithError(err).WithField("frames", len(seq)).Error("Failed to save ghost recording")
		return err
	}

	c.log().WithFields(logrus.Fields{
		"frames":   len(seq),
		"duration": seq.Duration(),
	}).Info("Recording stopped and saved")
	return nil
}

// BeginReplay загружает сохраненную запись и запускает призрака.
// Идущая запись выбрасывается без сохранения. При любой ошибке сессия остается Idle.
func (c *Controller) BeginReplay() error {
	switch c.state {
	case domain.StateRecording:
		dropped := c.recorder.Len()
		c.recorder.Discard()
		c.state = domain.StateIdle
		c.log().WithField("frames", dropped).Warn("Recording discarded by replay request")
	case domain.StateReplaying:
		c.stopReplay()
	}

	if !c.deps.Store.Exists() {
		c.log().Error("No saved ghost file")
		return domain.ErrNoSavedData
	}

	seq, err := c.deps.Store.Load()
	if err != nil {
		c.log().WithError(err).Error("Failed to load ghost file")
		return err
	}

	if err := c.player.Start(seq, c.deps.Spawner, c.deps.Clock.Now()); err != nil {
		c.log().WithError(err).Warn("Replay not started")
		return fmt.Errorf("start replay: %w", err)
	}

	c.state = domain.StateReplaying
	c.log().WithFields(logrus.Fields{
		"frames":   len(seq),
		"duration": seq.Duration(),
	}).Info("Replay started")
	return nil
}

// EndReplay останавливает реплей. Вне реплея ничего не делает.
func (c *Controller) EndReplay() {
	if c.state != domain.StateReplaying {
		return
	}
	c.stopReplay()
}

func (c *Controller) stopReplay() {
	c.player.Stop()
	c.state = domain.StateIdle
	c.log().Info("Replay stopped")
}

// OnFixedTick - фиксированный шаг симуляции (запись).
func (c *Controller) OnFixedTick() {
	if c.state != domain.StateRecording {
		return
	}
	c.recorder.Tick(c.deps.Clock.Now())
}

// OnFrameTick - кадровый тик (проигрывание). По окончании ленты сессия уходит в Idle.
func (c *Controller) OnFrameTick() player.TickResult {
	if c.state != domain.StateReplaying {
		return player.TickResult{Kind: player.TickNoOp}
	}

	res := c.player.Tick(c.deps.Clock.Now())
	if res.Kind == player.TickDone {
		c.log().Info("Replay finished")
		c.stopReplay()
	}
	return res
}

func (c *Controller) State() domain.SessionState {
	return c.state
}

// Status - срез для отладки и клиентов
type Status struct {
	State          domain.SessionState
	RecordedFrames int
	ReplayCursor   int
	ReplayFrames   int
	ReplayDuration float32
	HasSavedData   bool
}

func (c *Controller) Status() Status {
	return Status{
		State:          c.state,
		RecordedFrames: c.recorder.Len(),
		ReplayCursor:   c.player.Cursor(),
		ReplayFrames:   c.player.FrameCount(),
		ReplayDuration: c.player.Duration(),
		HasSavedData:   c.deps.Store.Exists(),
	}
}
