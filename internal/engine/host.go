package engine

import (
	"context"
	"sync"
	"time"

	"ghost-server/internal/domain"
	"ghost-server/internal/engine/handlers"
	"ghost-server/internal/engine/handlers/actions"
	"ghost-server/internal/infrastructure/storage"
	"ghost-server/internal/network"
	"ghost-server/internal/player"
	"ghost-server/internal/session"
	"ghost-server/pkg/api"
	"ghost-server/pkg/logger"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// Действия клиента
const (
	ActionBeginRecording = "BEGIN_RECORDING"
	ActionEndRecording   = "END_RECORDING"
	ActionBeginReplay    = "BEGIN_REPLAY"
	ActionEndReplay      = "END_REPLAY"
	ActionPose           = "POSE"
	ActionStatus         = "STATUS"
)

// Host - игровой цикл вокруг сессии призрака.
// Вся работа с Session идет только из горутины Run; внешний мир пишет в CommandChan.
type Host struct {
	Config  Config
	Session *session.Controller
	Store   *storage.GhostStore
	Pawn    *Pawn
	Spawner *GhostSpawner
	Clock   domain.Clock

	CommandChan chan api.ClientCommand
	Hub         *network.Broadcaster

	handlers map[string]handlers.HandlerFunc

	frameTick uint64
	logs      []api.LogEntry // Накопленные с прошлой рассылки

	mu       sync.RWMutex
	snapshot api.ServerResponse // Последний снимок, для HTTP
	saved    storage.FileSummary
	savedErr error // Результат последнего Inspect файла
}

// NewHost собирает хост. clock == nil означает реальные часы.
func NewHost(cfg Config, clock domain.Clock) *Host {
	if clock == nil {
		clock = NewWallClock()
	}

	h := &Host{
		Config:      cfg,
		Store:       storage.NewGhostStore(cfg.SaveDir),
		Pawn:        NewPawn(),
		Spawner:     &GhostSpawner{},
		Clock:       clock,
		CommandChan: make(chan api.ClientCommand, 100),
		Hub:         network.NewBroadcaster(),
		handlers:    make(map[string]handlers.HandlerFunc),
	}
	h.Session = session.New(session.Deps{
		Store:   h.Store,
		Clock:   h.Clock,
		Tracked: h.Pawn,
		Spawner: h.Spawner,
	})

	h.registerHandlers()
	h.snapshot = h.buildResponse("UPDATE")
	h.refreshSaved()
	return h
}

func (h *Host) registerHandlers() {
	h.handlers[ActionBeginRecording] = handlers.WithEmptyPayload(actions.HandleBeginRecording)
	h.handlers[ActionEndRecording] = handlers.WithEmptyPayload(actions.HandleEndRecording)
	h.handlers[ActionBeginReplay] = handlers.WithEmptyPayload(actions.HandleBeginReplay)
	h.handlers[ActionEndReplay] = handlers.WithEmptyPayload(actions.HandleEndReplay)
	h.handlers[ActionPose] = handlers.WithPayload(actions.HandlePose)
	h.handlers[ActionStatus] = handlers.WithEmptyPayload(actions.HandleStatus)
}

// ProcessCommand принимает команду от внешнего мира (WebSocket).
// Неизвестные действия отбрасываются сразу, до цикла.
func (h *Host) ProcessCommand(cmd api.ClientCommand) bool {
	if _, ok := h.handlers[cmd.Action]; !ok {
		logger.Log.WithField("action", cmd.Action).Warn("Unknown action")
		return false
	}

	select {
	case h.CommandChan <- cmd:
		return true
	default:
		logger.Log.WithField("action", cmd.Action).Warn("Command queue full, dropping")
		return false
	}
}

// Run - главный цикл. Два таймера: фиксированный шаг (запись) и кадровый (реплей).
func (h *Host) Run(ctx context.Context) {
	log := logger.Log.WithFields(logrus.Fields{
		"component":  "host",
		"fixed_step": h.Config.FixedStep,
		"frame_rate": h.Config.FrameRate,
	})
	log.Info("Host loop started")

	fixed := time.NewTicker(h.Config.FixedInterval())
	frame := time.NewTicker(h.Config.FrameInterval())
	defer fixed.Stop()
	defer frame.Stop()

	for {
		select {
		case <-ctx.Done():
			h.Shutdown()
			log.Info("Host loop stopped")
			return

		case cmd := <-h.CommandChan:
			h.executeCommand(cmd)
			h.publishUpdate("UPDATE")

		case <-fixed.C:
			h.Session.OnFixedTick()

		case <-frame.C:
			h.frameTick++
			h.onFrame()
		}
	}
}

func (h *Host) onFrame() {
	res := h.Session.OnFrameTick()
	switch res.Kind {
	case player.TickPose:
		h.publishUpdate("POSE")
	case player.TickDone:
		h.AddLog("Реплей завершен.", "INFO")
		h.publishUpdate("UPDATE")
	}
}

// executeCommand выполняет хендлер в контексте цикла
func (h *Host) executeCommand(cmd api.ClientCommand) {
	handler, ok := h.handlers[cmd.Action]
	if !ok {
		return
	}

	ctx := handlers.Context{
		Session: h.Session,
		Pawn:    h.Pawn,
	}

	result, err := handler(ctx, cmd.Payload)

	// Файл пишет только END_RECORDING, сводку обновляем здесь же, в цикле
	if cmd.Action == ActionEndRecording {
		h.refreshSaved()
	}

	if result.Msg != "" {
		h.AddLog(result.Msg, result.MsgType)
	}
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "host",
			"action":    cmd.Action,
		}).WithError(err).Warn("Command failed")
		if result.Msg == "" {
			h.AddLog(err.Error(), "ERROR")
		}
	}
}

// Shutdown сохраняет незаконченную запись и убирает призрака.
func (h *Host) Shutdown() {
	switch h.Session.State() {
	case domain.StateRecording:
		if err := h.Session.EndRecording(); err != nil {
			logger.Log.WithError(err).Error("Recording lost on shutdown")
		}
		h.refreshSaved()
	case domain.StateReplaying:
		h.Session.EndReplay()
	}
}

// publishUpdate рассылает снимок всем подписчикам
func (h *Host) publishUpdate(kind string) {
	resp := h.buildResponse(kind)
	h.logs = nil

	h.mu.Lock()
	h.snapshot = resp
	h.mu.Unlock()

	h.Hub.Broadcast(resp)
}

// Snapshot - последний разосланный снимок. Безопасен из любой горутины.
func (h *Host) Snapshot() api.ServerResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshot
}

// refreshSaved перечитывает сводку файла. Только из цикла, чтобы не читать
// файл посреди записи.
func (h *Host) refreshSaved() {
	sum, err := storage.Inspect(h.Store.Path)

	h.mu.Lock()
	h.saved, h.savedErr = sum, err
	h.mu.Unlock()
}

// SavedSummary - сводка по сохраненному файлу на момент последнего сохранения.
// Безопасен из любой горутины.
func (h *Host) SavedSummary() (storage.FileSummary, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.saved, h.savedErr
}

func (h *Host) buildResponse(kind string) api.ServerResponse {
	st := h.Session.Status()

	resp := api.ServerResponse{
		Type:           kind,
		State:          st.State.String(),
		Tick:           h.frameTick,
		RecordedFrames: st.RecordedFrames,
		HasSavedData:   st.HasSavedData,
		Pawn:           poseView(h.Pawn.Position(), h.Pawn.Rotation()),
		Logs:           h.logs,
	}

	if st.State == domain.StateReplaying {
		resp.Replay = &api.ReplayView{
			Cursor:   st.ReplayCursor,
			Frames:   st.ReplayFrames,
			Duration: st.ReplayDuration,
		}
	}

	if g := h.Spawner.Active; g != nil {
		resp.Ghost = &api.GhostView{
			ID:   g.ID,
			Pose: poseView(g.Position, g.Rotation),
		}
	}

	return resp
}

func poseView(pos mgl32.Vec3, rot mgl32.Quat) api.PoseView {
	return api.PoseView{
		Position: [3]float32{pos.X(), pos.Y(), pos.Z()},
		Rotation: [4]float32{rot.X(), rot.Y(), rot.Z(), rot.W},
	}
}
