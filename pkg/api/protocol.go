package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse - снимок состояния сессии призрака.
// Отправляется после каждой команды и на каждом кадре реплея.
type ServerResponse struct {
	// Type тип сообщения: UPDATE (после команды) или POSE (кадр реплея).
	Type string `json:"type"`

	// State текущий режим: IDLE, RECORDING, REPLAYING.
	State string `json:"state"`

	// Tick номер кадрового тика хоста.
	Tick uint64 `json:"tick"`

	// RecordedFrames сколько кадров уже в буфере записи.
	RecordedFrames int `json:"recordedFrames"`

	// HasSavedData есть ли файл для реплея.
	HasSavedData bool `json:"hasSavedData"`

	// Replay прогресс проигрывания (только в REPLAYING).
	Replay *ReplayView `json:"replay,omitempty"`

	// Pawn поза записываемого игрока.
	Pawn PoseView `json:"pawn"`

	// Ghost поза призрака, если он существует.
	Ghost *GhostView `json:"ghost,omitempty"`

	// Logs сообщения, накопленные с прошлого ответа.
	Logs []LogEntry `json:"logs,omitempty"`
}

// PoseView - позиция (x, y, z) и поворот (x, y, z, w).
type PoseView struct {
	Position [3]float32 `json:"position"`
	Rotation [4]float32 `json:"rotation"`
}

type GhostView struct {
	ID   string   `json:"id"`
	Pose PoseView `json:"pose"`
}

type ReplayView struct {
	Cursor   int     `json:"cursor"`
	Frames   int     `json:"frames"`
	Duration float32 `json:"duration"`
}

// LogEntry представляет одно сообщение в логе сессии.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"` // INFO, ERROR
	Timestamp int64  `json:"timestamp"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand корневой объект для всех сообщений от клиента.
type ClientCommand struct {
	// Action одно из BEGIN_RECORDING, END_RECORDING, BEGIN_REPLAY, END_REPLAY, POSE, STATUS.
	Action string `json:"action"`

	// Payload данные действия (нужны только для POSE).
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// PosePayload задает текущую позу записываемого игрока.
// Rotation - кватернион (x, y, z, w); нулевой означает "без поворота".
type PosePayload struct {
	Position [3]float32 `json:"position"`
	Rotation [4]float32 `json:"rotation"`
}
