package handlers

import (
	"ghost-server/internal/session"

	"github.com/go-gl/mathgl/mgl32"
)

// PoseSetter - записываемый объект, которому клиент задает позу.
type PoseSetter interface {
	SetPose(pos mgl32.Vec3, rot mgl32.Quat)
}

// Context передает хендлеру то, чем он может управлять.
// Хендлеры выполняются только в игровом цикле хоста.
type Context struct {
	Session *session.Controller
	Pawn    PoseSetter
}

// Result - результат выполнения команды.
// Хендлер НЕ пишет в лог сессии напрямую, он возвращает данные.
type Result struct {
	Msg     string // Текст лога
	MsgType string // INFO, ERROR
}

// HandlerFunc - контракт для любой команды (BEGIN_RECORDING, POSE, ...).
type HandlerFunc func(ctx Context, payload []byte) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}

// Info - успешный результат с сообщением
func Info(msg string) Result {
	return Result{Msg: msg, MsgType: "INFO"}
}
