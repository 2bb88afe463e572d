package domain

// Имя файла сохранения внутри каталога данных
const SaveFileName = "ghost_record.bin"

// Частоты по умолчанию
const (
	DefaultFixedStep = 0.02 // 50 Hz, шаг симуляции для записи
	DefaultFrameRate = 60   // Hz, частота кадров для воспроизведения
)

// Режимы сессии
type SessionState int

const (
	StateIdle SessionState = iota
	StateRecording
	StateReplaying
)

func (s SessionState) String() string {
	switch s {
	case StateRecording:
		return "RECORDING"
	case StateReplaying:
		return "REPLAYING"
	default:
		return "IDLE"
	}
}
