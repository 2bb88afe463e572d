package domain

import "github.com/go-gl/mathgl/mgl32"

// Frame - один снимок позы игрока в момент записи.
// Value-type: после создания не меняется.
type Frame struct {
	Timestamp float32    // Секунды от начала записи
	Position  mgl32.Vec3 // Мировые координаты
	Rotation  mgl32.Quat // Единичный кватернион (не нормализуется при чтении)
}

func NewFrame(t float32, pos mgl32.Vec3, rot mgl32.Quat) Frame {
	return Frame{Timestamp: t, Position: pos, Rotation: rot}
}

// Sequence - упорядоченная по Timestamp лента кадров.
// Кадр 0 всегда имеет Timestamp == 0.
type Sequence []Frame

// Len возвращает количество кадров
func (s Sequence) Len() int {
	return len(s)
}

// Duration возвращает длительность записи (время последнего кадра).
func (s Sequence) Duration() float32 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Timestamp
}

// IsOrdered проверяет инвариант неубывания времени.
func (s Sequence) IsOrdered() bool {
	for i := 1; i < len(s); i++ {
		if s[i].Timestamp < s[i-1].Timestamp {
			return false
		}
	}
	return true
}
