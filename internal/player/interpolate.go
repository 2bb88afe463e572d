package player

import (
	"ghost-server/internal/domain"

	"github.com/go-gl/mathgl/mgl32"
)

// Fraction вычисляет долю пути между двумя кадрами, ограниченную [0, 1].
// Кадры с одинаковым временем дают 0 (деление на ноль исключено).
func Fraction(prev, next domain.Frame, elapsed float64) float32 {
	span := float64(next.Timestamp) - float64(prev.Timestamp)
	if span <= 0 {
		return 0
	}
	t := (elapsed - float64(prev.Timestamp)) / span
	return mgl32.Clamp(float32(t), 0, 1)
}

// Lerp - линейная интерполяция позиции
func Lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Slerp - сферическая интерполяция по кратчайшей дуге.
// q и -q задают один поворот; разворачиваем b, чтобы не идти "длинным путем".
func Slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, t)
}

// Interpolate возвращает позу призрака в момент elapsed между prev и next.
func Interpolate(prev, next domain.Frame, elapsed float64) (mgl32.Vec3, mgl32.Quat) {
	t := Fraction(prev, next, elapsed)
	return Lerp(prev.Position, next.Position, t), Slerp(prev.Rotation, next.Rotation, t)
}
