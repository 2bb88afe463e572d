package domain

import "github.com/go-gl/mathgl/mgl32"

// Transform - источник текущей позы (игрок, которого записываем).
type Transform interface {
	Position() mgl32.Vec3
	Rotation() mgl32.Quat
}

// Ghost - хэндл заспавненного призрака.
type Ghost interface {
	SetPose(pos mgl32.Vec3, rot mgl32.Quat)
	// DisableSimulation выключает физику (аналог kinematic body)
	DisableSimulation()
	Destroy()
}

// Spawner создает призрака в заданной позе.
type Spawner interface {
	Spawn(pos mgl32.Vec3, rot mgl32.Quat) (Ghost, error)
}

// Clock - монотонные секунды от произвольной эпохи.
type Clock interface {
	Now() float64
}
