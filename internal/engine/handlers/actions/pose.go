package actions

import (
	"ghost-server/internal/engine/handlers"
	"ghost-server/pkg/api"

	"github.com/go-gl/mathgl/mgl32"
)

// HandlePose обновляет позу записываемого игрока.
// Движение самого игрока вне системы: клиент просто сообщает, где он.
func HandlePose(ctx handlers.Context, p api.PosePayload) (handlers.Result, error) {
	pos := mgl32.Vec3{p.Position[0], p.Position[1], p.Position[2]}

	rot := mgl32.Quat{W: p.Rotation[3], V: mgl32.Vec3{p.Rotation[0], p.Rotation[1], p.Rotation[2]}}
	if rot.W == 0 && rot.V == (mgl32.Vec3{}) {
		rot = mgl32.QuatIdent()
	}

	ctx.Pawn.SetPose(pos, rot)
	return handlers.EmptyResult(), nil
}
