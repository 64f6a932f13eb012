package engine

import (
	"github.com/Carmen-Shannon/penguin-paradise/common"
	"github.com/Carmen-Shannon/penguin-paradise/engine/camera"
	"github.com/Carmen-Shannon/penguin-paradise/engine/window"
)

// panScale converts a pixel of drag into world units per unit of orbit radius.
const panScale = 0.002

// keyPanStep is the world distance one WASD press pans.
const keyPanStep = 0.25

// bindInput routes window input to the scene camera's orbit controller.
//
//   - left drag rotates, right or middle drag pans
//   - scroll, + and - zoom
//   - arrow keys orbit, WASD pans, R resets the view
func (e *engine) bindInput() {
	e.window.SetDragCallback(func(button window.MouseButton, dx, dy float32) {
		ctrl := e.controller()
		if ctrl == nil {
			return
		}
		switch button {
		case window.MouseLeft:
			ctrl.Rotate(dx, dy)
		default:
			k := panScale * ctrl.Radius()
			ctrl.PanRight(-dx * k)
			ctrl.PanUp(dy * k)
		}
	})

	e.window.SetScrollCallback(func(delta float32) {
		if ctrl := e.controller(); ctrl != nil {
			ctrl.Zoom(delta)
		}
	})

	e.window.SetKeyDownCallback(func(keyCode uint32) {
		ctrl := e.controller()
		if ctrl == nil {
			return
		}
		switch keyCode {
		case common.KeyLeft:
			ctrl.OrbitLeft()
		case common.KeyRight:
			ctrl.OrbitRight()
		case common.KeyUp:
			ctrl.OrbitUp()
		case common.KeyDown:
			ctrl.OrbitDown()
		case common.KeyEqual:
			ctrl.Zoom(1)
		case common.KeyMinus:
			ctrl.Zoom(-1)
		case common.KeyW:
			ctrl.PanUp(keyPanStep)
		case common.KeyS:
			ctrl.PanUp(-keyPanStep)
		case common.KeyA:
			ctrl.PanRight(-keyPanStep)
		case common.KeyD:
			ctrl.PanRight(keyPanStep)
		case common.KeyR:
			ctrl.SetTarget(0, 0, 0)
			ctrl.SetPosition(0, 3, 6)
		}
	})
}

func (e *engine) controller() camera.CameraController {
	cam := e.scene.Camera()
	if cam == nil {
		return nil
	}
	return cam.Controller()
}
