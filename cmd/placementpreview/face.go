package main

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/portals/surface"
)

var portalColors = [2]rl.Color{
	{R: 255, G: 140, B: 20, A: 255},
	{R: 30, G: 140, B: 255, A: 255},
}

// faceView maps the wall face's local space onto the preview square. Local
// +Y is drawn upwards.
type faceView struct {
	origin rl.Vector2 // screen position of the face center
	scale  float32    // pixels per world unit
	half   r2.Vec
}

func newFaceView(params PlacementParams) faceView {
	longest := max(params.FaceWidth, params.FaceHeight)
	return faceView{
		origin: rl.Vector2{X: 10 + previewSize/2, Y: 10 + previewSize/2},
		scale:  (previewSize - 40) / longest,
		half:   r2.Vec{X: float64(params.FaceWidth) / 2, Y: float64(params.FaceHeight) / 2},
	}
}

func (v faceView) toScreen(p r2.Vec) rl.Vector2 {
	return rl.Vector2{
		X: v.origin.X + float32(p.X)*v.scale,
		Y: v.origin.Y - float32(p.Y)*v.scale,
	}
}

func (v faceView) toLocal(p rl.Vector2) r2.Vec {
	return r2.Vec{
		X: float64((p.X - v.origin.X) / v.scale),
		Y: float64((v.origin.Y - p.Y) / v.scale),
	}
}

func (v faceView) contains(p rl.Vector2) bool {
	l := v.toLocal(p)
	return l.X >= -v.half.X && l.X <= v.half.X && l.Y >= -v.half.Y && l.Y <= v.half.Y
}

// rect converts a local box to a screen rectangle.
func (v faceView) rect(b r2.Box) rl.Rectangle {
	tl := v.toScreen(r2.Vec{X: b.Min.X, Y: b.Max.Y})
	return rl.Rectangle{
		X:      tl.X,
		Y:      tl.Y,
		Width:  float32(b.Max.X-b.Min.X) * v.scale,
		Height: float32(b.Max.Y-b.Min.Y) * v.scale,
	}
}

// draw renders the face, the placed footprints and where each click landed.
func (v faceView) draw(s *surface.Surface, history []attempt) {
	rl.DrawRectangle(10, 10, previewSize, previewSize, rl.Color{R: 30, G: 34, B: 40, A: 255})

	face := v.rect(r2.Box{Min: r2.Scale(-1, v.half), Max: v.half})
	rl.DrawRectangleRec(face, rl.Color{R: 200, G: 200, B: 205, A: 255})
	rl.DrawRectangleLinesEx(face, 2, rl.DarkGray)

	s.Each(func(id int, r surface.Rect) {
		c := portalColors[id%2]
		box := v.rect(r.Box)
		rl.DrawRectangleRec(box, rl.Fade(c, 0.5))
		rl.DrawRectangleLinesEx(box, 2, c)
		center := v.toScreen(r.Center)
		rl.DrawText(fmt.Sprintf("#%d", id), int32(center.X)-8, int32(center.Y)-7, 14, rl.Black)
	})

	for _, a := range history {
		at := v.toScreen(a.Requested)
		if a.Err != nil {
			rl.DrawLineEx(rl.Vector2{X: at.X - 5, Y: at.Y - 5}, rl.Vector2{X: at.X + 5, Y: at.Y + 5}, 2, rl.Red)
			rl.DrawLineEx(rl.Vector2{X: at.X - 5, Y: at.Y + 5}, rl.Vector2{X: at.X + 5, Y: at.Y - 5}, 2, rl.Red)
			continue
		}
		rl.DrawCircleV(at, 3, rl.DarkGray)
		rl.DrawLineV(at, v.toScreen(a.Placed.Center), rl.DarkGray)
	}
}
