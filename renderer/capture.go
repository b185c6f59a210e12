package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/portal"
)

// RenderTarget is a raylib render texture used as a portal capture target.
type RenderTarget struct {
	tex rl.RenderTexture2D
}

// Size returns the texture dimensions.
func (t *RenderTarget) Size() (w, h int) {
	return int(t.tex.Texture.Width), int(t.tex.Texture.Height)
}

// Texture returns the colour attachment.
func (t *RenderTarget) Texture() rl.Texture2D {
	return t.tex.Texture
}

// CreateTarget allocates a render texture.
func (r *Renderer) CreateTarget(w, h int) portal.Target {
	tex := rl.LoadRenderTexture(int32(w), int32(h))
	rl.SetTextureFilter(tex.Texture, rl.FilterBilinear)
	return &RenderTarget{tex: tex}
}

// ReleaseTarget frees a render texture created by CreateTarget.
func (r *Renderer) ReleaseTarget(t portal.Target) {
	if rt, ok := t.(*RenderTarget); ok {
		rl.UnloadRenderTexture(rt.tex)
	}
}

// Capture renders the current frame from view into the target. Portals are
// drawn flat inside captures.
func (r *Renderer) Capture(into portal.Target, view portal.CaptureView) {
	rt, ok := into.(*RenderTarget)
	if !ok || r.source == nil {
		return
	}
	if !r.initialized {
		r.Init()
	}

	var keep *geom.Plane
	if view.ClipOn {
		keep = &view.Clip
	}

	rl.BeginTextureMode(rt.tex)
	rl.ClearBackground(skyColor)
	rl.BeginMode3D(Camera3D(geom.NewTransform(view.Location, view.Rotation), r.fov))
	r.drawWorld(r.source(), keep, false)
	rl.EndMode3D()
	rl.EndTextureMode()
}

// Unload frees shaders.
func (r *Renderer) Unload() {
	if r.initialized {
		rl.UnloadShader(r.clip.shader)
		rl.UnloadShader(r.portal.shader)
		r.initialized = false
	}
}
