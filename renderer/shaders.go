package renderer

import (
	_ "embed"

	rl "github.com/gen2brain/raylib-go/raylib"
)

//go:embed shaders/clip.vs
var clipVS string

//go:embed shaders/clip.fs
var clipFS string

//go:embed shaders/portal.fs
var portalFS string

// clipShader draws opaque geometry with the capture keep plane and the
// per-agent clip plane.
type clipShader struct {
	shader    rl.Shader
	keepOnLoc int32
	keepPtLoc int32
	keepNLoc  int32
	clipOnLoc int32
	clipPtLoc int32
	clipNLoc  int32
}

func loadClipShader() clipShader {
	s := rl.LoadShaderFromMemory(clipVS, clipFS)
	return clipShader{
		shader:    s,
		keepOnLoc: rl.GetShaderLocation(s, "keepOn"),
		keepPtLoc: rl.GetShaderLocation(s, "keepPoint"),
		keepNLoc:  rl.GetShaderLocation(s, "keepNormal"),
		clipOnLoc: rl.GetShaderLocation(s, "clipOn"),
		clipPtLoc: rl.GetShaderLocation(s, "clipPoint"),
		clipNLoc:  rl.GetShaderLocation(s, "clipNormal"),
	}
}

// portalShader samples the linked portal's capture in screen space.
type portalShader struct {
	shader   rl.Shader
	viewLoc  int32
	scaleLoc int32
	vpxLoc   int32
	vpyLoc   int32
	vpwLoc   int32
	edgeLoc  int32
	blankLoc int32
}

func loadPortalShader() portalShader {
	s := rl.LoadShaderFromMemory(clipVS, portalFS)
	ps := portalShader{
		shader:   s,
		viewLoc:  rl.GetShaderLocation(s, "portalView"),
		scaleLoc: rl.GetShaderLocation(s, "worldScale"),
		vpxLoc:   rl.GetShaderLocation(s, "vpx"),
		vpyLoc:   rl.GetShaderLocation(s, "vpy"),
		vpwLoc:   rl.GetShaderLocation(s, "vpw"),
		edgeLoc:  rl.GetShaderLocation(s, "edgeColor"),
		blankLoc: rl.GetShaderLocation(s, "blank"),
	}
	rl.SetShaderValue(s, ps.scaleLoc, []float32{WorldScale}, rl.ShaderUniformFloat)
	return ps
}

func setFlag(s rl.Shader, loc int32, on bool) {
	v := float32(0)
	if on {
		v = 1
	}
	rl.SetShaderValue(s, loc, []float32{v}, rl.ShaderUniformFloat)
}

func setVec3(s rl.Shader, loc int32, v rl.Vector3) {
	rl.SetShaderValue(s, loc, []float32{v.X, v.Y, v.Z}, rl.ShaderUniformVec3)
}

func setVec4(s rl.Shader, loc int32, v [4]float32) {
	rl.SetShaderValue(s, loc, v[:], rl.ShaderUniformVec4)
}
