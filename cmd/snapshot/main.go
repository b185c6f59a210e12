// Snapshot tool - renders a level from a fixed eye to a PNG file, through the
// same shaders the game uses.
//
// Usage: go run ./cmd/snapshot -level corridor -out corridor.png -yaw 180
package main

import (
	"flag"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/level"
	"github.com/pthm-cable/portals/renderer"
)

func main() {
	levelName := flag.String("level", "room", "Builtin level or path to a level file")
	outPath := flag.String("out", "snapshot.png", "Output PNG path")
	width := flag.Int("width", 512, "Render width")
	height := flag.Int("height", 512, "Render height")
	fov := flag.Float64("fov", 90, "Vertical field of view in degrees")
	x := flag.Float64("x", 0, "Eye X")
	y := flag.Float64("y", 0, "Eye Y")
	z := flag.Float64("z", 160, "Eye Z")
	yaw := flag.Float64("yaw", 0, "Eye yaw in degrees")
	pitch := flag.Float64("pitch", 0, "Eye pitch in degrees")
	flag.Parse()

	lvl, err := level.Load(*levelName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load level: %v\n", err)
		os.Exit(1)
	}

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*width), int32(*height), "Snapshot")
	defer rl.CloseWindow()

	frame := renderer.Frame{Walls: lvl.Walls}
	r := renderer.New(*fov, func() renderer.Frame { return frame })
	r.Init()
	defer r.Unload()

	eye := geom.NewTransform(mgl64.Vec3{*x, *y, *z}, geom.Rotator{Pitch: *pitch, Yaw: *yaw}.Quat())

	// Create render texture
	target := rl.LoadRenderTexture(int32(*width), int32(*height))
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	r.Draw(eye, frame)
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	// Export to PNG
	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if success {
		fmt.Printf("Level %s rendered to: %s (%dx%d)\n", lvl.Name, *outPath, *width, *height)
	} else {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
}
