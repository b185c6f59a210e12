// Package level loads level geometry: axis-aligned or tilted walls, some of
// which accept portals, plus the agents and portal shots a scenario starts with.
package level

import (
	"embed"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/surface"
)

//go:embed levels/*.yaml
var builtin embed.FS

// ErrUnknownLevel is returned when a level name matches no builtin level.
var ErrUnknownLevel = errors.New("unknown level")

// File is the YAML form of a level.
type File struct {
	Name   string      `yaml:"name"`
	Walls  []WallSpec  `yaml:"walls"`
	Agents []AgentSpec `yaml:"agents"`
	Shots  []ShotSpec  `yaml:"shots"`
}

// WallSpec describes one wall slab. Center is the middle of the front face
// and Normal points out of it.
type WallSpec struct {
	Name      string     `yaml:"name"`
	Center    mgl64.Vec3 `yaml:"center"`
	Normal    mgl64.Vec3 `yaml:"normal"`
	Width     float64    `yaml:"width"`     // along the face's local X
	Height    float64    `yaml:"height"`    // along the face's local Y
	Thickness float64    `yaml:"thickness"` // behind the face
	Portable  bool       `yaml:"portable"`  // accepts portals
}

// AgentSpec places a teleportable agent at scenario start.
type AgentSpec struct {
	Name     string       `yaml:"name"`
	Kind     string       `yaml:"kind"` // Player, Projectile or Prop
	Location mgl64.Vec3   `yaml:"location"`
	Velocity mgl64.Vec3   `yaml:"velocity"`
	Rotation geom.Rotator `yaml:"rotation"`
	Static   bool         `yaml:"static"` // no gravity
}

// ShotSpec fires a portal bullet at a given tick.
type ShotSpec struct {
	Tick   int          `yaml:"tick"`
	Orange bool         `yaml:"orange"`
	From   mgl64.Vec3   `yaml:"from"`
	Aim    geom.Rotator `yaml:"aim"`
}

// Level is built level geometry.
type Level struct {
	Name  string
	Walls []*Wall
	Spec  *File
}

// Builtin loads one of the embedded levels by name.
func Builtin(name string) (*Level, error) {
	data, err := builtin.ReadFile("levels/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", name, ErrUnknownLevel)
	}
	return Parse(data)
}

// BuiltinNames lists the embedded levels.
func BuiltinNames() []string {
	entries, _ := builtin.ReadDir("levels")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	return names
}

// Load reads a level from a YAML file, or a builtin level when nameOrPath
// has no extension and no such file exists.
func Load(nameOrPath string) (*Level, error) {
	if filepath.Ext(nameOrPath) == "" {
		if _, err := os.Stat(nameOrPath); err != nil {
			return Builtin(nameOrPath)
		}
	}
	data, err := os.ReadFile(nameOrPath)
	if err != nil {
		return nil, fmt.Errorf("reading level file: %w", err)
	}
	return Parse(data)
}

// Parse builds a level from YAML.
func Parse(data []byte) (*Level, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing level file: %w", err)
	}
	return f.Build()
}

// Build validates the level file and constructs the walls.
func (f *File) Build() (*Level, error) {
	l := &Level{Name: f.Name, Spec: f}
	for i, ws := range f.Walls {
		w, err := newWall(ws)
		if err != nil {
			return nil, fmt.Errorf("wall %d (%s): %w", i, ws.Name, err)
		}
		l.Walls = append(l.Walls, w)
	}
	return l, nil
}

// WallFor returns the wall owning s, or nil.
func (l *Level) WallFor(s *surface.Surface) *Wall {
	for _, w := range l.Walls {
		if w.Surface == s && s != nil {
			return w
		}
	}
	return nil
}

// Wall is a solid slab. A portable wall owns a Surface and lets agents
// using the crossing profile pass through the holes its portals cut.
type Wall struct {
	Name string
	// Face is the frame of the front face: origin at its center, local Z
	// along the outward normal, X/Y spanning the face.
	Face       geom.Transform
	HalfExtent mgl64.Vec3 // half width, half height, half thickness
	Surface    *surface.Surface

	holes    []r2.Box
	rebuilds int
}

func newWall(ws WallSpec) (*Wall, error) {
	if ws.Normal.Len() < 1e-9 {
		return nil, errors.New("zero normal")
	}
	if ws.Width <= 0 || ws.Height <= 0 {
		return nil, fmt.Errorf("invalid size %vx%v", ws.Width, ws.Height)
	}
	thickness := ws.Thickness
	if thickness <= 0 {
		thickness = 10
	}

	n := ws.Normal.Normalize()
	w := &Wall{
		Name:       ws.Name,
		Face:       geom.NewTransform(ws.Center, geom.FromAxes(faceTangent(n), n)),
		HalfExtent: mgl64.Vec3{ws.Width / 2, ws.Height / 2, thickness / 2},
	}
	if ws.Portable {
		w.Surface = surface.New(ws.Name)
		w.Surface.Observe(w)
	}
	return w, nil
}

// faceTangent picks the face's local X: horizontal for walls, world X
// projected onto the face for floors and ceilings.
func faceTangent(n mgl64.Vec3) mgl64.Vec3 {
	if math.Abs(n.Z()) < 0.99 {
		return n.Cross(geom.AxisUp).Normalize()
	}
	x := geom.AxisForward
	return x.Sub(n.Mul(n.Dot(x))).Normalize()
}

// Box returns the slab's center frame.
func (w *Wall) Box() geom.Transform {
	return w.Face.WithLocation(w.Face.Location.Sub(w.Face.Up().Mul(w.HalfExtent.Z())))
}

// Normal returns the outward face normal.
func (w *Wall) Normal() mgl64.Vec3 {
	return w.Face.Up()
}

// FaceExtent returns the face's half size in surface-local coordinates.
func (w *Wall) FaceExtent() r2.Vec {
	return r2.Vec{X: w.HalfExtent.X(), Y: w.HalfExtent.Y()}
}

// Local maps a world point into face-local 2D coordinates.
func (w *Wall) Local(p mgl64.Vec3) r2.Vec {
	l := w.Face.InverseTransformPosition(p)
	return r2.Vec{X: l.X(), Y: l.Y()}
}

// World maps a face-local 2D point back onto the face.
func (w *Wall) World(p r2.Vec) mgl64.Vec3 {
	return w.Face.TransformPosition(mgl64.Vec3{p.X, p.Y, 0})
}

// RebuildCollision refreshes the holes cut by the surface's portals.
func (w *Wall) RebuildCollision(s *surface.Surface) {
	w.holes = w.holes[:0]
	s.Each(func(_ int, r surface.Rect) {
		w.holes = append(w.holes, r.Box)
	})
	w.rebuilds++
}

// Holes returns the current portal holes in face-local coordinates.
func (w *Wall) Holes() []r2.Box {
	return w.holes
}

// Rebuilds returns how many collision rebuilds the wall has seen.
func (w *Wall) Rebuilds() int {
	return w.rebuilds
}

func (w *Wall) inHole(p r2.Vec) bool {
	for _, h := range w.holes {
		if p.X >= h.Min.X && p.X <= h.Max.X && p.Y >= h.Min.Y && p.Y <= h.Max.Y {
			return true
		}
	}
	return false
}
