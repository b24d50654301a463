package world

import (
	"encoding/json"
	"os"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

var ErrInvalidLevel = errors.New("world: invalid level")

// --- JSON types ---

// Level is a course: static terrain slabs plus dynamic obstacles. Courses run
// along +X so a tire's axle (local Z) points across the track.
type Level struct {
	Name      string        `json:"name"`
	Spawn     [3]float32    `json:"spawn"`
	Slabs     []SlabDef     `json:"slabs"`
	Obstacles []ObstacleDef `json:"obstacles,omitempty"`
}

// SlabDef is a static box. Rotation is Euler degrees around X, Y and Z.
type SlabDef struct {
	Name     string     `json:"name"`
	Position [3]float32 `json:"position"`
	Size     [3]float32 `json:"size"`
	Rotation [3]float32 `json:"rotation,omitempty"`
	Color    string     `json:"color,omitempty"`
}

type ObstacleDef struct {
	Name     string     `json:"name"`
	Shape    string     `json:"shape"` // "box" or "sphere"
	Position [3]float32 `json:"position"`
	Size     [3]float32 `json:"size,omitempty"`
	Radius   float32    `json:"radius,omitempty"`
	Mass     float32    `json:"mass"`
	Color    string     `json:"color,omitempty"`
}

// --- Color mapping ---

var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"SkyBlue":   rl.SkyBlue,
	"White":     rl.White,
	"LightGray": rl.LightGray,
	"Gray":      rl.Gray,
	"DarkGray":  rl.DarkGray,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"Maroon":    rl.Maroon,
	"Gold":      rl.Gold,
}

// lookupColor accepts a raylib color name or an html hex string.
func lookupColor(name string, fallback rl.Color) rl.Color {
	if name == "" {
		return fallback
	}
	if c, ok := colorByName[name]; ok {
		return c
	}
	if strings.HasPrefix(name, "#") {
		if c, err := colorful.Hex(name); err == nil {
			r, g, b := c.Clamped().RGB255()
			return rl.NewColor(r, g, b, 255)
		}
	}
	return fallback
}

func vec(a [3]float32) rl.Vector3 {
	return rl.Vector3{X: a[0], Y: a[1], Z: a[2]}
}

func (s SlabDef) rotation() rl.Quaternion {
	if s.Rotation == [3]float32{} {
		return rl.QuaternionIdentity()
	}
	return rl.QuaternionFromEuler(s.Rotation[0]*rl.Deg2rad, s.Rotation[1]*rl.Deg2rad, s.Rotation[2]*rl.Deg2rad)
}

// --- Loading ---

func LoadLevel(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, errors.Wrapf(err, "read level %s", path)
	}

	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return Level{}, errors.Wrapf(ErrInvalidLevel, "parse %s: %v", path, err)
	}
	if err := lvl.Validate(); err != nil {
		return Level{}, errors.Wrapf(err, "level %s", path)
	}
	return lvl, nil
}

func (l Level) Validate() error {
	if len(l.Slabs) == 0 {
		return errors.Wrap(ErrInvalidLevel, "no terrain slabs")
	}
	for i, s := range l.Slabs {
		if s.Size[0] <= 0 || s.Size[1] <= 0 || s.Size[2] <= 0 {
			return errors.Wrapf(ErrInvalidLevel, "slab %d (%s): size %v", i, s.Name, s.Size)
		}
	}
	for i, o := range l.Obstacles {
		if o.Mass <= 0 {
			return errors.Wrapf(ErrInvalidLevel, "obstacle %d (%s): mass %.2f", i, o.Name, o.Mass)
		}
		switch o.Shape {
		case "box":
			if o.Size[0] <= 0 || o.Size[1] <= 0 || o.Size[2] <= 0 {
				return errors.Wrapf(ErrInvalidLevel, "obstacle %d (%s): size %v", i, o.Name, o.Size)
			}
		case "sphere":
			if o.Radius <= 0 {
				return errors.Wrapf(ErrInvalidLevel, "obstacle %d (%s): radius %.2f", i, o.Name, o.Radius)
			}
		default:
			return errors.Wrapf(ErrInvalidLevel, "obstacle %d (%s): shape %q", i, o.Name, o.Shape)
		}
	}
	return nil
}

// --- Saving ---

func (l Level) Save(path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal level")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write level %s", path)
	}
	return nil
}

// DefaultLevel is the built-in course: a start pad, a 15 degree ramp, and a
// walled runway with a crate stack and barrels. The runway end is open.
func DefaultLevel() Level {
	return Level{
		Name:  "Proving Ground",
		Spawn: [3]float32{0, 8, 0},
		Slabs: []SlabDef{
			{Name: "StartPad", Position: [3]float32{0, 4, 0}, Size: [3]float32{8, 1, 8}, Color: "DarkGray"},
			{Name: "Ramp", Position: [3]float32{10.63, 2.21, 0}, Size: [3]float32{14, 1, 8}, Rotation: [3]float32{0, 0, -15}, Color: "Gray"},
			{Name: "Runway", Position: [3]float32{45, 0, 0}, Size: [3]float32{60, 1, 10}, Color: "#5a6b4f"},
			{Name: "WallLeft", Position: [3]float32{45, 1.5, -5.5}, Size: [3]float32{60, 2, 1}, Color: "Maroon"},
			{Name: "WallRight", Position: [3]float32{45, 1.5, 5.5}, Size: [3]float32{60, 2, 1}, Color: "Maroon"},
		},
		Obstacles: []ObstacleDef{
			{Name: "Crate_0", Shape: "box", Position: [3]float32{40, 1.01, -1.1}, Size: [3]float32{1, 1, 1}, Mass: 3, Color: "Brown"},
			{Name: "Crate_1", Shape: "box", Position: [3]float32{40, 1.01, 0}, Size: [3]float32{1, 1, 1}, Mass: 3, Color: "Brown"},
			{Name: "Crate_2", Shape: "box", Position: [3]float32{40, 1.01, 1.1}, Size: [3]float32{1, 1, 1}, Mass: 3, Color: "Brown"},
			{Name: "Crate_3", Shape: "box", Position: [3]float32{40, 2.02, -0.55}, Size: [3]float32{1, 1, 1}, Mass: 3, Color: "Beige"},
			{Name: "Crate_4", Shape: "box", Position: [3]float32{40, 2.02, 0.55}, Size: [3]float32{1, 1, 1}, Mass: 3, Color: "Beige"},
			{Name: "Barrel_0", Shape: "sphere", Position: [3]float32{55, 1.01, -2}, Radius: 0.5, Mass: 2, Color: "Orange"},
			{Name: "Barrel_1", Shape: "sphere", Position: [3]float32{55, 1.01, 2}, Radius: 0.5, Mass: 2, Color: "Orange"},
			{Name: "Barrel_2", Shape: "sphere", Position: [3]float32{60, 1.01, 0}, Radius: 0.5, Mass: 2, Color: "#e0b020"},
		},
	}
}
