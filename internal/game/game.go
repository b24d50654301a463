package game

import (
	"fmt"
	"log"
	"time"

	"tireroll/internal/config"
	"tireroll/internal/tire"
	"tireroll/internal/world"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Aim change per second while A/D is held.
const aimRate = 1.2

var (
	colorPanel  = rl.NewColor(30, 30, 40, 220)
	colorShadow = rl.NewColor(0, 0, 0, 90)
)

// Game is the windowed front end around a Session.
type Game struct {
	Config    config.Config
	Level     world.Level
	Session   *Session
	DebugMode bool
	ShowPanel bool

	// Debug timing (ms)
	updateMs float64
	drawMs   float64
}

func New(cfg config.Config, level world.Level) *Game {
	return &Game{
		Config:    cfg,
		Level:     level,
		ShowPanel: true,
	}
}

func (g *Game) Run() error {
	w := g.Config.Window
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(w.Width, w.Height, w.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(w.TargetFPS)
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorPanel))

	// Meshes need the GL context, so the session is built after InitWindow
	s, err := NewSession(g.Config, g.Level, false)
	if err != nil {
		return err
	}
	g.Session = s
	defer s.Close()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
	return nil
}

func (g *Game) pollInput() Input {
	var in Input
	in.Launch = rl.IsKeyPressed(rl.KeySpace)
	in.Reset = rl.IsKeyPressed(rl.KeyR)
	in.NextType = rl.IsKeyPressed(rl.KeyT) || rl.IsKeyPressed(rl.KeyTab)
	if rl.IsKeyDown(rl.KeyA) {
		in.Aim -= aimRate
	}
	if rl.IsKeyDown(rl.KeyD) {
		in.Aim += aimRate
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		g.DebugMode = !g.DebugMode
	}
	if rl.IsKeyPressed(rl.KeyF2) {
		g.ShowPanel = !g.ShowPanel
	}
	return in
}

func (g *Game) Update() {
	updateStart := time.Now()
	deltaTime := rl.GetFrameTime()

	if err := g.Session.Update(deltaTime, g.pollInput()); err != nil {
		log.Printf("Game: launch failed: %v", err)
	}

	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

func (g *Game) Draw() {
	s := g.Session
	camera := s.Camera.GetRaylibCamera()
	width, height := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	aspect := float32(width) / float32(height)

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

	drawStart := time.Now()
	rl.BeginMode3D(camera)
	drawn := s.World.Draw(camera, aspect)
	for _, b := range s.Tires() {
		g.drawShadow(b)
		drawTrail(b.Trail)
	}
	if s.Current != nil && s.Current.State() == tire.Idle {
		g.drawAim(s.Current)
	}
	s.Particles.Draw()
	rl.EndMode3D()
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	s.Overlay.Draw(width, height)
	g.DrawUI(drawn)
	rl.EndDrawing()
}

// drawShadow puts a flat disc on the surface under the tire.
func (g *Game) drawShadow(b *tire.RollingBody) {
	pos := b.GetGameObject().Transform.Position
	y, ok := g.Session.World.GroundHeight(pos.X, pos.Z, b.Handle())
	if !ok || y > pos.Y {
		return
	}
	r := b.Spec.Radius * (1 - (pos.Y-y)/20)
	if r <= 0 {
		return
	}
	rl.DrawCircle3D(rl.Vector3{X: pos.X, Y: y + 0.02, Z: pos.Z}, r, rl.Vector3{X: 1}, 90, colorShadow)
}

func drawTrail(t *tire.Trail) {
	pts := t.Points()
	for i := 1; i < len(pts); i++ {
		rl.DrawLine3D(pts[i-1].Position, pts[i].Position, pts[i].Color)
	}
}

func (g *Game) drawAim(b *tire.RollingBody) {
	from := b.GetGameObject().Transform.Position
	v := g.Session.LaunchVelocity()
	to := rl.Vector3Add(from, rl.Vector3Scale(rl.Vector3Normalize(v), 3))
	rl.DrawLine3D(from, to, rl.Yellow)
	rl.DrawSphere(to, 0.08, rl.Yellow)
}

func (g *Game) DrawUI(drawn int) {
	s := g.Session
	rl.DrawText("Space launch, A/D aim, T tire type, R reset", 10, 10, 20, rl.LightGray)
	rl.DrawText("F1 debug, F2 tuning panel", 10, 35, 20, rl.LightGray)
	rl.DrawFPS(10, 60)

	rl.DrawText(fmt.Sprintf("Score: %.0f", s.Score.Score), 10, 90, 28, rl.RayWhite)
	if s.Score.ComboActive(s.World.Physics.Time()) && s.Score.Combo > 1 {
		rl.DrawText(fmt.Sprintf("Combo x%d", s.Score.Combo), 10, 122, 24, rl.Orange)
	}
	speed := float32(0)
	if s.Current != nil {
		speed = s.Current.Speed()
	}
	rl.DrawText(fmt.Sprintf("Speed: %.1f", speed), 10, 150, 20, rl.Gray)
	rl.DrawText(fmt.Sprintf("Tire: %s", s.TireType), 10, 172, 20, rl.Gray)

	if g.ShowPanel {
		g.drawTuningPanel()
	}

	if g.DebugMode {
		p := s.World.Physics
		rl.DrawText(fmt.Sprintf("Bodies: %d (%d dynamic)  Contacts: %d", p.BodyCount(), p.DynamicBodyCount(), p.LastContactCount()), 10, 200, 16, rl.Yellow)
		rl.DrawText(fmt.Sprintf("Tires: %d live, %d fell  Drawn: %d", len(s.Tires()), s.Fell(), drawn), 10, 220, 16, rl.Yellow)
		rl.DrawText(fmt.Sprintf("Particles: %d  Best combo: %d", s.Particles.Count(), s.Score.BestCombo), 10, 240, 16, rl.Yellow)

		rl.DrawText(fmt.Sprintf("Update: %.2f ms", g.updateMs), 10, 265, 16, rl.Green)
		rl.DrawText(fmt.Sprintf("Draw:   %.2f ms", g.drawMs), 10, 285, 16, rl.Green)
		rl.DrawText(fmt.Sprintf("Total:  %.2f ms", g.updateMs+g.drawMs), 10, 305, 16, rl.Lime)
	}
}

// drawTuningPanel edits the shared tuning live; running tires pick the
// values up on their next update.
func (g *Game) drawTuningPanel() {
	s := g.Session
	x := float32(rl.GetScreenWidth()) - 290
	rl.DrawRectangle(int32(x)-10, 10, 290, 190, colorPanel)
	rl.DrawText("Tuning", int32(x), 18, 18, rl.RayWhite)

	row := func(i int) rl.Rectangle {
		return rl.Rectangle{X: x + 90, Y: 45 + float32(i)*26, Width: 130, Height: 18}
	}
	label := func(i int, text string) {
		rl.DrawText(text, int32(x), int32(45+i*26), 15, rl.LightGray)
	}

	label(0, "Blend")
	s.Tuning.BlendFactor = gui.Slider(row(0), "", fmt.Sprintf("%.2f", s.Tuning.BlendFactor), s.Tuning.BlendFactor, 0.01, 1)
	label(1, "Yaw damp")
	s.Tuning.YawDamping = gui.Slider(row(1), "", fmt.Sprintf("%.2f", s.Tuning.YawDamping), s.Tuning.YawDamping, 0, 1)
	label(2, "Launch")
	s.Config.LaunchSpeed = gui.Slider(row(2), "", fmt.Sprintf("%.1f", s.Config.LaunchSpeed), s.Config.LaunchSpeed, 2, 40)

	g.DebugMode = gui.CheckBox(rl.Rectangle{X: x, Y: 45 + 3*26, Width: 16, Height: 16}, "Debug", g.DebugMode)
	if gui.Button(rl.Rectangle{X: x + 120, Y: 45 + 3*26 - 2, Width: 100, Height: 22}, "Reset") {
		s.Reset()
	}
	if gui.Button(rl.Rectangle{X: x, Y: 45 + 4*26, Width: 220, Height: 22}, "Tire: "+s.TireType.String()) {
		s.NextType()
	}
}
