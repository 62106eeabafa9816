package peekviz

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"sort"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/peekviz/peekviz/entity"
	"github.com/peekviz/peekviz/pose"
)

// WindowTarget shows the scene in a native window: 3D widgets render as
// orbiting wireframes, image widgets as textures, and the side panel lists
// the current control values. Controls in the window are display only;
// interaction goes through [WebTarget] or a remote viewer.
type WindowTarget struct {
	mu     sync.RWMutex
	snap   *Snapshot
	title  string
	width  int
	height int

	images map[string]*ebiten.Image

	// Orbit camera shared by all 3D widgets. Auto-rotates until the user
	// drags.
	yaw, pitch float32
	dragged    bool
	dragging   bool
	lastX      int
	lastY      int
}

// NewWindowTarget creates a window target with the given title and size.
// The window does not open until [WindowTarget.Run] is called.
func NewWindowTarget(title string, width, height int) *WindowTarget {
	return &WindowTarget{
		title:  title,
		width:  width,
		height: height,
		images: make(map[string]*ebiten.Image),
		pitch:  0.35,
	}
}

// Name implements Target.
func (t *WindowTarget) Name() string {
	return fmt.Sprintf("WindowTarget(%s)", t.title)
}

// Update implements Target.
func (t *WindowTarget) Update(ctx context.Context, snap *Snapshot) error {
	t.mu.Lock()
	t.snap = snap
	t.mu.Unlock()
	return nil
}

// Close implements Target.
func (t *WindowTarget) Close() error { return nil }

// Run opens the window and blocks until ctx is cancelled or the window is
// closed. Most windowing backends require this to run on the main
// goroutine.
func (t *WindowTarget) Run(ctx context.Context) error {
	ebiten.SetWindowSize(t.width, t.height)
	ebiten.SetWindowTitle(t.title)
	err := ebiten.RunGame(&windowGame{target: t, ctx: ctx})
	if err == ebiten.Termination {
		return nil
	}
	return err
}

// windowGame adapts a WindowTarget to the ebiten game loop.
type windowGame struct {
	target *WindowTarget
	ctx    context.Context
}

func (g *windowGame) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	t := g.target

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if t.dragging {
			t.yaw += float32(x-t.lastX) * 0.01
			t.pitch += float32(y-t.lastY) * 0.01
			t.pitch = clamp32(t.pitch, -1.5, 1.5)
		}
		t.dragging = true
		t.dragged = true
		t.lastX, t.lastY = x, y
	} else {
		t.dragging = false
	}
	if !t.dragged {
		t.yaw += 0.005
	}
	return nil
}

const sidePanelWidth = 220

func (g *windowGame) Draw(screen *ebiten.Image) {
	t := g.target
	t.mu.RLock()
	snap := t.snap
	t.mu.RUnlock()
	if snap == nil {
		ebitenutil.DebugPrintAt(screen, "waiting for scene...", 8, 8)
		return
	}

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	mainW := w
	if len(snap.Components) > 0 {
		mainW -= sidePanelWidth
		t.drawSidePanel(screen, snap, mainW)
	}

	cells := layoutWidgets(snap.Widgets, mainW, h)
	for i, widget := range snap.Widgets {
		c := cells[i]
		vector.StrokeRect(screen, c.x+1, c.y+1, c.w-2, c.h-2, 1, color.RGBA{60, 60, 80, 255}, false)
		ebitenutil.DebugPrintAt(screen, widget.Label, int(c.x)+4, int(c.y)+2)

		inner := cell{x: c.x + 2, y: c.y + 18, w: c.w - 4, h: c.h - 20}
		if inner.w <= 0 || inner.h <= 0 {
			continue
		}
		switch widget.Kind {
		case widgetKindImage:
			t.drawImage(screen, widget, inner)
		case widgetKindScene3:
			t.drawScene3(screen, widget, inner)
		}
	}
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// cell is a widget's screen rectangle.
type cell struct {
	x, y, w, h float32
}

// layoutWidgets arranges widgets in a grid. The column count is chosen to
// maximize the screen area covered when every cell has the median aspect
// ratio of the widgets.
func layoutWidgets(widgets []WidgetSnapshot, width, height int) []cell {
	n := len(widgets)
	if n == 0 {
		return nil
	}

	aspects := make([]float64, 0, n)
	for _, w := range widgets {
		a := 1.0
		if w.Kind == widgetKindImage && w.Image != nil && w.Image.Height > 0 {
			a = float64(w.Image.Width) / float64(w.Image.Height)
		}
		aspects = append(aspects, a)
	}
	sort.Float64s(aspects)
	median := aspects[n/2]

	var bestCols int
	var bestArea float64
	for cols := 1; cols <= n; cols++ {
		rows := (n + cols - 1) / cols
		cw := float64(width) / float64(cols)
		ch := cw / median
		if ch*float64(rows) > float64(height) {
			ch = float64(height) / float64(rows)
			cw = ch * median
		}
		if area := float64(n) * cw * ch; area > bestArea {
			bestArea = area
			bestCols = cols
		}
	}

	rows := (n + bestCols - 1) / bestCols
	cw := float32(width) / float32(bestCols)
	ch := float32(height) / float32(rows)
	cells := make([]cell, n)
	for i := range cells {
		cells[i] = cell{
			x: float32(i%bestCols) * cw,
			y: float32(i/bestCols) * ch,
			w: cw,
			h: ch,
		}
	}
	return cells
}

// drawImage blits an image widget into its cell, preserving aspect ratio.
// The backing texture is cached per widget and recreated on resize.
func (t *WindowTarget) drawImage(screen *ebiten.Image, w WidgetSnapshot, c cell) {
	if w.Image == nil || !w.Image.Valid() {
		return
	}
	img := t.images[w.Label]
	if img == nil || img.Bounds().Dx() != w.Image.Width || img.Bounds().Dy() != w.Image.Height {
		img = ebiten.NewImage(w.Image.Width, w.Image.Height)
		t.images[w.Label] = img
	}
	img.WritePixels(w.Image.Pix)

	scale := float64(c.w) / float64(w.Image.Width)
	if s := float64(c.h) / float64(w.Image.Height); s < scale {
		scale = s
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(
		float64(c.x)+(float64(c.w)-scale*float64(w.Image.Width))/2,
		float64(c.y)+(float64(c.h)-scale*float64(w.Image.Height))/2,
	)
	screen.DrawImage(img, &op)
}

// drawScene3 renders a 3D widget as a wireframe through the shared orbit
// camera.
func (t *WindowTarget) drawScene3(screen *ebiten.Image, w WidgetSnapshot, c cell) {
	view := pose.LookAt(pose.Vec3(0, 1.5, 3.5), pose.Vec3(0, 0, 0), pose.Vec3(0, 1, 0))
	proj := pose.Perspective(float32(60*math.Pi/180), c.w/c.h, 0.1, 100)
	orbit := pose.RotY(t.yaw).Mul(pose.RotX(t.pitch))

	for _, e := range w.Entities {
		mvp := proj.Mul(view).Mul(orbit.Mul(e.Pose).Matrix())
		if e.Entity.Mesh != nil {
			drawMesh(screen, e.Entity.Mesh, mvp, c)
		}
		if e.Entity.Lines != nil {
			drawLines(screen, e.Entity.Lines, mvp, c)
		}
	}
}

func drawMesh(screen *ebiten.Image, m *entity.Mesh, mvp pose.Matrix4, c cell) {
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a := m.Vertices[f[i]]
			b := m.Vertices[f[(i+1)%3]]
			drawEdge(screen, a, b, mvp, c)
		}
	}
}

func drawLines(screen *ebiten.Image, l *entity.LineSet, mvp pose.Matrix4, c cell) {
	for _, s := range l.Segments {
		drawEdge(screen, l.Vertices[s[0]], l.Vertices[s[1]], mvp, c)
	}
}

func drawEdge(screen *ebiten.Image, a, b entity.Vertex, mvp pose.Matrix4, c cell) {
	ax, ay, ok := project(a.Position(), mvp, c)
	if !ok {
		return
	}
	bx, by, ok := project(b.Position(), mvp, c)
	if !ok {
		return
	}
	vector.StrokeLine(screen, ax, ay, bx, by, 1, toRGBA(a.Color()), true)
}

// project maps a point through the model-view-projection matrix into the
// cell. Points behind the camera are rejected.
func project(p pose.Vector3, mvp pose.Matrix4, c cell) (float32, float32, bool) {
	clip, w := mvp.Transform(p)
	if w <= 0 {
		return 0, 0, false
	}
	x := c.x + (clip.X/w+1)/2*c.w
	y := c.y + (1-(clip.Y/w+1)/2)*c.h
	return x, y, true
}

func (t *WindowTarget) drawSidePanel(screen *ebiten.Image, snap *Snapshot, x int) {
	h := screen.Bounds().Dy()
	vector.StrokeLine(screen, float32(x), 0, float32(x), float32(h), 1, color.RGBA{60, 60, 80, 255}, false)

	y := 8
	for _, comp := range snap.Components {
		var line string
		switch comp.Kind {
		case "bool":
			box := "[ ]"
			if comp.Bool {
				box = "[x]"
			}
			line = fmt.Sprintf("%s %s", box, comp.Label)
		case "number", "ranged":
			if comp.Integral {
				line = fmt.Sprintf("%s: %d", comp.Label, int(comp.Number))
			} else {
				line = fmt.Sprintf("%s: %.3f", comp.Label, comp.Number)
			}
		case "enum":
			line = fmt.Sprintf("%s: %s", comp.Label, comp.Value)
		case "button":
			line = fmt.Sprintf("(%s)", comp.Label)
		}
		ebitenutil.DebugPrintAt(screen, line, x+8, y)
		y += 16
	}
}

func toRGBA(c entity.Color) color.RGBA {
	return color.RGBA{
		R: uint8(clamp32(c.R, 0, 1) * 255),
		G: uint8(clamp32(c.G, 0, 1) * 255),
		B: uint8(clamp32(c.B, 0, 1) * 255),
		A: uint8(clamp32(c.A, 0, 1) * 255),
	}
}

func clamp32(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
