package draw

import (
	"math"
	"strings"
	"testing"
)

// pixelAt reads the framebuffer at terminal pixel coordinates.
func pixelAt(c *Canvas, x, y int) Color {
	return c.pix[y*c.termWidth+x]
}

func TestAlphaBlend(t *testing.T) {
	c := NewCanvas(10, 10, 10, 20)

	// Half-alpha white over black leaves mid gray.
	c.blendPixel(5, 5, RGB(1, 1, 1).WithAlpha(0.5), BlendAlpha)
	got := pixelAt(c, 5, 5)
	if math.Abs(got.R-0.5) > 1e-9 || math.Abs(got.G-0.5) > 1e-9 || math.Abs(got.B-0.5) > 1e-9 {
		t.Errorf("half-alpha white over black = %+v, want 0.5 gray", got)
	}

	// Full alpha replaces.
	c.blendPixel(5, 5, RGB(1, 0, 0), BlendAlpha)
	got = pixelAt(c, 5, 5)
	if got.R != 1 || got.G != 0 || got.B != 0 {
		t.Errorf("opaque red over gray = %+v, want pure red", got)
	}

	// Zero alpha is a no-op.
	c.blendPixel(5, 5, RGB(0, 1, 0).WithAlpha(0), BlendAlpha)
	if got := pixelAt(c, 5, 5); got.G != 0 {
		t.Errorf("zero alpha mutated pixel: %+v", got)
	}
}

func TestScreenBlendBrightens(t *testing.T) {
	c := NewCanvas(10, 10, 10, 20)
	c.blendPixel(2, 2, RGB(0.5, 0.5, 0.5), BlendAlpha)
	before := pixelAt(c, 2, 2)

	// Screen blending can only brighten, never darken.
	c.blendPixel(2, 2, RGB(0.5, 0.5, 0.5), BlendScreen)
	after := pixelAt(c, 2, 2)
	if after.R <= before.R {
		t.Errorf("screen blend did not brighten: %v -> %v", before.R, after.R)
	}
	if want := 0.75; math.Abs(after.R-want) > 1e-9 {
		t.Errorf("screen(0.5, 0.5) = %v, want %v", after.R, want)
	}

	// Screen over white stays white.
	c.blendPixel(3, 3, RGB(1, 1, 1), BlendAlpha)
	c.blendPixel(3, 3, RGB(0.8, 0.2, 0.4), BlendScreen)
	if got := pixelAt(c, 3, 3); got.R != 1 || got.G != 1 || got.B != 1 {
		t.Errorf("screen over white = %+v", got)
	}
}

func TestBlendPixelBounds(t *testing.T) {
	c := NewCanvas(4, 4, 4, 8)
	// Out-of-bounds writes must be silently dropped.
	c.blendPixel(-1, 0, RGB(1, 1, 1), BlendAlpha)
	c.blendPixel(0, -1, RGB(1, 1, 1), BlendAlpha)
	c.blendPixel(4, 0, RGB(1, 1, 1), BlendAlpha)
	c.blendPixel(0, 8, RGB(1, 1, 1), BlendAlpha)
	for i, p := range c.pix {
		if p.R != 0 || p.G != 0 || p.B != 0 {
			t.Fatalf("out-of-bounds write landed at %d: %+v", i, p)
		}
	}
}

func TestFillRectSubPixel(t *testing.T) {
	// Logical 960x540 on a small terminal: a 2-unit rect is far below
	// one terminal pixel but must still light its nearest cell.
	c := NewCanvas(96, 27, 960, 540)
	c.FillRect(480, 270, 2, 2, RGB(1, 1, 1), BlendAlpha)

	lit := 0
	for _, p := range c.pix {
		if p.R > 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("sub-pixel rect lit nothing")
	}
}

func TestGradientCircleFades(t *testing.T) {
	c := NewCanvas(40, 40, 40, 80)
	c.RadialGradient(20, 40, 15, RGB(1, 1, 1), RGB(1, 1, 1).WithAlpha(0), BlendAlpha)

	center := pixelAt(c, 20, 40)
	rim := pixelAt(c, 20+13, 40)
	outside := pixelAt(c, 20+17, 40)
	if center.R < 0.9 {
		t.Errorf("gradient center too dim: %v", center.R)
	}
	if rim.R >= center.R {
		t.Errorf("gradient rim not dimmer than center: %v vs %v", rim.R, center.R)
	}
	if outside.R != 0 {
		t.Errorf("gradient leaked outside radius: %v", outside.R)
	}
}

func TestTinyCircleLightsPixel(t *testing.T) {
	c := NewCanvas(96, 27, 960, 540)
	// Radius far below one terminal pixel.
	c.FillCircle(480, 270, 0.5, RGB(1, 1, 1), BlendAlpha)

	lit := 0
	for _, p := range c.pix {
		if p.R > 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("tiny circle lit nothing")
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	c := NewCanvas(20, 10, 20, 20)
	c.DrawLine(Point{X: 2, Y: 2}, Point{X: 17, Y: 17}, RGB(1, 1, 1), BlendAlpha)

	if p := pixelAt(c, 2, 2); p.R == 0 {
		t.Error("line start not drawn")
	}
	if p := pixelAt(c, 17, 17); p.R == 0 {
		t.Error("line end not drawn")
	}
}

func TestDrawBeamWiderThanCore(t *testing.T) {
	c := NewCanvas(40, 20, 40, 40)
	c.DrawBeam(Point{X: 5, Y: 20}, Point{X: 35, Y: 20}, 4, RGB(1, 0, 0), BlendAlpha)

	core := pixelAt(c, 20, 20)
	edge := pixelAt(c, 20, 21)
	if core.R == 0 {
		t.Fatal("beam core not drawn")
	}
	if edge.R == 0 {
		t.Error("beam edge strand not drawn")
	}
	if edge.R >= core.R {
		t.Errorf("beam edge as bright as core: %v vs %v", edge.R, core.R)
	}
}

func TestFillPolygonInterior(t *testing.T) {
	c := NewCanvas(20, 10, 20, 20)
	square := []Point{{X: 4, Y: 4}, {X: 16, Y: 4}, {X: 16, Y: 16}, {X: 4, Y: 16}}
	c.FillPolygon(square, RGB(0, 1, 0), BlendAlpha)

	if p := pixelAt(c, 10, 10); p.G == 0 {
		t.Error("polygon interior not filled")
	}
	if p := pixelAt(c, 1, 1); p.G != 0 {
		t.Error("polygon leaked outside")
	}
}

func TestDrawSpriteRotation(t *testing.T) {
	// A 1x3 vertical bar rotated a quarter turn must land horizontally.
	s := &Sprite{W: 1, H: 3, Pix: []Color{RGB(1, 1, 1), RGB(1, 1, 1), RGB(1, 1, 1)}}
	c := NewCanvas(30, 15, 30, 30)

	c.DrawSprite(s, 15, 15, 4, math.Pi/2, 1, BlendAlpha)
	left := pixelAt(c, 10, 15)
	right := pixelAt(c, 20, 15)
	if left.R == 0 || right.R == 0 {
		t.Errorf("rotated bar not horizontal: left=%v right=%v", left.R, right.R)
	}

	// Nil sprite is a no-op, never a panic.
	c.DrawSprite(nil, 15, 15, 4, 0, 1, BlendAlpha)
}

func TestRenderSkipsUnlitCells(t *testing.T) {
	c := NewCanvas(10, 5, 10, 10)
	var sb strings.Builder
	c.Render(&sb)
	if sb.Len() != 0 {
		t.Errorf("empty canvas emitted %d bytes", sb.Len())
	}

	c.FillRect(5, 5, 1, 1, RGB(1, 1, 1), BlendAlpha)
	sb.Reset()
	c.Render(&sb)
	out := sb.String()
	if out == "" {
		t.Fatal("lit canvas emitted nothing")
	}
	if !strings.Contains(out, "▀") {
		t.Error("render output missing half-block characters")
	}
	if !strings.Contains(out, "\033[38;2;") || !strings.Contains(out, "\033[48;2;") {
		t.Error("render output missing truecolor sequences")
	}
}

func TestRenderErasesDarkenedCells(t *testing.T) {
	c := NewCanvas(10, 5, 10, 10)
	c.FillRect(5, 5, 1, 1, RGB(1, 1, 1), BlendAlpha)
	var sb strings.Builder
	c.Render(&sb)

	// The cell goes dark: the next render must erase it.
	c.Clear()
	sb.Reset()
	c.Render(&sb)
	if !strings.Contains(sb.String(), "\033[0m ") {
		t.Errorf("darkened cell not erased: %q", sb.String())
	}

	// Once erased, the cell is skipped entirely.
	sb.Reset()
	c.Render(&sb)
	if sb.Len() != 0 {
		t.Errorf("already-erased cell re-emitted: %q", sb.String())
	}

	// ForceRedraw drops the tracking, so nothing erases after a full
	// terminal clear.
	c.FillRect(5, 5, 1, 1, RGB(1, 1, 1), BlendAlpha)
	sb.Reset()
	c.Render(&sb)
	c.Clear()
	c.ForceRedraw()
	sb.Reset()
	c.Render(&sb)
	if sb.Len() != 0 {
		t.Errorf("erase emitted after ForceRedraw: %q", sb.String())
	}
}

func TestRenderAppliesOffsets(t *testing.T) {
	c := NewCanvas(10, 5, 10, 10)
	c.SetOffset(7, 3)
	c.FillRect(0, 0, 1, 1, RGB(1, 1, 1), BlendAlpha)

	var sb strings.Builder
	c.Render(&sb)
	// Cell (1,1) shifts to column 8, row 4.
	if !strings.Contains(sb.String(), "\033[4;8H") {
		t.Errorf("offset cursor position missing from output: %q", sb.String())
	}
}

func TestLogicalToTerminal(t *testing.T) {
	c := NewCanvas(96, 27, 960, 540)
	col, row := c.LogicalToTerminal(480, 270)
	if col < 1 || col > 96 || row < 1 || row > 27 {
		t.Errorf("center mapped out of terminal: (%d, %d)", col, row)
	}
	if col != 49 || row != 14 {
		t.Errorf("center = (%d, %d), want (49, 14)", col, row)
	}
}

func TestColorLerp(t *testing.T) {
	a := RGB(0, 0, 0)
	b := RGB(1, 1, 1)
	mid := a.Lerp(b, 0.5)
	if mid.R != 0.5 || mid.G != 0.5 || mid.B != 0.5 {
		t.Errorf("lerp mid = %+v", mid)
	}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("lerp at 0 = %+v", got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("lerp at 1 = %+v", got)
	}
}

func TestHSV(t *testing.T) {
	red := HSV(0, 1, 1)
	if red.R < 0.99 || red.G > 0.01 || red.B > 0.01 {
		t.Errorf("HSV(0,1,1) = %+v, want red", red)
	}
	amber := HSV(45, 1, 1)
	if amber.R < 0.99 || amber.G < 0.5 || amber.G > 0.9 {
		t.Errorf("HSV(45,1,1) = %+v, want amber", amber)
	}
}
