package draw

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Canvas is a truecolor drawing buffer with 2x vertical resolution using
// half-block characters. Supports scaling from logical coordinates to
// actual terminal pixels, alpha and screen blending, and gradient fills.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pix            []Color // Flat framebuffer: [y*termWidth + x], always opaque

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when the terminal is larger
	// than the max render resolution. 0-based terminal offsets.
	offsetCol int
	offsetRow int

	// Lit state of each terminal cell as of the last Render, so cells
	// that go dark get erased instead of leaving trails.
	prevLit []bool

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []Point
	intersectionBuf []float64
}

// NewCanvas creates a canvas that scales from logical coordinates to
// terminal pixels. logicalWidth/Height define the coordinate space used
// by the scene; termWidth/Height are the actual terminal dimensions.
func NewCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	subPixelHeight := termHeight * 2
	return &Canvas{
		termWidth:      termWidth,
		termHeight:     termHeight,
		subPixelHeight: subPixelHeight,
		pix:            make([]Color, subPixelHeight*termWidth),
		prevLit:        make([]bool, termHeight*termWidth),
		logicalWidth:   logicalWidth,
		logicalHeight:  logicalHeight,
		scaleX:         float64(termWidth) / logicalWidth,
		scaleY:         float64(subPixelHeight) / logicalHeight,
	}
}

// Resize updates the canvas for new terminal dimensions while keeping
// the logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	subPixelHeight := termHeight * 2
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pix = make([]Color, subPixelHeight*termWidth)
		c.prevLit = make([]bool, termHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// LogicalWidth returns the logical width of the drawing space.
func (c *Canvas) LogicalWidth() float64 { return c.logicalWidth }

// LogicalHeight returns the logical height of the drawing space.
func (c *Canvas) LogicalHeight() float64 { return c.logicalHeight }

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// Clear resets all pixels to black.
func (c *Canvas) Clear() {
	clear(c.pix)
}

// blendPixel combines src into the framebuffer at terminal pixel (x, y).
func (c *Canvas) blendPixel(x, y int, src Color, mode BlendMode) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return
	}
	a := clamp01(src.A)
	if a <= 0 {
		return
	}
	i := y*c.termWidth + x
	d := c.pix[i]
	switch mode {
	case BlendScreen:
		// screen(d, s*a) = 1 - (1-d)(1-s*a)
		d.R = 1 - (1-d.R)*(1-src.R*a)
		d.G = 1 - (1-d.G)*(1-src.G*a)
		d.B = 1 - (1-d.B)*(1-src.B*a)
	default:
		d.R = d.R*(1-a) + src.R*a
		d.G = d.G*(1-a) + src.G*a
		d.B = d.B*(1-a) + src.B*a
	}
	d.A = 1
	c.pix[i] = d
}

// SetFloat blends a single pixel at float logical coordinates.
func (c *Canvas) SetFloat(x, y float64, col Color, mode BlendMode) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	c.blendPixel(px, py, col, mode)
}

// FillRect fills an axis-aligned rectangle given in logical coordinates.
// At terminal scale a sub-pixel rectangle still lights its nearest pixel.
func (c *Canvas) FillRect(x, y, w, h float64, col Color, mode BlendMode) {
	x1 := int(math.Round(x * c.scaleX))
	y1 := int(math.Round(y * c.scaleY))
	x2 := int(math.Round((x + w) * c.scaleX))
	y2 := int(math.Round((y + h) * c.scaleY))
	if x2 <= x1 {
		x2 = x1 + 1
	}
	if y2 <= y1 {
		y2 = y1 + 1
	}
	for py := y1; py < y2; py++ {
		for px := x1; px < x2; px++ {
			c.blendPixel(px, py, col, mode)
		}
	}
}

// FillCircle fills a circle centered at (cx, cy) with logical radius r.
func (c *Canvas) FillCircle(cx, cy, r float64, col Color, mode BlendMode) {
	c.gradientCircle(cx, cy, r, func(float64) Color { return col }, mode)
}

// RadialGradient fills a circle whose color fades from inner at the
// center to outer at the rim. Alpha interpolates along with the color.
func (c *Canvas) RadialGradient(cx, cy, r float64, inner, outer Color, mode BlendMode) {
	c.gradientCircle(cx, cy, r, func(t float64) Color { return inner.Lerp(outer, t) }, mode)
}

// ThreeStopGradient fills a circle through three color stops: a at the
// center, b at mid (normalized radius in (0,1)), c at the rim.
func (cv *Canvas) ThreeStopGradient(cx, cy, r float64, a, b, c Color, mid float64, mode BlendMode) {
	cv.gradientCircle(cx, cy, r, func(t float64) Color {
		if t < mid {
			return a.Lerp(b, t/mid)
		}
		return b.Lerp(c, (t-mid)/(1-mid))
	}, mode)
}

// gradientCircle rasterizes a circle in pixel space, sampling the color
// ramp by normalized distance from the center.
func (c *Canvas) gradientCircle(cx, cy, r float64, ramp func(t float64) Color, mode BlendMode) {
	if r <= 0 {
		return
	}
	pcx := cx * c.scaleX
	pcy := cy * c.scaleY
	prx := r * c.scaleX
	pry := r * c.scaleY
	x1 := int(math.Floor(pcx - prx))
	x2 := int(math.Ceil(pcx + prx))
	y1 := int(math.Floor(pcy - pry))
	y2 := int(math.Ceil(pcy + pry))
	// Tiny circles still light their nearest pixel.
	if x2-x1 < 1 && y2-y1 < 1 {
		c.blendPixel(int(math.Round(pcx)), int(math.Round(pcy)), ramp(0), mode)
		return
	}
	for py := y1; py <= y2; py++ {
		for px := x1; px <= x2; px++ {
			dx := (float64(px) + 0.5 - pcx) / prx
			dy := (float64(py) + 0.5 - pcy) / pry
			t := math.Sqrt(dx*dx + dy*dy)
			if t > 1 {
				continue
			}
			c.blendPixel(px, py, ramp(t), mode)
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, col Color, mode BlendMode) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.blendPixel(x1, y1, col, mode)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawBeam draws a line with a soft edge: a bright core with dimmer
// parallel strands offset perpendicular to the beam direction.
func (c *Canvas) DrawBeam(p1, p2 Point, width float64, col Color, mode BlendMode) {
	c.DrawLine(p1, p2, col, mode)
	if width <= 1 {
		return
	}
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return
	}
	// Perpendicular unit vector
	nx := -dy / length
	ny := dx / length
	edge := col.WithAlpha(col.A * 0.45)
	for off := 1.0; off <= width/2; off++ {
		c.DrawLine(Point{p1.X + nx*off, p1.Y + ny*off}, Point{p2.X + nx*off, p2.Y + ny*off}, edge, mode)
		c.DrawLine(Point{p1.X - nx*off, p1.Y - ny*off}, Point{p2.X - nx*off, p2.Y - ny*off}, edge, mode)
	}
}

// FillPolygon fills a polygon using the scanline algorithm.
// Works in pixel space for proper scaling.
func (c *Canvas) FillPolygon(points []Point, col Color, mode BlendMode) {
	if len(points) < 3 {
		return
	}

	// Reuse or grow scaled points buffer
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.blendPixel(x, y, col, mode)
			}
		}
	}

	// Outline so thin shapes stay visible at low terminal resolutions
	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], col, mode)
	}
}

// DrawSprite blits a sprite centered at (cx, cy) in logical space,
// scaled so each sprite cell covers scale logical pixels, rotated by
// angle radians. Samples by inverse mapping so rotation leaves no holes.
func (c *Canvas) DrawSprite(s *Sprite, cx, cy, scale, angle float64, alpha float64, mode BlendMode) {
	if s == nil || s.W == 0 || s.H == 0 || scale <= 0 {
		return
	}
	// Destination bounding radius in logical units
	half := scale * math.Sqrt(float64(s.W*s.W+s.H*s.H)) / 2
	x1 := int(math.Floor((cx - half) * c.scaleX))
	x2 := int(math.Ceil((cx + half) * c.scaleX))
	y1 := int(math.Floor((cy - half) * c.scaleY))
	y2 := int(math.Ceil((cy + half) * c.scaleY))

	sin, cos := math.Sincos(-angle)
	for py := y1; py <= y2; py++ {
		for px := x1; px <= x2; px++ {
			// Pixel center back to logical space, relative to sprite center
			lx := (float64(px)+0.5)/c.scaleX - cx
			ly := (float64(py)+0.5)/c.scaleY - cy
			// Un-rotate and scale into sprite cell coordinates
			sx := (lx*cos - ly*sin) / scale
			sy := (lx*sin + ly*cos) / scale
			col := s.At(int(math.Floor(sx+float64(s.W)/2)), int(math.Floor(sy+float64(s.H)/2)))
			if col.A <= 0 {
				continue
			}
			c.blendPixel(px, py, col.WithAlpha(col.A*alpha), mode)
		}
	}
}

// luminance threshold below which a pixel renders as unlit background.
const dimCutoff = 0.02

// maxChunkSize is the maximum bytes to write at once for optimal network
// flow. 1400 bytes stays under typical MTU for smooth SSH transmission.
const maxChunkSize = 1400

// Render outputs the canvas to the writer using half-block characters
// with truecolor foreground (top sub-pixel) and background (bottom).
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 24)

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := (row*2 + 1) * c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pix[topOffset+col]
			var bottom Color
			if row*2+1 < c.subPixelHeight {
				bottom = c.pix[bottomOffset+col]
			}

			cellLit := lit(top) || lit(bottom)
			cell := row*c.termWidth + col
			if !cellLit {
				// Erase cells that went dark since the last frame;
				// skip cells that were already empty.
				if c.prevLit[cell] {
					c.moveTo(col+1+c.offsetCol, row+1+c.offsetRow)
					c.renderBuf.WriteString("\033[0m ")
					c.prevLit[cell] = false
				}
				continue
			}
			c.prevLit[cell] = true

			c.moveTo(col+1+c.offsetCol, row+1+c.offsetRow)
			c.sgr(38, top)
			c.sgr(48, bottom)
			c.renderBuf.WriteRune('▀')
			c.renderBuf.WriteString("\033[0m")
		}
	}

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func lit(c Color) bool {
	return c.R > dimCutoff || c.G > dimCutoff || c.B > dimCutoff
}

// ForceRedraw drops the previous-frame lit state. Call after a full
// terminal clear so the next Render repaints without stale erase skips.
func (c *Canvas) ForceRedraw() {
	clear(c.prevLit)
}

// moveTo appends an ANSI cursor position sequence without allocating.
func (c *Canvas) moveTo(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// sgr appends a truecolor SGR sequence; base 38 sets foreground, 48 background.
func (c *Canvas) sgr(base int, col Color) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(base), 10))
	c.renderBuf.WriteString(";2;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(channel(col.R)), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(channel(col.G)), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(channel(col.B)), 10))
	c.renderBuf.WriteByte('m')
}

func channel(v float64) int {
	i := int(math.Round(clamp01(v) * 255))
	return i
}

// RenderBorder draws a box border around the canvas area when the
// terminal exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	buf.Grow((c.termWidth+2)*2 + c.termHeight*2*12)

	if hasV {
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, strings.Repeat("─", c.termWidth))
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, strings.Repeat("─", c.termWidth))
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, strings.Repeat("─", c.termWidth))
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, strings.Repeat("─", c.termWidth))
		}
	}

	if hasH {
		startRow := top + 1
		endRow := bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}

	io.WriteString(w, buf.String())
}

// LogicalToTerminal converts logical coordinates to a 1-based terminal
// position (col, row). Useful for placing text overlays at positions
// matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}
