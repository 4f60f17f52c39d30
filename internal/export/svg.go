package export

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/procanim/internal/sim"
	"github.com/san-kum/procanim/internal/verlet"
	"github.com/san-kum/procanim/internal/viz"
)

const (
	background = "#0a0a0a"
	exactColor = "#00ff88"
	rangeColor = "#ffaa00"
	nodeColor  = "#ffffff"
	pinColor   = "#ff4444"
	frameColor = "#444466"
)

var trailColors = []string{"#00ccff", "#ff00ff", "#ffff00", "#00ff88", "#ff8800", "#88ff88", "#ff4444"}

type projector struct {
	bounds verlet.Bounds
	size   float32
}

// point maps the XY plane of the bounds into a size x size square with Y up.
func (p projector) point(v mgl32.Vec3) (float32, float32) {
	span := p.bounds.Size()
	var x, y float32
	if span.X() > 0 {
		x = (v.X() - p.bounds.Min.X()) / span.X() * p.size
	}
	if span.Y() > 0 {
		y = (p.bounds.Max.Y() - v.Y()) / span.Y() * p.size
	}
	return x, y
}

func header(sb *strings.Builder, size int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<rect x="0.5" y="0.5" width="%d" height="%d" fill="none" stroke="%s"/>
`, size, size, size, size, background, size-1, size-1, frameColor))
}

// SnapshotToSVG draws one snapshot: Exact links solid, Min and Max links
// dashed, pinned particles in red.
func SnapshotToSVG(s verlet.Snapshot, bounds verlet.Bounds, size int) string {
	if size <= 0 {
		return ""
	}
	p := projector{bounds: bounds, size: float32(size)}

	var sb strings.Builder
	header(&sb, size)

	sb.WriteString(`<g stroke-width="1.5">` + "\n")
	for _, seg := range s.Segments {
		x0, y0 := p.point(seg.A)
		x1, y1 := p.point(seg.B)
		if seg.Kind.Mode == verlet.ModeExact {
			sb.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>
`, x0, y0, x1, y1, exactColor))
		} else {
			sb.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-dasharray="4 3"><title>%s</title></line>
`, x0, y0, x1, y1, rangeColor, seg.Kind))
		}
	}
	sb.WriteString("</g>\n<g>\n")

	for i, pos := range s.Positions {
		x, y := p.point(pos)
		fill, r := nodeColor, 2.5
		if i < len(s.Masses) && verlet.IsPinnedMass(s.Masses[i]) {
			fill, r = pinColor, 4
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>
`, x, y, r, fill))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrailsToSVG draws the path of every particle across frames as a
// polyline. Frames with fewer particles than the first are cut short.
func TrailsToSVG(frames []sim.Frame, bounds verlet.Bounds, size int) string {
	if len(frames) < 2 || size <= 0 {
		return ""
	}
	p := projector{bounds: bounds, size: float32(size)}

	var sb strings.Builder
	header(&sb, size)

	for i := range frames[0].Positions {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1" d="`, trailColors[i%len(trailColors)]))
		for j, f := range frames {
			if i >= len(f.Positions) {
				break
			}
			x, y := p.point(f.Positions[i])
			if j == 0 {
				sb.WriteString(fmt.Sprintf("M%.2f,%.2f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.2f,%.2f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a braille canvas to one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.Dots()
	width := float64(w) * scale
	height := float64(h) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background, exactColor))

	dotRadius := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
