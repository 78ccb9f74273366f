// Package render draws derived views as static images.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"techtree-backend/application/services"
)

const (
	canvasPadding = 20
	cornerRadius  = 6
	nodeFill      = "#ffffff"
	labelColor    = "#111827"
	subtleColor   = "#6b7280"
	backdrop      = "#f9fafb"
)

// SVG renders a DerivedView: rounded boxes bordered by category color,
// a ring around the focused node and arrowed edges from right to left handles.
func SVG(w io.Writer, view *services.DerivedView) error {
	if view == nil {
		return fmt.Errorf("render: nil view")
	}

	width := int(math.Ceil(view.Bounds.Width)) + 2*canvasPadding
	height := int(math.Ceil(view.Bounds.Height)) + 2*canvasPadding

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+backdrop)
	canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", canvasPadding, canvasPadding))

	byID := make(map[string]services.ViewNode, len(view.Nodes))
	for _, n := range view.Nodes {
		byID[n.ID] = n
	}

	for _, e := range view.Edges {
		from, ok := byID[e.Source]
		if !ok {
			continue
		}
		to, ok := byID[e.Target]
		if !ok {
			continue
		}
		drawEdge(canvas, e, from, to)
	}

	for _, n := range view.Nodes {
		drawNode(canvas, n)
	}

	canvas.Gend()
	canvas.End()
	return nil
}

func drawEdge(canvas *svg.SVG, e services.ViewEdge, from, to services.ViewNode) {
	x1 := int(from.Position.X + from.Width)
	y1 := int(from.Position.Y + from.Height/2)
	x2 := int(to.Position.X)
	y2 := int(to.Position.Y + to.Height/2)

	canvas.Line(x1, y1, x2, y2,
		fmt.Sprintf("stroke:%s;stroke-width:%d", e.Style.Stroke, max(e.Style.StrokeWidth, 1)))

	// Closed arrow along the edge direction, tip on the target handle.
	length := float64(max(e.MarkerEnd.Width, 10)) / 2
	half := float64(max(e.MarkerEnd.Height, 10)) / 4
	dx, dy := float64(x2-x1), float64(y2-y1)
	d := math.Hypot(dx, dy)
	if d == 0 {
		return
	}
	ux, uy := dx/d, dy/d
	bx, by := float64(x2)-ux*length, float64(y2)-uy*length
	canvas.Polygon(
		[]int{x2, int(bx - uy*half), int(bx + uy*half)},
		[]int{y2, int(by + ux*half), int(by - ux*half)},
		"fill:"+e.MarkerEnd.Color,
	)
}

func drawNode(canvas *svg.SVG, n services.ViewNode) {
	x, y := int(n.Position.X), int(n.Position.Y)
	w, h := int(n.Width), int(n.Height)

	if ring := ringColor(n.Style.BoxShadow); ring != "" {
		canvas.Roundrect(x-3, y-3, w+6, h+6, cornerRadius+2, cornerRadius+2,
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", ring))
	}
	canvas.Roundrect(x, y, w, h, cornerRadius, cornerRadius,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%d", nodeFill, n.Style.BorderColor, max(n.Style.BorderWidth, 1)))

	canvas.Text(x+w/2, y+h/2, truncate(n.Label, 22),
		fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif;text-anchor:middle;font-weight:%s", labelColor, n.Style.FontWeight))
	if n.TRL != nil {
		canvas.Text(x+w/2, y+h-6, fmt.Sprintf("TRL %d", *n.TRL),
			fmt.Sprintf("fill:%s;font-size:9px;font-family:sans-serif;text-anchor:middle", subtleColor))
	}
}

// ringColor pulls the color out of a CSS box-shadow such as "0 0 0 2px #f97316".
func ringColor(shadow string) string {
	if shadow == "" || shadow == "none" {
		return ""
	}
	fields := strings.Fields(shadow)
	return fields[len(fields)-1]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
