package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/roversim/internal/geom"
)

// TrajectorySVG renders a driven path on the ground plane as an SVG
// polyline, auto-scaled to the path bounds. World +X maps right and
// +Z maps up, matching the live view.
func TrajectorySVG(points []geom.Vec3, width, height int) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minZ, maxZ := points[0].Z, points[0].Z
	for _, p := range points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minZ = min(minZ, p.Z)
		maxZ = max(maxZ, p.Z)
	}

	rangeX := maxX - minX
	rangeZ := maxZ - minZ
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeZ == 0 {
		rangeZ = 1
	}
	minX -= rangeX * 0.1
	minZ -= rangeZ * 0.1
	rangeX *= 1.2
	rangeZ *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="#00ccff" stroke-width="1.5" d="M`,
		width, height, width, height))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Z-minZ)/rangeZ*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}
