package integrator

import (
	"math"

	"github.com/mpry/go-vcm-renderer/pkg/core"
)

// hashGrid indexes light vertices by position for range queries during
// vertex merging. It is rebuilt every iteration because the merge radius
// shrinks progressively.
type hashGrid struct {
	invCellSize float64
	radiusSqr   float64
	cells       map[gridCell][]int32
}

type gridCell struct {
	x, y, z int32
}

// newHashGrid builds a grid over the given vertices with cells sized to
// the query radius
func newHashGrid(vertices []lightVertex, radius float64) *hashGrid {
	g := &hashGrid{
		invCellSize: 1.0 / radius,
		radiusSqr:   radius * radius,
		cells:       make(map[gridCell][]int32, len(vertices)),
	}

	for i := range vertices {
		cell := g.cellOf(vertices[i].hitPoint)
		g.cells[cell] = append(g.cells[cell], int32(i))
	}

	return g
}

func (g *hashGrid) cellOf(p core.Vec3) gridCell {
	return gridCell{
		x: int32(math.Floor(p.X * g.invCellSize)),
		y: int32(math.Floor(p.Y * g.invCellSize)),
		z: int32(math.Floor(p.Z * g.invCellSize)),
	}
}

// forEachNear calls fn for every vertex within the query radius of point
func (g *hashGrid) forEachNear(point core.Vec3, vertices []lightVertex, fn func(*lightVertex)) {
	center := g.cellOf(point)

	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				cell := gridCell{center.x + dx, center.y + dy, center.z + dz}
				for _, idx := range g.cells[cell] {
					v := &vertices[idx]
					if v.hitPoint.Subtract(point).LengthSquared() <= g.radiusSqr {
						fn(v)
					}
				}
			}
		}
	}
}
