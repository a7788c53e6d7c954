package pdb

import (
	"fmt"
	"math"
)

// Coords represents a position in 3-dimensional space.
type Coords struct {
	X, Y, Z float64
}

func (c Coords) Add(o Coords) Coords {
	return Coords{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

func (c Coords) Sub(o Coords) Coords {
	return Coords{c.X - o.X, c.Y - o.Y, c.Z - o.Z}
}

func (c Coords) Scale(s float64) Coords {
	return Coords{c.X * s, c.Y * s, c.Z * s}
}

func (c Coords) Dot(o Coords) float64 {
	return c.X*o.X + c.Y*o.Y + c.Z*o.Z
}

func (c Coords) Cross(o Coords) Coords {
	return Coords{
		c.Y*o.Z - c.Z*o.Y,
		c.Z*o.X - c.X*o.Z,
		c.X*o.Y - c.Y*o.X,
	}
}

func (c Coords) Norm() float64 {
	return math.Sqrt(c.Dot(c))
}

// Unit returns the unit vector pointing in the same direction as c. If c has
// (nearly) zero length, the zero vector is returned.
func (c Coords) Unit() Coords {
	n := c.Norm()
	if n < 1e-12 {
		return Coords{}
	}
	return c.Scale(1 / n)
}

// Dist returns the Euclidean distance between c and o.
func (c Coords) Dist(o Coords) float64 {
	return math.Sqrt(c.Dist2(o))
}

// Dist2 returns the squared Euclidean distance between c and o. It is
// preferred over Dist in inner loops, since it avoids the square root.
func (c Coords) Dist2(o Coords) float64 {
	dx, dy, dz := c.X-o.X, c.Y-o.Y, c.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

func (c Coords) String() string {
	return fmt.Sprintf("%0.3f %0.3f %0.3f", c.X, c.Y, c.Z)
}
