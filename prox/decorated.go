package prox

import "github.com/kaymccoy/Mosaist/pdb"

// Decorated is a Search whose points carry an arbitrary payload of type T
// instead of a plain integer tag. Payloads live in a side table parallel to
// the base index's tag array; the base tag of each point is its index into
// that table.
type Decorated[T any] struct {
	*Search
	data []T
}

// NewDecorated creates an empty Decorated index over the given extent with
// n buckets per axis.
func NewDecorated[T any](xlo, ylo, zlo, xhi, yhi, zhi float64, n int) *Decorated[T] {
	return &Decorated[T]{Search: New(xlo, ylo, zlo, xhi, yhi, zhi, n)}
}

// NewDecoratedWithPoints creates a Decorated index covering the given
// points (padded by pad, bucket width ≈ dist) and inserts each point with
// its parallel payload.
func NewDecoratedWithPoints[T any](points []pdb.Coords, data []T, dist, pad float64) *Decorated[T] {
	d := &Decorated[T]{
		Search: NewWithDistance(points, nil, dist, pad),
		data:   make([]T, len(points)),
	}
	copy(d.data, data)
	return d
}

// Add inserts a point with its payload.
func (d *Decorated[T]) Add(p pdb.Coords, data T) {
	d.Search.Add(p, len(d.data))
	d.data = append(d.data, data)
}

// Data returns the payload of the i'th inserted point.
func (d *Decorated[T]) Data(i int) T {
	return d.data[d.Search.Tag(i)]
}

// DataWithin returns the payloads of all points within [dmin, dmax] of c.
// A payload appears once per matching point, so payloads shared by several
// points can repeat.
func (d *Decorated[T]) DataWithin(c pdb.Coords, dmin, dmax float64) []T {
	var found []T
	d.Search.within(c, dmin, dmax, func(idx int) {
		found = append(found, d.data[d.Search.tags[idx]])
	})
	return found
}
