// Package prox implements a uniform-grid spatial index over 3D points with
// shell (radius range) queries. Query cost is proportional to the local
// point density near the query center, not to the total number of points.
package prox

import (
	"fmt"
	"math"

	"github.com/kaymccoy/Mosaist/pdb"
)

// maxBuckets caps the grid resolution per axis when it is derived from a
// characteristic distance, so that tiny distances over large extents do not
// allocate absurd bucket counts.
const maxBuckets = 50

// Search is an N×N×N bucket grid over a fixed spatial extent. Every
// inserted point lives in exactly one bucket consistent with its
// coordinates and the grid's bin widths. Points may coincide in location.
//
// The bucket count affects only performance: a Search built with n=1
// degenerates to brute-force linear scan and returns exactly the same
// query results as any larger n on the same data.
type Search struct {
	n                            int
	xlo, ylo, zlo, xhi, yhi, zhi float64
	xbw, ybw, zbw                float64

	// Each bucket holds indices into points/tags. The buckets slice is a
	// flat n*n*n array indexed as i + j*n + k*n*n.
	buckets [][]int
	points  []pdb.Coords
	tags    []int
}

// New creates an empty Search over the given extent with n buckets per
// axis. New panics if the extent is inverted or n < 1; the grid geometry is
// a programmer-supplied constant, not input data.
func New(xlo, ylo, zlo, xhi, yhi, zhi float64, n int) *Search {
	if n < 1 {
		panic(fmt.Sprintf("A proximity grid needs at least one bucket "+
			"per axis, but %d were requested.", n))
	}
	if xhi < xlo || yhi < ylo || zhi < zlo {
		panic(fmt.Sprintf("The proximity grid extent [%f %f %f] - "+
			"[%f %f %f] is inverted.", xlo, ylo, zlo, xhi, yhi, zhi))
	}
	s := &Search{
		n:   n,
		xlo: xlo, ylo: ylo, zlo: zlo,
		xhi: xhi, yhi: yhi, zhi: zhi,
		buckets: make([][]int, n*n*n),
	}
	s.setBinWidths()
	return s
}

// NewWithPoints creates a Search whose extent covers the given points,
// padded symmetrically by pad on all sides, with n buckets per axis. All
// points are inserted. If tags is nil, each point is tagged with its own
// index; otherwise tags must be parallel to points.
func NewWithPoints(points []pdb.Coords, tags []int, n int, pad float64) *Search {
	xlo, ylo, zlo, xhi, yhi, zhi := Extent(points)
	s := New(xlo-pad, ylo-pad, zlo-pad, xhi+pad, yhi+pad, zhi+pad, n)
	s.addAll(points, tags)
	return s
}

// NewWithDistance is like NewWithPoints, but sizes the grid so that the
// bucket width is approximately the given characteristic distance. Queries
// with dmax near that distance then touch only a handful of adjacent
// buckets.
func NewWithDistance(points []pdb.Coords, tags []int, dist, pad float64) *Search {
	xlo, ylo, zlo, xhi, yhi, zhi := Extent(points)
	xlo, ylo, zlo = xlo-pad, ylo-pad, zlo-pad
	xhi, yhi, zhi = xhi+pad, yhi+pad, zhi+pad

	span := math.Max(xhi-xlo, math.Max(yhi-ylo, zhi-zlo))
	n := 1
	if dist > 0 && span > 0 {
		n = int(math.Ceil(span / dist))
		if n < 1 {
			n = 1
		}
		if n > maxBuckets {
			n = maxBuckets
		}
	}
	s := New(xlo, ylo, zlo, xhi, yhi, zhi, n)
	s.addAll(points, tags)
	return s
}

// Extent computes the axis-aligned bounding box of a point set. An empty
// point set yields a degenerate box at the origin.
func Extent(points []pdb.Coords) (xlo, ylo, zlo, xhi, yhi, zhi float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0, 0, 0
	}
	p := points[0]
	xlo, ylo, zlo = p.X, p.Y, p.Z
	xhi, yhi, zhi = p.X, p.Y, p.Z
	for _, p := range points[1:] {
		xlo, ylo, zlo = math.Min(xlo, p.X), math.Min(ylo, p.Y), math.Min(zlo, p.Z)
		xhi, yhi, zhi = math.Max(xhi, p.X), math.Max(yhi, p.Y), math.Max(zhi, p.Z)
	}
	return xlo, ylo, zlo, xhi, yhi, zhi
}

func (s *Search) addAll(points []pdb.Coords, tags []int) {
	if tags != nil && len(tags) != len(points) {
		panic(fmt.Sprintf("A tag list given to a proximity grid must be "+
			"parallel to its point list, but their lengths are %d and %d.",
			len(tags), len(points)))
	}
	for i, p := range points {
		tag := i
		if tags != nil {
			tag = tags[i]
		}
		s.Add(p, tag)
	}
}

// setBinWidths derives the per-axis bucket widths from the extent. A zero
// width axis (single plane of points) gets a nominal width so that
// bucketing stays well defined.
func (s *Search) setBinWidths() {
	s.xbw = (s.xhi - s.xlo) / float64(s.n)
	s.ybw = (s.yhi - s.ylo) / float64(s.n)
	s.zbw = (s.zhi - s.zlo) / float64(s.n)
	if s.xbw == 0 {
		s.xbw = 1
	}
	if s.ybw == 0 {
		s.ybw = 1
	}
	if s.zbw == 0 {
		s.zbw = 1
	}
}

// Add inserts a point with an integer tag. Add panics if the point lies
// outside the grid extent; the extent is fixed at construction, so adding
// an outside point is a programming error, not a data error.
func (s *Search) Add(p pdb.Coords, tag int) {
	if !s.Contains(p) {
		panic(fmt.Sprintf("The point (%s) lies outside the proximity grid "+
			"extent [%f %f %f] - [%f %f %f].",
			p, s.xlo, s.ylo, s.zlo, s.xhi, s.yhi, s.zhi))
	}
	i, j, k := s.bucketOf(p)
	b := i + j*s.n + k*s.n*s.n
	s.buckets[b] = append(s.buckets[b], len(s.points))
	s.points = append(s.points, p)
	s.tags = append(s.tags, tag)
}

// Contains returns true if the point lies within the grid extent.
func (s *Search) Contains(p pdb.Coords) bool {
	return p.X >= s.xlo && p.X <= s.xhi &&
		p.Y >= s.ylo && p.Y <= s.yhi &&
		p.Z >= s.zlo && p.Z <= s.zhi
}

// bucketOf maps a point to bucket coordinates, clamped to the grid.
func (s *Search) bucketOf(p pdb.Coords) (i, j, k int) {
	i = clamp(int((p.X-s.xlo)/s.xbw), s.n)
	j = clamp(int((p.Y-s.ylo)/s.ybw), s.n)
	k = clamp(int((p.Z-s.zlo)/s.zbw), s.n)
	return i, j, k
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Len returns the number of points in the index.
func (s *Search) Len() int {
	return len(s.points)
}

// Point returns the i'th inserted point.
func (s *Search) Point(i int) pdb.Coords {
	return s.points[i]
}

// Tag returns the tag of the i'th inserted point.
func (s *Search) Tag(i int) int {
	return s.tags[i]
}

// Min returns the lower corner of the grid extent.
func (s *Search) Min() pdb.Coords {
	return pdb.Coords{X: s.xlo, Y: s.ylo, Z: s.zlo}
}

// Max returns the upper corner of the grid extent.
func (s *Search) Max() pdb.Coords {
	return pdb.Coords{X: s.xhi, Y: s.yhi, Z: s.zhi}
}

// Within returns the indices of all points whose Euclidean distance to c
// lies in [dmin, dmax]. Only buckets intersecting the query shell are
// visited; candidates are then filtered by exact distance. A query shell
// entirely outside the grid extent returns nil, never an error.
func (s *Search) Within(c pdb.Coords, dmin, dmax float64) []int {
	var found []int
	s.within(c, dmin, dmax, func(idx int) {
		found = append(found, idx)
	})
	return found
}

// TagsWithin is like Within, but returns the tags of the matching points
// instead of their indices.
func (s *Search) TagsWithin(c pdb.Coords, dmin, dmax float64) []int {
	var found []int
	s.within(c, dmin, dmax, func(idx int) {
		found = append(found, s.tags[idx])
	})
	return found
}

func (s *Search) within(c pdb.Coords, dmin, dmax float64, visit func(int)) {
	if dmax < dmin || dmax < 0 {
		return
	}

	// Bucket range covered by the bounding box of the outer query sphere.
	ilo := clamp(int((c.X-dmax-s.xlo)/s.xbw), s.n)
	ihi := clamp(int((c.X+dmax-s.xlo)/s.xbw), s.n)
	jlo := clamp(int((c.Y-dmax-s.ylo)/s.ybw), s.n)
	jhi := clamp(int((c.Y+dmax-s.ylo)/s.ybw), s.n)
	klo := clamp(int((c.Z-dmax-s.zlo)/s.zbw), s.n)
	khi := clamp(int((c.Z+dmax-s.zlo)/s.zbw), s.n)

	// Reject queries that cannot touch the grid at all.
	if c.X+dmax < s.xlo || c.X-dmax > s.xhi ||
		c.Y+dmax < s.ylo || c.Y-dmax > s.yhi ||
		c.Z+dmax < s.zlo || c.Z-dmax > s.zhi {
		return
	}

	dmin2, dmax2 := dmin*dmin, dmax*dmax
	for k := klo; k <= khi; k++ {
		for j := jlo; j <= jhi; j++ {
			for i := ilo; i <= ihi; i++ {
				bucket := s.buckets[i+j*s.n+k*s.n*s.n]
				if len(bucket) == 0 {
					continue
				}
				if !s.bucketIntersectsShell(i, j, k, c, dmin2, dmax2) {
					continue
				}
				for _, idx := range bucket {
					d2 := s.points[idx].Dist2(c)
					if d2 >= dmin2 && d2 <= dmax2 {
						visit(idx)
					}
				}
			}
		}
	}
}

// bucketIntersectsShell tests whether the axis-aligned box of bucket
// (i,j,k) intersects the spherical shell [dmin, dmax] around c, using
// squared distances from c to the box's nearest and farthest points.
func (s *Search) bucketIntersectsShell(i, j, k int, c pdb.Coords, dmin2, dmax2 float64) bool {
	xlo := s.xlo + float64(i)*s.xbw
	ylo := s.ylo + float64(j)*s.ybw
	zlo := s.zlo + float64(k)*s.zbw

	near := axisDist(c.X, xlo, xlo+s.xbw)
	nearest := near * near
	far := axisFar(c.X, xlo, xlo+s.xbw)
	farthest := far * far

	near = axisDist(c.Y, ylo, ylo+s.ybw)
	nearest += near * near
	far = axisFar(c.Y, ylo, ylo+s.ybw)
	farthest += far * far

	near = axisDist(c.Z, zlo, zlo+s.zbw)
	nearest += near * near
	far = axisFar(c.Z, zlo, zlo+s.zbw)
	farthest += far * far

	return nearest <= dmax2 && farthest >= dmin2
}

// axisDist is the 1D distance from x to the interval [lo, hi]; zero when x
// lies inside it.
func axisDist(x, lo, hi float64) float64 {
	if x < lo {
		return lo - x
	}
	if x > hi {
		return x - hi
	}
	return 0
}

// axisFar is the 1D distance from x to the farther end of [lo, hi].
func axisFar(x, lo, hi float64) float64 {
	return math.Max(math.Abs(x-lo), math.Abs(hi-x))
}

// Overlaps reports whether the bounding boxes of two independently built
// indexes intersect when each is padded symmetrically by pad. It lets two
// indexes decide, without merging, whether their contents could possibly
// interact.
func (s *Search) Overlaps(other *Search, pad float64) bool {
	return s.xlo-pad <= other.xhi+pad && other.xlo-pad <= s.xhi+pad &&
		s.ylo-pad <= other.yhi+pad && other.ylo-pad <= s.yhi+pad &&
		s.zlo-pad <= other.zhi+pad && other.zlo-pad <= s.zhi+pad
}
