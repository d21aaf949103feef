package sonarsim

// dbscanNoise and dbscanUnvisited are the label sentinels for a polar bin
// during DBSCAN. 0 means unvisited, -1 means noise, and any positive value
// is a cluster id.
const dbscanNoise = -1
const dbscanUnvisited = 0

// binAIdx and binRIdx recover a flat index's angle/range bin coordinates,
// per the frame's `index = aIdx*R + rIdx` layout.
func binAIdx(i int) int { return i / ImagingRangeBins }
func binRIdx(i int) int { return i % ImagingRangeBins }

// dbscanPolar clusters the on-cells of mask in polar-bin space, per spec
// §4.4 step 4b: neighbors are cells within epsBins Euclidean distance in
// (angleBin, rangeBin) space, with the standard core/border/noise
// classification. Writes one label per cell into frame.Labels (same length
// as mask, reused rather than reallocated) and returns the number of
// clusters found. Labels are 1-based; dbscanNoise (-1) marks cells that
// never joined a cluster. frame.dbscanPoints/dbscanSeeds are the function's
// own working storage, persisted on frame and reused across calls instead
// of being reallocated every kernel-retry iteration.
func dbscanPolar(frame *Frame, mask []bool, epsBins float64, minPts int) int {
	labels := frame.Labels
	for i := range labels {
		labels[i] = dbscanUnvisited
	}

	points := frame.dbscanPoints[:0]
	for i, on := range mask {
		if on {
			points = append(points, i)
		}
	}

	index := newPolarGridIndex(points, epsBins)

	clusterID := 0
	seeds := frame.dbscanSeeds[:0]

	for _, p := range points {
		if labels[p] != dbscanUnvisited {
			continue
		}
		neighbors := index.query(p, epsBins)
		if len(neighbors) < minPts {
			labels[p] = dbscanNoise
			continue
		}

		clusterID++
		labels[p] = clusterID

		seeds = seeds[:0]
		seeds = append(seeds, neighbors...)

		for len(seeds) > 0 {
			q := seeds[len(seeds)-1]
			seeds = seeds[:len(seeds)-1]

			if labels[q] == dbscanNoise {
				labels[q] = clusterID
				continue // border point: joins the cluster but does not expand it further
			}
			if labels[q] != dbscanUnvisited {
				continue
			}
			labels[q] = clusterID

			qNeighbors := index.query(q, epsBins)
			if len(qNeighbors) >= minPts {
				seeds = append(seeds, qNeighbors...)
			}
		}
	}

	frame.dbscanPoints = points
	frame.dbscanSeeds = seeds
	return clusterID
}

// polarGridIndex buckets polar bins into eps-sized cells so neighbor queries
// only scan the 3x3 neighborhood of buckets around a point, instead of every
// other on-cell in the frame.
type polarGridIndex struct {
	cellSize float64
	buckets  map[[2]int][]int
}

func newPolarGridIndex(points []int, eps float64) *polarGridIndex {
	idx := &polarGridIndex{
		cellSize: eps,
		buckets:  make(map[[2]int][]int, len(points)),
	}
	for _, p := range points {
		key := idx.bucketKey(p)
		idx.buckets[key] = append(idx.buckets[key], p)
	}
	return idx
}

func (idx *polarGridIndex) bucketKey(p int) [2]int {
	a := int(float64(binAIdx(p)) / idx.cellSize)
	r := int(float64(binRIdx(p)) / idx.cellSize)
	return [2]int{a, r}
}

// query returns p's eps-neighborhood. The returned slice is small bounded
// scratch (a single cluster's local neighbor list), sanctioned by spec §5
// alongside the cluster-stats vector and matching pair list.
func (idx *polarGridIndex) query(p int, eps float64) []int {
	pa, pr := float64(binAIdx(p)), float64(binRIdx(p))
	epsSq := eps * eps

	key := idx.bucketKey(p)
	var out []int
	for da := -1; da <= 1; da++ {
		for dr := -1; dr <= 1; dr++ {
			bucket := idx.buckets[[2]int{key[0] + da, key[1] + dr}]
			for _, q := range bucket {
				da := float64(binAIdx(q)) - pa
				dr := float64(binRIdx(q)) - pr
				if da*da+dr*dr <= epsSq {
					out = append(out, q)
				}
			}
		}
	}
	return out
}
