package sonarsim

import (
	"sort"

	"github.com/PH-19/sonarscan-sim/internal/simmath"
)

// matchPair is a candidate-track association considered by greedy matching.
type matchPair struct {
	trackIdx     int
	candidateIdx int
	dist         float64
}

// boxIoU computes the intersection-over-union of two axis-aligned squares of
// side SIM_SWIMMER_DIAMETER_M centered on a and b, approximating each
// target's physical footprint for the IoU matching gate of spec §4.8.
func boxIoU(a, b simmath.Vector2) float64 {
	half := SimSwimmerDiameterM / 2
	ax0, ax1 := a.X-half, a.X+half
	ay0, ay1 := a.Y-half, a.Y+half
	bx0, bx1 := b.X-half, b.X+half
	by0, by1 := b.Y-half, b.Y+half

	ix0, iy0 := maxOf(ax0, bx0), maxOf(ay0, by0)
	ix1, iy1 := minOf(ax1, bx1), minOf(ay1, by1)
	iw, ih := ix1-ix0, iy1-iy0
	if iw <= 0 || ih <= 0 {
		return 0
	}
	inter := iw * ih
	union := SimSwimmerDiameterM*SimSwimmerDiameterM*2 - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func minOf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// matchCandidatesToTracks implements spec §4.8's greedy one-to-one matching:
// a candidate-track pair is eligible only if it passes both the distance
// gate (MATCH_GATE_RADIUS_M) and the IoU gate
// (AQUASCAN_IOU_MATCH_THRESHOLD), and eligible pairs are committed in
// ascending distance order, each track and candidate consumed at most once.
// Returns, for each track index, the matched candidate index or -1.
func matchCandidatesToTracks(tracks []*Track, candidates []Candidate) []int {
	assignment := make([]int, len(tracks))
	for i := range assignment {
		assignment[i] = -1
	}

	pairs := make([]matchPair, 0, len(tracks)*len(candidates))
	for ti, tr := range tracks {
		tp := tr.Position()
		for ci, c := range candidates {
			d := tp.Dist(c.Position)
			if d > MatchGateRadiusM {
				continue
			}
			if boxIoU(tp, c.Position) < AquascanIoUMatchThreshold {
				continue
			}
			pairs = append(pairs, matchPair{trackIdx: ti, candidateIdx: ci, dist: d})
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].dist < pairs[j].dist })

	trackTaken := make([]bool, len(tracks))
	candTaken := make([]bool, len(candidates))
	for _, p := range pairs {
		if trackTaken[p.trackIdx] || candTaken[p.candidateIdx] {
			continue
		}
		assignment[p.trackIdx] = p.candidateIdx
		trackTaken[p.trackIdx] = true
		candTaken[p.candidateIdx] = true
	}
	return assignment
}
