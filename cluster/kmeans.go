package cluster

import (
	"math"
	"math/rand"
)

const (
	// Fixed seed so that loading the same file twice yields identical
	// labels per row.
	kmeansSeed    = 42
	maxIterations = 100
)

// Point is one (latitude, longitude) observation.
type Point struct {
	Lat  float64
	Long float64
}

// Assign partitions points into k spatial groups with k-means and returns
// one label per point, in input order. Labels are a function solely of the
// coordinates and the input order; the run is fully deterministic.
func Assign(points []Point, k int) []int {
	labels := make([]int, len(points))
	if len(points) == 0 {
		return labels
	}
	if k < 1 {
		k = 1
	}
	if k > len(points) {
		k = len(points)
	}

	rng := rand.New(rand.NewSource(kmeansSeed))
	centroids := seedCentroids(points, k, rng)

	for iter := 0; iter < maxIterations; iter++ {
		moved := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if labels[i] != best {
				labels[i] = best
				moved = true
			}
		}
		if iter > 0 && !moved {
			break
		}
		recomputeCentroids(points, labels, centroids)
	}
	return labels
}

// seedCentroids picks initial centroids k-means++ style: the first uniformly
// at random, each subsequent one weighted by squared distance to the nearest
// centroid chosen so far.
func seedCentroids(points []Point, k int, rng *rand.Rand) []Point {
	centroids := make([]Point, 0, k)
	centroids = append(centroids, points[rng.Intn(len(points))])

	dist := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			d := squaredDistance(p, centroids[nearestCentroid(p, centroids)])
			dist[i] = d
			total += d
		}
		if total == 0 {
			// All remaining points coincide with a centroid.
			centroids = append(centroids, points[rng.Intn(len(points))])
			continue
		}
		target := rng.Float64() * total
		chosen := len(points) - 1
		var cum float64
		for i, d := range dist {
			cum += d
			if cum >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, points[chosen])
	}
	return centroids
}

func nearestCentroid(p Point, centroids []Point) int {
	best := 0
	bestDist := math.MaxFloat64
	for i, c := range centroids {
		d := squaredDistance(p, c)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// recomputeCentroids moves each centroid to the mean of its members. A
// centroid that lost all members keeps its previous position.
func recomputeCentroids(points []Point, labels []int, centroids []Point) {
	sums := make([]Point, len(centroids))
	counts := make([]int, len(centroids))
	for i, p := range points {
		l := labels[i]
		sums[l].Lat += p.Lat
		sums[l].Long += p.Long
		counts[l]++
	}
	for i := range centroids {
		if counts[i] == 0 {
			continue
		}
		centroids[i] = Point{
			Lat:  sums[i].Lat / float64(counts[i]),
			Long: sums[i].Long / float64(counts[i]),
		}
	}
}

func squaredDistance(a, b Point) float64 {
	dLat := a.Lat - b.Lat
	dLong := a.Long - b.Long
	return dLat*dLat + dLong*dLong
}
