package entity

import (
	"math"

	"github.com/lixenwraith/living-cosmos/vmath"
)

var depthRadii = [3]float64{200, 280, 360}

// ClusterSlot places item i of n on depth rings grouped three to a cluster.
// Returned position is relative to the ring center, before scaling
func ClusterSlot(i, n int, rng vmath.Rand) (offset vmath.Vec2, depth, cluster int) {
	depth = i % 3
	radius := depthRadii[depth] + 40 + rng.Float64()*60

	cluster = i / 3
	clusters := max((n+2)/3, 1)
	clusterAngle := float64(cluster) / float64(clusters) * 2 * math.Pi
	inCluster := i % 3

	const spread = 0.3
	angle := clusterAngle + float64(inCluster-1)*spread*0.5
	angle += (rng.Float64() - 0.5) * 0.2

	return vmath.Polar(angle, radius), depth, cluster
}

// RadialSlot places item i of n on a ring in normalized [0,1] space around (0.5, 0.5)
func RadialSlot(i, n int, phase, minDist, maxDist float64, rng vmath.Rand) vmath.Vec2 {
	angle := float64(i)/float64(max(n, 1))*2*math.Pi + phase
	dist := minDist + rng.Float64()*(maxDist-minDist)
	return vmath.V2(0.5, 0.5).Add(vmath.Polar(angle, dist))
}

// SkyStar is one background star in normalized space
type SkyStar struct {
	Pos        vmath.Vec2
	Vel        vmath.Vec2
	Size       float64
	Depth      int
	Brightness float64
	Speed      float64
	Phase      float64
	PulseSpeed float64
	Class      StarClass
	InBand     bool
}

type StarClass uint8

const (
	WhiteDwarf StarClass = iota
	MainSequence
	BlueGiant
	RedGiant
	Supergiant
)

// SkyConfig shapes the background distribution
type SkyConfig struct {
	Count     int
	Clusters  int
	BandAngle float64 // radians
	BandWidth float64
}

type skyCluster struct {
	center  vmath.Vec2
	radius  float64
	density float64
}

var skySizes = [4]float64{0.3, 0.6, 1.0, 1.5}

// Skyfield generates the background: 40% in clusters, 30% along the band, the rest uniform.
// The same generator state always yields the same sky
func Skyfield(cfg SkyConfig, rng vmath.Rand) []SkyStar {
	clusters := make([]skyCluster, max(cfg.Clusters, 1))
	for i := range clusters {
		clusters[i] = skyCluster{
			center:  vmath.V2(rng.Float64(), rng.Float64()),
			radius:  0.15 + rng.Float64()*0.2,
			density: 0.6 + rng.Float64()*0.4,
		}
	}

	stars := make([]SkyStar, cfg.Count)
	for i := range stars {
		roll := rng.Float64()
		inCluster := roll < 0.4
		inBand := roll >= 0.4 && roll < 0.7

		var p vmath.Vec2
		switch {
		case inCluster:
			c := clusters[rng.Intn(len(clusters))]
			a := rng.Float64() * 2 * math.Pi
			d := rng.Float64() * c.radius * c.density
			p = c.center.Add(vmath.Polar(a, d))
		case inBand:
			p.X = rng.Float64()
			p.Y = p.X*math.Tan(cfg.BandAngle) + 0.5 + (rng.Float64()-0.5)*cfg.BandWidth
		default:
			p = vmath.V2(rng.Float64(), rng.Float64())
		}
		p.X = vmath.Clamp(p.X, 0, 1)
		p.Y = vmath.Clamp(p.Y, 0, 1)

		depth := 0
		dr := rng.Float64()
		if dr > 0.7 {
			depth = 1
		}
		if dr > 0.85 {
			depth = 2
		}
		if dr > 0.95 {
			depth = 3
		}

		size := skySizes[depth] + rng.Float64()*0.8
		if rng.Float64() > 0.97 {
			size += 1.5
		}

		class := MainSequence
		tr := rng.Float64()
		switch {
		case size < 0.8:
			class = WhiteDwarf
		case tr > 0.98:
			class = Supergiant
		case tr > 0.95:
			class = BlueGiant
		case tr > 0.90:
			class = RedGiant
		}

		layer := float64(depth + 1)
		stars[i] = SkyStar{
			Pos:        p,
			Vel:        vmath.V2((rng.Float64()-0.5)*0.0003*layer, (0.001+rng.Float64()*0.002)*layer),
			Size:       size,
			Depth:      depth,
			Brightness: 0.4 + rng.Float64()*0.6,
			Speed:      0.3 + rng.Float64()*1.2,
			Phase:      rng.Float64() * 2 * math.Pi,
			PulseSpeed: 0.5 + rng.Float64()*1.5,
			Class:      class,
			InBand:     inBand,
		}
	}
	return stars
}
