package vmath

// Rand is the random source consumed by layout and spawn code
type Rand interface {
	Float64() float64
	Intn(n int) int
	Range(lo, hi float64) float64
}

// SeededRand is the linear congruential generator used for reproducible sky layouts
// seed = (seed*9301 + 49297) % 233280
type SeededRand struct {
	seed int64
}

func NewSeededRand(seed int64) *SeededRand {
	if seed < 0 {
		seed = -seed
	}
	return &SeededRand{seed: seed % lcgModulus}
}

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// Float64 returns the next value in [0, 1)
func (r *SeededRand) Float64() float64 {
	r.seed = (r.seed*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(r.seed) / lcgModulus
}

func (r *SeededRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Float64() * float64(n))
}

func (r *SeededRand) Range(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// FastRand is a xorshift64 generator for runtime spawning
type FastRand struct {
	state uint64
}

func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Float64 returns a value in [0, 1) from the top 53 bits
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

func (r *FastRand) Range(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
