package util

import "math/rand"

// Source is the single random stream a battle draws from. *rand.Rand
// satisfies it; Read lets the same stream mint agent ids.
type Source interface {
	Float64() float64
	Intn(n int) int
	Read(p []byte) (int, error)
}

func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// Between returns an int in [min, max], both ends inclusive.
func Between(r Source, min, max int) int {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min+1)
}

// Range returns a float in [min, max).
func Range(r Source, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + r.Float64()*(max-min)
}
