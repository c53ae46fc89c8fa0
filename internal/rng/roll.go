package rng

import "errors"

var ErrInvalidProb = errors.New("invalid probability p; must be 0..1")

// Roll under p, return if it is hit
// p <=0 => no hit. p>= 1 => must hit. otherwise, rng.Float64() < p
func Roll(p float64, src RandomSource) (bool, error) {
	if err := validateProb(p); err != nil {
		return false, err
	}
	if p <= 0 {
		return false, nil
	}
	if p >= 1 {
		return true, nil
	}
	if src == nil {
		src = DefaultRNG()
	}
	return src.Float64() < p, nil
}

// Chance is Roll with p clamped into [0,1]; stat bundles may carry out-of-range values.
func Chance(p float64, src RandomSource) bool {
	if p != p { // NaN
		return false
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	hit, _ := Roll(p, src)
	return hit
}
