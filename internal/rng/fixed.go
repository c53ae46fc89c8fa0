package rng

// Fixed replays a list of values in order, then repeats the last one.
// Useful when a caller needs an exact shuffle or roll outcome.
type Fixed struct {
	Values []float64
	i      int
}

func NewFixed(values ...float64) *Fixed {
	return &Fixed{Values: values}
}

func (f *Fixed) Float64() float64 {
	if len(f.Values) == 0 {
		return 0
	}
	if f.i >= len(f.Values) {
		return f.Values[len(f.Values)-1]
	}
	v := f.Values[f.i]
	f.i++
	return v
}
