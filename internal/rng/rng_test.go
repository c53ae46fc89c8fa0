package rng

import "testing"

func TestRollBounds(t *testing.T) {
	got, err := Roll(0, NewSeededRNG(1))
	if err != nil || got {
		t.Fatalf("p=0 should never hit; got=%v err=%v", got, err)
	}
	got, err = Roll(1, NewSeededRNG(1))
	if err != nil || !got {
		t.Fatalf("p=1 should always hit; got=%v err=%v", got, err)
	}
	if _, err := Roll(-0.1, nil); err == nil {
		t.Fatalf("negative p must error")
	}
	if _, err := Roll(1.1, nil); err == nil {
		t.Fatalf("p>1 must error")
	}
}

func TestRollStatApprox(t *testing.T) {
	const p = 0.3
	const n = 100000
	src := NewSeededRNG(42)
	hit := 0
	for i := 0; i < n; i++ {
		ok, err := Roll(p, src)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			hit++
		}
	}
	freq := float64(hit) / float64(n)
	if diff := freq - p; diff > 0.01 || diff < -0.01 {
		t.Fatalf("freq=%f not close to p=%f", freq, p)
	}
}

func TestChanceClamps(t *testing.T) {
	if Chance(-3, NewSeededRNG(1)) {
		t.Fatalf("negative chance should never hit")
	}
	if !Chance(7, NewSeededRNG(1)) {
		t.Fatalf("chance above 1 should always hit")
	}
}

func TestIntNRange(t *testing.T) {
	src := NewSeededRNG(7)
	for i := 0; i < 1000; i++ {
		v := IntN(src, 5)
		if v < 0 || v >= 5 {
			t.Fatalf("IntN out of range: %d", v)
		}
	}
	if IntN(NewFixed(0.9999999999), 3) != 2 {
		t.Fatalf("IntN should map top of range to n-1")
	}
	if IntN(src, 0) != 0 {
		t.Fatalf("IntN(0) should be 0")
	}
}

func TestSeededRNGReplays(t *testing.T) {
	a, b := NewSeededRNG(9), NewSeededRNG(9)
	for i := 0; i < 100; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d diverged: %v vs %v", i, x, y)
		}
	}
}
