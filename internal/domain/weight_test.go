package domain

import (
	"errors"
	"testing"
)

func TestParseWeightKey(t *testing.T) {
	for _, in := range []string{"distance_km", " time_h "} {
		if _, err := ParseWeightKey(in); err != nil {
			t.Errorf("ParseWeightKey(%q) unexpected error: %v", in, err)
		}
	}

	_, err := ParseWeightKey("speed_kmh")
	if !errors.Is(err, ErrInvalidWeightKey) {
		t.Fatalf("ParseWeightKey(speed_kmh) err = %v, want ErrInvalidWeightKey", err)
	}
}

func TestTourCloneDoesNotAlias(t *testing.T) {
	orig := Tour{0, 1, 2}
	c := orig.Clone()
	c[1] = 9

	if orig[1] != 1 {
		t.Fatalf("clone aliased the original tour: %v", orig)
	}
}
