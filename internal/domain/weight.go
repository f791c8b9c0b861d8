package domain

import (
	"fmt"
	"strings"
)

// WeightKey selects the edge attribute used as path cost.
type WeightKey string

const (
	WeightDistance WeightKey = "distance_km"
	WeightTime     WeightKey = "time_h"
)

func ParseWeightKey(s string) (WeightKey, error) {
	k := WeightKey(strings.TrimSpace(s))
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

func (k WeightKey) Validate() error {
	switch k {
	case WeightDistance, WeightTime:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidWeightKey, string(k))
	}
}

func (k WeightKey) String() string { return string(k) }
