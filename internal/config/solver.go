package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vancomm/probasweeper/internal/solver"
)

func lookupFloat(key string, dst *float64) error {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("unable to parse %s: %w", key, err)
	}
	*dst = v
	return nil
}

// NewEstimatorParams starts from the solver defaults and applies the
// PROBA_EPSILON, PROBA_SAFE_THRESHOLD and PROBA_MINE_THRESHOLD overrides.
func NewEstimatorParams() (solver.EstimatorParams, error) {
	params := solver.DefaultEstimatorParams()
	if err := lookupFloat("PROBA_EPSILON", &params.Epsilon); err != nil {
		return params, err
	}
	if err := lookupFloat("PROBA_SAFE_THRESHOLD", &params.SafeThreshold); err != nil {
		return params, err
	}
	if err := lookupFloat("PROBA_MINE_THRESHOLD", &params.MineThreshold); err != nil {
		return params, err
	}
	if err := params.Validate(); err != nil {
		return params, fmt.Errorf("invalid estimator params: %w", err)
	}
	return params, nil
}
