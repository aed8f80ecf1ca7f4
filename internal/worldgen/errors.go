package worldgen

import (
	"errors"
	"fmt"
	"math"
)

// ErrConfig rejects a generator outright at construction time.
var ErrConfig = errors.New("worldgen: invalid configuration")

// ErrOutOfRange marks a single query whose coordinate is not representable
// (NaN or infinite). It never fails a whole batch.
var ErrOutOfRange = errors.New("worldgen: coordinate out of range")

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

func checkCoord(x, z float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(z) || math.IsInf(z, 0) {
		return fmt.Errorf("%w: (%v, %v)", ErrOutOfRange, x, z)
	}
	return nil
}
