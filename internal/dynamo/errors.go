package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for carry and simulation setup.
var (
	// ErrNoViewpoint indicates the controller was built without a camera.
	ErrNoViewpoint = errors.New("dynamo: no viewpoint configured")

	// ErrNoScene indicates the controller was built without a scene to query.
	ErrNoScene = errors.New("dynamo: no scene configured")

	// ErrInvalidConfig indicates a parameter value is outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrInvalidTimestep indicates a non-positive frame or tick duration.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be positive")

	// ErrUnknownPreset indicates a preset name that is not registered.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")
)

// SimError reports a failure at a specific fixed tick.
type SimError struct {
	Tick    int
	Time    float64
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %s", e.Tick, e.Time, e.Message)
}
