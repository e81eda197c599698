package filters

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every ConfigurationError.
	ErrConfiguration = errors.New("filters: invalid configuration")

	// ErrDestroyed is returned when applying a filter after Destroy.
	ErrDestroyed = errors.New("filters: filter destroyed")

	// ErrForeignSurface is returned by hosts handed a surface they did not create.
	ErrForeignSurface = errors.New("filters: surface belongs to another host")

	// ErrNoProgram is returned by hosts asked to draw a pass without a
	// program, such as a composite filter passed where a single pass belongs.
	ErrNoProgram = errors.New("filters: pass has no program")
)

// ConfigurationError reports a mandatory resource that is still absent after
// the options were merged with their defaults.
type ConfigurationError struct {
	Filter string
	Field  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("filters: %s requires %s", e.Filter, e.Field)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
