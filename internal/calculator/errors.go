package calculator

import "github.com/pkg/errors"

// ErrInvalidConfig is returned when an engine is called with unusable periods.
var ErrInvalidConfig = errors.New("invalid indicator configuration")
