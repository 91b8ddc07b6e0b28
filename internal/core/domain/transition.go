package domain

import (
	"errors"
	"fmt"
)

// InvalidTransitionError reports an attempted status change that the entity's
// state machine does not permit. Invalid transitions always fail loudly; they
// are never silently ignored.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition from %s to %s", e.Entity, e.From, e.To)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
