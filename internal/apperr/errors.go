package apperr

import (
	"errors"
	"fmt"

	"laklight-scheduling/internal/domain"
)

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a version or lock conflict; the caller should
// re-read current state and retry.
var ErrConflict = errors.New("conflict")

// ErrInvalidTransition indicates a negotiation state machine violation.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrReasonRequired indicates a reschedule rejection without a reason.
var ErrReasonRequired = errors.New("rejection reason required")

// TransitionError carries the state the delivery is actually in, so the
// caller can resync instead of guessing.
type TransitionError struct {
	From  domain.DeliveryStatus
	To    domain.DeliveryStatus
	Actor domain.Actor
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s not allowed for %s", e.From, e.To, e.Actor)
}

// Is makes TransitionError match ErrInvalidTransition.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// Transition builds a TransitionError for the given edge and actor.
func Transition(from, to domain.DeliveryStatus, actor domain.Actor) error {
	return &TransitionError{From: from, To: to, Actor: actor}
}
