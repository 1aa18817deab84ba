package domain

// List of possible delivery statuses
const (
	StatusPending             DeliveryStatus = "pending"
	StatusPendingConfirmation DeliveryStatus = "pending-confirmation"
	StatusConfirmed           DeliveryStatus = "confirmed"
	StatusReschedulePending   DeliveryStatus = "reschedule-pending"
	StatusCompleted           DeliveryStatus = "completed"
	StatusCancelled           DeliveryStatus = "cancelled"
)

// List of possible transport methods
const (
	TransportTruck        TransportMethod = "truck"
	TransportVan          TransportMethod = "van"
	TransportRefrigerated TransportMethod = "refrigerated"
)

// List of actors allowed to mutate delivery state
const (
	ActorFarmer   Actor = "farmer"
	ActorEmployee Actor = "employee"
)

// List of allowed statuses
var allowedStatuses = [...]DeliveryStatus{
	StatusPending, StatusPendingConfirmation, StatusConfirmed,
	StatusReschedulePending, StatusCompleted, StatusCancelled,
}

var allowedTransportMethods = [...]TransportMethod{
	TransportTruck, TransportVan, TransportRefrigerated,
}

var allowedActors = [...]Actor{ActorFarmer, ActorEmployee}

// Valid checks if the DeliveryStatus is valid
func (s DeliveryStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s DeliveryStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid checks if the TransportMethod is valid
func (t TransportMethod) Valid() bool {
	for _, v := range allowedTransportMethods {
		if t == v {
			return true
		}
	}
	return false
}

// Valid checks if the Actor is valid
func (a Actor) Valid() bool {
	for _, v := range allowedActors {
		if a == v {
			return true
		}
	}
	return false
}

// DateRule describes what a transition does with the schedule date.
type DateRule int

// Date rules for transitions
const (
	// DateUnchanged - the transition must not carry a new schedule date.
	DateUnchanged DateRule = iota
	// DateRequired - the transition must carry a new schedule date.
	DateRequired
	// DateFromProposed - the schedule date is taken from the proposed date.
	DateFromProposed
	// DateOptional - a new schedule date may be supplied (reschedule approval)
	// or omitted (reschedule rejection keeps the old date).
	DateOptional
)

// TransitionRule restricts an edge of the negotiation state machine.
type TransitionRule struct {
	Actors []Actor
	Date   DateRule
}

func (r TransitionRule) allows(a Actor) bool {
	for _, v := range r.Actors {
		if v == a {
			return true
		}
	}
	return false
}

type edge struct{ from, to DeliveryStatus }

// transitions enumerates every legal edge of the negotiation workflow.
// The acceptance edge out of pending-confirmation belongs to the farmer
// alone: the employee proposed the counter-date and may not approve it.
var transitions = map[edge]TransitionRule{
	{StatusPending, StatusConfirmed}:                       {Actors: []Actor{ActorEmployee}, Date: DateFromProposed},
	{StatusPending, StatusPendingConfirmation}:             {Actors: []Actor{ActorEmployee}, Date: DateRequired},
	{StatusPendingConfirmation, StatusConfirmed}:           {Actors: []Actor{ActorFarmer}, Date: DateUnchanged},
	{StatusPendingConfirmation, StatusPendingConfirmation}: {Actors: []Actor{ActorFarmer}, Date: DateUnchanged},
	{StatusConfirmed, StatusReschedulePending}:             {Actors: []Actor{ActorFarmer, ActorEmployee}, Date: DateUnchanged},
	{StatusReschedulePending, StatusConfirmed}:             {Actors: []Actor{ActorEmployee}, Date: DateOptional},
	{StatusConfirmed, StatusCompleted}:                     {Actors: []Actor{ActorEmployee}, Date: DateUnchanged},
	{StatusPending, StatusCancelled}:                       {Actors: []Actor{ActorFarmer, ActorEmployee}, Date: DateUnchanged},
	{StatusPendingConfirmation, StatusCancelled}:           {Actors: []Actor{ActorFarmer, ActorEmployee}, Date: DateUnchanged},
	{StatusConfirmed, StatusCancelled}:                     {Actors: []Actor{ActorFarmer, ActorEmployee}, Date: DateUnchanged},
	{StatusReschedulePending, StatusCancelled}:             {Actors: []Actor{ActorFarmer, ActorEmployee}, Date: DateUnchanged},
}

// Rule returns the transition rule for from→to and whether the edge exists.
func Rule(from, to DeliveryStatus) (TransitionRule, bool) {
	r, ok := transitions[edge{from, to}]
	return r, ok
}

// CanTransition reports whether actor may move a delivery from one status to another.
func CanTransition(from, to DeliveryStatus, actor Actor) bool {
	r, ok := Rule(from, to)
	return ok && r.allows(actor)
}

// NextActor returns the party expected to act next on a delivery in the
// given status. Terminal statuses have no next actor.
func NextActor(s DeliveryStatus) (Actor, bool) {
	switch s {
	case StatusPending, StatusConfirmed, StatusReschedulePending:
		return ActorEmployee, true
	case StatusPendingConfirmation:
		return ActorFarmer, true
	default:
		return "", false
	}
}
