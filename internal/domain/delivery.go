package domain

import "time"

type (
	// DeliveryStatus represents the negotiation state of a delivery.
	DeliveryStatus string
	// TransportMethod represents how the goods travel to the warehouse.
	TransportMethod string
	// Actor represents the party performing an operation.
	Actor string
)

// Delivery - a proposed movement of farm goods to the warehouse, tracked
// through the negotiation lifecycle.
type Delivery struct {
	ID              string
	ApplicationID   string
	FarmerID        string
	FarmerName      string
	Product         string
	Quantity        int
	TransportMethod TransportMethod
	ProposedDate    time.Time
	ScheduleDate    time.Time
	Status          DeliveryStatus
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Scheduled reports whether an agreed-or-contested date has been set.
func (d *Delivery) Scheduled() bool {
	return !d.ScheduleDate.IsZero()
}

// Date normalizes t to midnight UTC. Negotiation operates on calendar
// days, not instants.
func Date(t time.Time) time.Time {
	y, m, day := t.UTC().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	return Date(a).Equal(Date(b))
}
