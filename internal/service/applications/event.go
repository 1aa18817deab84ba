package applications

import "time"

// Event is a single supplier application event.
type Event struct {
	ApplicationID   string    `json:"application_id"`
	FarmerID        string    `json:"farmer_id"`
	FarmerName      string    `json:"farmer_name"`
	Product         string    `json:"product"`
	Quantity        int       `json:"quantity"`
	TransportMethod string    `json:"transport_method"`
	ProposedDate    string    `json:"proposed_date"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
