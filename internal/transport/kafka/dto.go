package kafka

import (
	"strings"
	"time"

	"laklight-scheduling/internal/service/applications"
)

// EventDTO is a data transfer object for applications.Event
type EventDTO struct {
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

// ToDomain converts EventDTO to applications.Event
func ToDomain(dto EventDTO) applications.Event {
	return applications.Event{
		ApplicationID:   strings.TrimSpace(dto.ApplicationID),
		FarmerID:        strings.TrimSpace(dto.FarmerID),
		FarmerName:      strings.TrimSpace(dto.FarmerName),
		Product:         strings.TrimSpace(dto.Product),
		Quantity:        dto.Quantity,
		TransportMethod: strings.TrimSpace(dto.TransportMethod),
		ProposedDate:    strings.TrimSpace(dto.ProposedDate),
		Status:          strings.TrimSpace(dto.Status),
		CreatedAt:       dto.CreatedAt,
	}
}
