package handlers

import "time"

const dateLayout = "2006-01-02"

type createDeliveryRequest struct {
	Product         string `json:"product"`
	Quantity        int    `json:"quantity"`
	TransportMethod string `json:"transport_method,omitempty"`
	ProposedDate    string `json:"proposed_date"`
	FarmerName      string `json:"farmer_name,omitempty"`
}

type deliveryResponse struct {
	ID              string    `json:"id"`
	FarmerID        string    `json:"farmer_id"`
	FarmerName      string    `json:"farmer_name,omitempty"`
	Product         string    `json:"product"`
	Quantity        int       `json:"quantity"`
	TransportMethod string    `json:"transport_method"`
	ProposedDate    string    `json:"proposed_date"`
	ScheduleDate    string    `json:"schedule_date,omitempty"`
	Status          string    `json:"status"`
	NextActor       string    `json:"next_actor,omitempty"`
	Version         int64     `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type updateStatusRequest struct {
	Status       string `json:"status"`
	ScheduleDate string `json:"schedule_date,omitempty"`
}

type rescheduleRequest struct {
	NewDate string `json:"new_date"`
}

type resolveRequest struct {
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
}

type notificationResponse struct {
	ID          string     `json:"id"`
	DeliveryID  string     `json:"delivery_id"`
	OldDate     string     `json:"old_date,omitempty"`
	NewDate     string     `json:"new_date"`
	RequestedBy string     `json:"requested_by"`
	Status      string     `json:"status"`
	Reason      string     `json:"reason,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}
