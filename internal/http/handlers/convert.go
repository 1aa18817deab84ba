package handlers

import (
	"laklight-scheduling/internal/domain"
)

func deliveryToResponse(d *domain.Delivery) deliveryResponse {
	resp := deliveryResponse{
		ID:              d.ID,
		FarmerID:        d.FarmerID,
		FarmerName:      d.FarmerName,
		Product:         d.Product,
		Quantity:        d.Quantity,
		TransportMethod: string(d.TransportMethod),
		ProposedDate:    d.ProposedDate.Format(dateLayout),
		Status:          string(d.Status),
		Version:         d.Version,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.Scheduled() {
		resp.ScheduleDate = d.ScheduleDate.Format(dateLayout)
	}
	if next, ok := domain.NextActor(d.Status); ok {
		resp.NextActor = string(next)
	}
	return resp
}

func deliveriesToResponse(ds []domain.Delivery) []deliveryResponse {
	out := make([]deliveryResponse, 0, len(ds))
	for i := range ds {
		out = append(out, deliveryToResponse(&ds[i]))
	}
	return out
}

func notificationToResponse(n *domain.Notification) notificationResponse {
	resp := notificationResponse{
		ID:          n.ID,
		DeliveryID:  n.DeliveryID,
		NewDate:     n.NewDate.Format(dateLayout),
		RequestedBy: string(n.RequestedBy),
		Status:      string(n.Status),
		Reason:      n.Reason,
		CreatedAt:   n.CreatedAt,
	}
	if !n.OldDate.IsZero() {
		resp.OldDate = n.OldDate.Format(dateLayout)
	}
	if !n.ResolvedAt.IsZero() {
		t := n.ResolvedAt
		resp.ResolvedAt = &t
	}
	return resp
}

func notificationsToResponse(ns []domain.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(ns))
	for i := range ns {
		out = append(out, notificationToResponse(&ns[i]))
	}
	return out
}
