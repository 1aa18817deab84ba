package domain

import "time"

// NotificationStatus represents the lifecycle state of a reschedule request.
type NotificationStatus string

// List of possible notification statuses
const (
	NotificationPending  NotificationStatus = "pending"
	NotificationApproved NotificationStatus = "approved"
	NotificationRejected NotificationStatus = "rejected"
)

var allowedNotificationStatuses = [...]NotificationStatus{
	NotificationPending, NotificationApproved, NotificationRejected,
}

// Valid checks if the NotificationStatus is valid
func (s NotificationStatus) Valid() bool {
	for _, v := range allowedNotificationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Resolved reports whether the notification left the pending state.
func (s NotificationStatus) Resolved() bool {
	return s == NotificationApproved || s == NotificationRejected
}

// Notification - a cross-role reschedule request awaiting employee action.
// Reason is set only on rejection and is never empty then.
type Notification struct {
	ID          string
	DeliveryID  string
	OldDate     time.Time
	NewDate     time.Time
	RequestedBy Actor
	Status      NotificationStatus
	Reason      string
	CreatedAt   time.Time
	ResolvedAt  time.Time
}
