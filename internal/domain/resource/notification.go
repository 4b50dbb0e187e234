package resource

import "time"

type NotificationType string

const (
	NotificationRegistered   NotificationType = "mgmt.resource.registered"
	NotificationUnregistered NotificationType = "mgmt.resource.unregistered"
)

// Notification announces a change in the set of registered resources
type Notification struct {
	ID             string           `json:"id"`
	Type           NotificationType `json:"type"`
	Name           string           `json:"name"`
	RegistrationID string           `json:"registration_id"`
	// Sequence increases by one for every notification sent by a server
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
}
