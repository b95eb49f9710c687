package ports

import "context"

// Routing keys grouped under the namespaces consumed downstream.
const (
	RouteReminderSchedule       = "reminders.schedule"
	RouteNotifyEmergency        = "notifications.emergency"
	RouteNotifyEmergencyContact = "notifications.emergency_contact"
	RouteNotifyAppointment      = "notifications.appointment"
	RouteNotifyPharmacy         = "notifications.pharmacy"
	RouteNotifyTransfer         = "notifications.transfer"
	RouteNotifyServiceProvider  = "notifications.service_provider"
	RouteNotifySupport          = "notifications.support"
	RouteNotifyAdmin            = "notifications.admin"
)

// EventPublisher publishes a JSON-serializable event to the notification
// bus. Delivery is best effort; callers must not roll back writes when a
// publish fails.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}
