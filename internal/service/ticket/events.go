package ticket

import "fmt"

// Change events published over NATS when a mutation commits, so embedding
// UIs can re-render without polling. Publication is best-effort.
const (
	EventCreated             = "created"
	EventStatusUpdated       = "status_updated"
	EventAssigned            = "assigned"
	EventMessageAdded        = "message_added"
	EventAppointmentProposed = "appointment_proposed"
	EventAppointmentDeleted  = "appointment_deleted"
	EventDeleted             = "deleted"
)

func (s *SyncStore) publish(event, ticketID string) {
	if s.nc == nil {
		return
	}
	subject := fmt.Sprintf("desksync.ticket.%s.%s", event, ticketID)
	if err := s.nc.Publish(subject, []byte(ticketID)); err != nil {
		s.log.Debug("event publish failed", "subject", subject, "error", err)
	}
}
