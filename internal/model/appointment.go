package model

// AppointmentStatus enumerates the states of the appointment workflow.
type AppointmentStatus string

const (
	ApptPendingUserApproval  AppointmentStatus = "pending_user_approval"
	ApptPendingAgentApproval AppointmentStatus = "pending_agent_approval"
	ApptConfirmed            AppointmentStatus = "confirmed"
	ApptCancelledByUser      AppointmentStatus = "cancelled_by_user"
	ApptCancelledByAgent     AppointmentStatus = "cancelled_by_agent"
	ApptRescheduledByUser    AppointmentStatus = "rescheduled_by_user"
	ApptRescheduledByAgent   AppointmentStatus = "rescheduled_by_agent"
)

// ProposedBy identifies which party authored an appointment proposal.
type ProposedBy string

const (
	ProposedByAgent ProposedBy = "agent"
	ProposedByUser  ProposedBy = "user"
)

// AppointmentDetails describes one proposed or confirmed appointment. Every
// transition produces a fresh object carrying the full prior object in
// History, so History is append-only and never rewritten.
type AppointmentDetails struct {
	ID               string               `json:"id"`
	ProposedBy       ProposedBy           `json:"proposed_by"`
	ProposedDate     string               `json:"proposed_date"`
	ProposedTime     string               `json:"proposed_time"`
	LocationOrMethod string               `json:"location_or_method"`
	Status           AppointmentStatus    `json:"status"`
	Notes            *string              `json:"notes,omitempty"`
	History          []AppointmentDetails `json:"history,omitempty"`
}
