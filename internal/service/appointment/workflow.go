// Package appointment implements the proposal/confirmation workflow for a
// ticket's appointment. Transitions are pure: the sync store decides when the
// result may be applied (appointments are confirm-then-apply, see the store).
package appointment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"desksync/internal/model"
)

// Propose computes the next appointment for the ticket. The ticket's current
// appointment, when present, is pushed in full onto the new object's history,
// so history grows append-only across transitions. There is no designated
// initial state: the first call enters whichever pending state matches the
// proposer.
//
// A chat side-effect message is synthesized only for the transitions both
// parties need to see in the conversation: an agent proposal awaiting the
// user, a confirmation, and a user reschedule request. All other transitions
// return a nil message.
func Propose(t *model.Ticket, details model.AppointmentDetails, proposedBy model.ProposedBy, status model.AppointmentStatus) (model.AppointmentDetails, *model.ChatMessage) {
	next := details
	next.ID = uuid.NewString()
	next.ProposedBy = proposedBy
	next.Status = status
	next.History = nil

	if t.CurrentAppointment != nil {
		prev := *t.CurrentAppointment
		next.History = append(append([]model.AppointmentDetails(nil), prev.History...), prev)
	}

	return next, sideEffectMessage(next, proposedBy, status)
}

func sideEffectMessage(appt model.AppointmentDetails, proposedBy model.ProposedBy, status model.AppointmentStatus) *model.ChatMessage {
	var text string
	switch {
	case proposedBy == model.ProposedByAgent && status == model.ApptPendingUserApproval:
		text = fmt.Sprintf("An appointment has been proposed for %s at %s (%s). Please review and confirm.",
			appt.ProposedDate, appt.ProposedTime, appt.LocationOrMethod)
	case status == model.ApptConfirmed:
		text = fmt.Sprintf("Appointment confirmed for %s at %s (%s).",
			appt.ProposedDate, appt.ProposedTime, appt.LocationOrMethod)
	case proposedBy == model.ProposedByUser && status == model.ApptRescheduledByUser:
		text = fmt.Sprintf("A new appointment time has been requested: %s at %s (%s).",
			appt.ProposedDate, appt.ProposedTime, appt.LocationOrMethod)
	default:
		return nil
	}

	return &model.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    senderFor(proposedBy),
		Text:      text,
		Timestamp: time.Now(),
	}
}

func senderFor(proposedBy model.ProposedBy) model.ChatSender {
	if proposedBy == model.ProposedByAgent {
		return model.SenderAgent
	}
	return model.SenderUser
}
