package appointment

import (
	"testing"

	"desksync/internal/model"
)

func details(date, at string) model.AppointmentDetails {
	return model.AppointmentDetails{
		ProposedDate:     date,
		ProposedTime:     at,
		LocationOrMethod: "remote session",
	}
}

func TestProposeFirstProposalHasNoHistory(t *testing.T) {
	ticket := &model.Ticket{ID: "t1"}

	next, _ := Propose(ticket, details("2026-09-10", "14:00"), model.ProposedByAgent, model.ApptPendingUserApproval)

	if next.ID == "" {
		t.Error("Propose() should assign a fresh id")
	}
	if next.ProposedBy != model.ProposedByAgent {
		t.Errorf("ProposedBy = %q, want %q", next.ProposedBy, model.ProposedByAgent)
	}
	if next.Status != model.ApptPendingUserApproval {
		t.Errorf("Status = %q, want %q", next.Status, model.ApptPendingUserApproval)
	}
	if len(next.History) != 0 {
		t.Errorf("History length = %d, want 0", len(next.History))
	}
}

// Each transition must push the full previous appointment onto the new
// object's history, so after K proposals the current object carries K-1
// entries and entry i equals the object produced by proposal i.
func TestProposeHistoryGrowsAppendOnly(t *testing.T) {
	ticket := &model.Ticket{ID: "t1"}

	const k = 5
	produced := make([]model.AppointmentDetails, 0, k)
	for i := 0; i < k; i++ {
		next, _ := Propose(ticket, details("2026-09-10", "14:00"), model.ProposedByUser, model.ApptRescheduledByUser)
		produced = append(produced, next)
		appt := next
		ticket.CurrentAppointment = &appt
	}

	last := produced[k-1]
	if len(last.History) != k-1 {
		t.Fatalf("History length after %d proposals = %d, want %d", k, len(last.History), k-1)
	}
	for i, prev := range last.History {
		if prev.ID != produced[i].ID {
			t.Errorf("History[%d].ID = %q, want %q", i, prev.ID, produced[i].ID)
		}
		if len(prev.History) != i {
			t.Errorf("History[%d] carries %d nested entries, want %d", i, len(prev.History), i)
		}
	}
}

func TestProposeDoesNotMutatePrevious(t *testing.T) {
	ticket := &model.Ticket{ID: "t1"}
	first, _ := Propose(ticket, details("2026-09-10", "14:00"), model.ProposedByAgent, model.ApptPendingUserApproval)
	appt := first
	ticket.CurrentAppointment = &appt

	Propose(ticket, details("2026-09-12", "09:00"), model.ProposedByUser, model.ApptRescheduledByUser)

	if len(ticket.CurrentAppointment.History) != 0 {
		t.Error("Propose() mutated the previous appointment's history")
	}
}

func TestSideEffectMessages(t *testing.T) {
	tests := []struct {
		name       string
		proposedBy model.ProposedBy
		status     model.AppointmentStatus
		wantMsg    bool
		wantSender model.ChatSender
	}{
		{
			name:       "agent proposal awaiting user",
			proposedBy: model.ProposedByAgent,
			status:     model.ApptPendingUserApproval,
			wantMsg:    true,
			wantSender: model.SenderAgent,
		},
		{
			name:       "confirmation by user",
			proposedBy: model.ProposedByUser,
			status:     model.ApptConfirmed,
			wantMsg:    true,
			wantSender: model.SenderUser,
		},
		{
			name:       "confirmation by agent",
			proposedBy: model.ProposedByAgent,
			status:     model.ApptConfirmed,
			wantMsg:    true,
			wantSender: model.SenderAgent,
		},
		{
			name:       "user reschedule request",
			proposedBy: model.ProposedByUser,
			status:     model.ApptRescheduledByUser,
			wantMsg:    true,
			wantSender: model.SenderUser,
		},
		{
			name:       "user proposal awaiting agent",
			proposedBy: model.ProposedByUser,
			status:     model.ApptPendingAgentApproval,
			wantMsg:    false,
		},
		{
			name:       "agent reschedule",
			proposedBy: model.ProposedByAgent,
			status:     model.ApptRescheduledByAgent,
			wantMsg:    false,
		},
		{
			name:       "cancellation by user",
			proposedBy: model.ProposedByUser,
			status:     model.ApptCancelledByUser,
			wantMsg:    false,
		},
		{
			name:       "cancellation by agent",
			proposedBy: model.ProposedByAgent,
			status:     model.ApptCancelledByAgent,
			wantMsg:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := &model.Ticket{ID: "t1"}
			_, msg := Propose(ticket, details("2026-09-10", "14:00"), tt.proposedBy, tt.status)

			if tt.wantMsg && msg == nil {
				t.Fatal("Propose() returned no side-effect message, want one")
			}
			if !tt.wantMsg {
				if msg != nil {
					t.Fatalf("Propose() returned side-effect message %q, want none", msg.Text)
				}
				return
			}
			if msg.Sender != tt.wantSender {
				t.Errorf("message sender = %q, want %q", msg.Sender, tt.wantSender)
			}
			if msg.Text == "" || msg.ID == "" {
				t.Error("side-effect message missing text or id")
			}
		})
	}
}
