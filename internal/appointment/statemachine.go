package appointment

import "github.com/AdiyaTakhell/Clinic-Management-System/internal/apperror"

// Trigger names what caused a status change.
type Trigger string

const (
	TriggerManual       Trigger = "manual"
	TriggerPrescription Trigger = "prescription"
	TriggerInvoice      Trigger = "invoice"
	TriggerDayClose     Trigger = "dayclose"
)

// Pending may go straight to Completed when the doctor writes a
// prescription without marking the visit in progress.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {StatusBilled},
}

// CanTransition reports whether from -> to is an edge of the status graph.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a single move through the graph.
func Transition(from, to Status) error {
	if !to.Valid() {
		return ErrInvalidStatus
	}
	if CanTransition(from, to) {
		return nil
	}
	return transitionError(from, to)
}

func transitionError(from, to Status) *apperror.Error {
	return ErrInvalidTransition.
		WithMessage("Cannot change status from %s to %s", from, to).
		WithDetail("from", from).
		WithDetail("to", to)
}

// StateMachine applies manual status updates. AllowOverride accepts any
// manual status regardless of the current one.
type StateMachine struct {
	AllowOverride bool
}

// Manual validates a staff-chosen status. Re-selecting the current status
// is accepted and reported as unchanged.
func (m StateMachine) Manual(from, to Status) (changed bool, err error) {
	if !to.Manual() {
		return false, ErrInvalidStatus
	}
	if from == to {
		return false, nil
	}
	if m.AllowOverride {
		return true, nil
	}
	if !CanTransition(from, to) {
		return false, transitionError(from, to)
	}
	return true, nil
}
