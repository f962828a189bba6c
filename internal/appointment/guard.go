package appointment

// CheckBooking rejects a booking when the patient already holds an active
// token with the same doctor today. existing is nil when there is none.
func CheckBooking(existing *Appointment) error {
	if existing == nil {
		return nil
	}
	return ErrDuplicateBooking.
		WithMessage("Appointment already exists. Token #%d is active for today.", existing.TokenNumber).
		WithDetail("existingTokenNumber", existing.TokenNumber).
		WithDetail("appointmentId", existing.ID)
}

// CheckPrescriber allows only the assigned doctor to prescribe.
func CheckPrescriber(a *Appointment, actorID string) error {
	if a.DoctorID != actorID {
		return ErrNotAssignedDoctor
	}
	return nil
}

// CheckBillable gates invoice creation. With requireCompleted unset any
// appointment that is not already terminal can be billed.
func CheckBillable(a *Appointment, requireCompleted bool) error {
	if requireCompleted {
		if a.Status != StatusCompleted {
			return ErrNotBillable.WithDetail("status", a.Status)
		}
		return nil
	}
	if a.Status.Terminal() {
		return ErrNotBillable.WithDetail("status", a.Status)
	}
	return nil
}
