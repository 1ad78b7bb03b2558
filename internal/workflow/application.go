package workflow

import "strings"

// ParseDecision normalizes s into a final application decision.
func ParseDecision(s string) (ApplicationStatus, error) {
	d := ApplicationStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case ApplicationAccepted, ApplicationRejected:
		return d, nil
	}
	return "", Errorf(CodeValidation, "decision must be ACCEPTED or REJECTED, got %q", s)
}

// NextApplicationStatus validates a decision against the current status.
// Only a PENDING application can be decided; decisions are terminal.
func NextApplicationStatus(current ApplicationStatus, decision ApplicationStatus) (ApplicationStatus, error) {
	decision, err := ParseDecision(string(decision))
	if err != nil {
		return current, err
	}
	if current != ApplicationPending {
		return current, Errorf(CodeAlreadyDecided, "application was already %s", strings.ToLower(string(current)))
	}
	return decision, nil
}

// IsFinal reports whether no further decision can be made.
func (s ApplicationStatus) IsFinal() bool {
	return s == ApplicationAccepted || s == ApplicationRejected
}
