package workflow

import (
	"fmt"
	"strings"
)

// InternshipVisibility selects how internships are gated for public listing.
type InternshipVisibility string

const (
	// InternshipStatusOnly lists an internship as soon as it is ACTIVE,
	// regardless of moderation. This is how internships have been listed so far.
	InternshipStatusOnly InternshipVisibility = "status-only"
	// InternshipModerated applies the job rule (ACTIVE and APPROVED) to internships.
	InternshipModerated InternshipVisibility = "moderated"
)

// ParseInternshipVisibility parses s, defaulting to InternshipStatusOnly when empty.
func ParseInternshipVisibility(s string) (InternshipVisibility, error) {
	switch v := InternshipVisibility(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return InternshipStatusOnly, nil
	case InternshipStatusOnly, InternshipModerated:
		return v, nil
	}
	return "", fmt.Errorf("unknown internship visibility %q, must be %q or %q", s, InternshipStatusOnly, InternshipModerated)
}

// Requirement is the condition a posting of some kind must meet to be public.
// The store compiles it into SQL and IsPubliclyVisible evaluates it in memory,
// so both always agree.
type Requirement struct {
	Status PostingStatus
	// Moderation is empty when moderation does not gate visibility.
	Moderation ModerationStatus
}

// Satisfied reports whether status and moderation meet the requirement.
func (r Requirement) Satisfied(status PostingStatus, moderation ModerationStatus) bool {
	if status != r.Status {
		return false
	}
	return r.Moderation == "" || moderation == r.Moderation
}

// VisibilityRule decides which postings are publicly listed.
type VisibilityRule struct {
	Internship InternshipVisibility
}

// DefaultVisibilityRule keeps the historical internship behaviour.
func DefaultVisibilityRule() VisibilityRule {
	return VisibilityRule{Internship: InternshipStatusOnly}
}

// Requirement returns the visibility requirement for kind.
func (r VisibilityRule) Requirement(kind PostingKind) Requirement {
	if kind == KindInternship && r.Internship != InternshipModerated {
		return Requirement{Status: StatusActive}
	}
	return Requirement{Status: StatusActive, Moderation: ModerationApproved}
}

// IsPubliclyVisible reports whether a posting is shown to the public.
func (r VisibilityRule) IsPubliclyVisible(kind PostingKind, status PostingStatus, moderation ModerationStatus) bool {
	return r.Requirement(kind).Satisfied(status, moderation)
}

// Explain returns a short human readable reason for the visibility verdict.
func (r VisibilityRule) Explain(kind PostingKind, status PostingStatus, moderation ModerationStatus) string {
	req := r.Requirement(kind)
	switch {
	case status != req.Status:
		return fmt.Sprintf("status is %s, %s postings are listed only when %s", status, strings.ToLower(string(kind)), req.Status)
	case req.Moderation != "" && moderation != req.Moderation:
		return fmt.Sprintf("moderation status is %s, %s postings are listed only when %s", moderation, strings.ToLower(string(kind)), req.Moderation)
	case req.Moderation == "":
		return fmt.Sprintf("%s postings are listed when %s, moderation is not checked", strings.ToLower(string(kind)), req.Status)
	}
	return fmt.Sprintf("listed: %s and %s", status, moderation)
}
