// Package workflow holds the posting moderation state machine, the application
// decision rules and the public visibility rule. It performs no I/O; the store
// and service packages persist what it decides.
package workflow

import (
	"strings"

	"github.com/google/uuid"
)

// PostingKind distinguishes jobs from internships.
type PostingKind string

// Posting kinds
const (
	KindJob        PostingKind = "JOB"
	KindInternship PostingKind = "INTERNSHIP"
)

// PostingStatus is the owner controlled publish status.
type PostingStatus string

// Posting statuses
const (
	StatusDraft    PostingStatus = "DRAFT"
	StatusActive   PostingStatus = "ACTIVE"
	StatusInactive PostingStatus = "INACTIVE"
	StatusClosed   PostingStatus = "CLOSED"
)

// ModerationStatus is the administrative review state of a posting.
type ModerationStatus string

// Moderation statuses
const (
	ModerationPending  ModerationStatus = "PENDING"
	ModerationApproved ModerationStatus = "APPROVED"
	ModerationRejected ModerationStatus = "REJECTED"
	ModerationReturned ModerationStatus = "RETURNED"
)

// ApplicationStatus is the owner's decision on a candidate application.
type ApplicationStatus string

// Application statuses
const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationAccepted ApplicationStatus = "ACCEPTED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// Role of an authenticated account.
type Role string

// Roles
const (
	RoleHR         Role = "HR"
	RoleCandidate  Role = "CANDIDATE"
	RoleUniversity Role = "UNIVERSITY"
	RoleAdmin      Role = "ADMIN"
)

// AllPostingKinds lists every posting kind.
var AllPostingKinds = []PostingKind{KindJob, KindInternship}

// AllPostingStatuses lists every posting status.
var AllPostingStatuses = []PostingStatus{StatusDraft, StatusActive, StatusInactive, StatusClosed}

// AllModerationStatuses lists every moderation status.
var AllModerationStatuses = []ModerationStatus{ModerationPending, ModerationApproved, ModerationRejected, ModerationReturned}

// Principal is the caller of an engine or workflow operation.
type Principal struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

// IsModerator reports whether the principal may change moderation status.
func (p Principal) IsModerator() bool {
	return p.Role == RoleAdmin
}

// CanOwnPostings reports whether the principal may create postings.
func (p Principal) CanOwnPostings() bool {
	return p.Role == RoleHR || p.Role == RoleUniversity
}

// ParsePostingKind normalizes s into a PostingKind.
func ParsePostingKind(s string) (PostingKind, error) {
	k := PostingKind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case KindJob, KindInternship:
		return k, nil
	}
	return "", Errorf(CodeValidation, "unknown posting kind %q, must be JOB or INTERNSHIP", s)
}

// ParsePostingStatus normalizes s into a PostingStatus.
func ParsePostingStatus(s string) (PostingStatus, error) {
	st := PostingStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusDraft, StatusActive, StatusInactive, StatusClosed:
		return st, nil
	}
	return "", Errorf(CodeValidation, "unknown posting status %q, must be DRAFT, ACTIVE, INACTIVE or CLOSED", s)
}

// ParseModerationStatus normalizes s into a ModerationStatus.
func ParseModerationStatus(s string) (ModerationStatus, error) {
	st := ModerationStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case ModerationPending, ModerationApproved, ModerationRejected, ModerationReturned:
		return st, nil
	}
	return "", Errorf(CodeValidation, "unknown moderation status %q, must be PENDING, APPROVED, REJECTED or RETURNED", s)
}

// ParseRole normalizes s into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleHR, RoleCandidate, RoleUniversity, RoleAdmin:
		return r, nil
	}
	return "", Errorf(CodeValidation, "unknown role %q", s)
}
