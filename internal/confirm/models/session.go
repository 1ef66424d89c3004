package models

import (
	"time"

	"pkgconfirm/pkg/domain"
)

// GateState is the acknowledgement gate position.
type GateState string

const (
	GateLocked   GateState = "locked"
	GateUnlocked GateState = "unlocked"
)

// Outcome is the terminal result of a session. Empty while the session is open.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeProceed   Outcome = "proceed"
	OutcomeCancelled Outcome = "cancelled"
)

// ProceedDecision answers an install request.
type ProceedDecision string

const (
	DecisionProceed                 ProceedDecision = "proceed"
	DecisionRequiresAcknowledgement ProceedDecision = "requires_acknowledgement"
)

// ActionLabel is the label of the install control.
type ActionLabel string

const (
	// LabelNext asks the user to keep reading before installing.
	LabelNext    ActionLabel = "next"
	LabelInstall ActionLabel = "install"
)

// Session is the explicit state of one confirmation, from resolution to a
// terminal outcome.
type Session struct {
	ID            domain.SessionID   `json:"id"`
	PackageURI    string             `json:"package_uri"`
	DeclaredName  domain.PackageName `json:"declared_name"`
	Candidate     PackageSnapshot    `json:"candidate"`
	Installed     *PackageSnapshot   `json:"installed,omitempty"`
	Plan          ConfirmationPlan   `json:"plan"`
	VersionChange VersionChange      `json:"version_change"`
	State         GateState          `json:"state"`
	Outcome       Outcome            `json:"outcome,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	EnabledAt     *time.Time         `json:"enabled_at,omitempty"`
	ExpiresAt     time.Time          `json:"expires_at"`
}

// Renamed reports whether identity reconciliation changed the package name.
func (s *Session) Renamed() bool {
	return s.DeclaredName != s.Candidate.PackageName
}

// IsFinished reports whether the session reached a terminal outcome.
func (s *Session) IsFinished() bool {
	return s.Outcome != OutcomeNone
}

// ActionLabel returns the current install control label.
func (s *Session) ActionLabel() ActionLabel {
	if s.State == GateUnlocked {
		return LabelInstall
	}
	return LabelNext
}

// IsExpired reports whether the session outlived its TTL at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Clone returns a copy that shares no mutable state with s. Permission sets
// are immutable and stay shared.
func (s *Session) Clone() *Session {
	c := *s
	if s.Installed != nil {
		installed := *s.Installed
		c.Installed = &installed
	}
	if s.EnabledAt != nil {
		enabledAt := *s.EnabledAt
		c.EnabledAt = &enabledAt
	}
	if s.Plan.Sections != nil {
		c.Plan.Sections = append(make([]Section, 0, len(s.Plan.Sections)), s.Plan.Sections...)
	}
	return &c
}
