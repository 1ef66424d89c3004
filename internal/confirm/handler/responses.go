package handler

import (
	"time"

	"pkgconfirm/internal/confirm/models"
)

// SessionResponse is the client view of a confirmation. Clients render the
// sections in order and label the install control with ActionLabel.
type SessionResponse struct {
	ID                      string     `json:"id"`
	PackageURI              string     `json:"package_uri"`
	PackageName             string     `json:"package_name"`
	DeclaredName            string     `json:"declared_name"`
	Renamed                 bool       `json:"renamed"`
	Version                 string     `json:"version,omitempty"`
	InstalledVersion        string     `json:"installed_version,omitempty"`
	VersionChange           string     `json:"version_change"`
	IsUpdate                bool       `json:"is_update"`
	Summary                 string     `json:"summary"`
	RequiresAcknowledgement bool       `json:"requires_acknowledgement"`
	Sections                []string   `json:"sections"`
	NewPermissions          []string   `json:"new_permissions"`
	PersonalPermissions     []string   `json:"personal_permissions"`
	DevicePermissions       []string   `json:"device_permissions"`
	State                   string     `json:"state"`
	ActionLabel             string     `json:"action_label"`
	Outcome                 string     `json:"outcome,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	ExpiresAt               time.Time  `json:"expires_at"`
	EnabledAt               *time.Time `json:"enabled_at,omitempty"`
}

type ProceedResponse struct {
	Decision string          `json:"decision"`
	ScrollTo string          `json:"scroll_to,omitempty"`
	Session  SessionResponse `json:"session"`
}

func NewSessionResponse(s *models.Session) SessionResponse {
	resp := SessionResponse{
		ID:                      s.ID.String(),
		PackageURI:              s.PackageURI,
		PackageName:             string(s.Candidate.PackageName),
		DeclaredName:            string(s.DeclaredName),
		Renamed:                 s.Renamed(),
		Version:                 s.Candidate.Version,
		VersionChange:           string(s.VersionChange),
		IsUpdate:                s.Plan.IsUpdate,
		Summary:                 string(s.Plan.Summary),
		RequiresAcknowledgement: s.Plan.RequiresAcknowledgement,
		Sections:                make([]string, 0, len(s.Plan.Sections)),
		NewPermissions:          s.Plan.NewPermissions.Names(),
		PersonalPermissions:     s.Candidate.Permissions.Personal(),
		DevicePermissions:       s.Candidate.Permissions.Device(),
		State:                   string(s.State),
		ActionLabel:             string(s.ActionLabel()),
		Outcome:                 string(s.Outcome),
		CreatedAt:               s.CreatedAt,
		ExpiresAt:               s.ExpiresAt,
		EnabledAt:               s.EnabledAt,
	}
	if s.Installed != nil {
		resp.InstalledVersion = s.Installed.Version
	}
	for _, section := range s.Plan.Sections {
		resp.Sections = append(resp.Sections, string(section))
	}
	return resp
}
