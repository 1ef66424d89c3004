package models

// MessageKind selects the summary text shown above the disclosure.
type MessageKind string

const (
	MessageUpdateSystemWithPermissions MessageKind = "update_system_with_permissions"
	MessageUpdateWithPermissions       MessageKind = "update_with_permissions"
	MessageUpdateSystemNoPermissions   MessageKind = "update_system_no_permissions"
	MessageUpdateNoPermissions         MessageKind = "update_no_permissions"
	MessageInstallWithPermissions      MessageKind = "install_with_permissions"
	MessageInstallNoPermissions        MessageKind = "install_no_permissions"
)

// Section is one disclosure surface, listed in display order.
type Section string

const (
	// SectionNewPermissions lists permissions the update adds.
	SectionNewPermissions Section = "new_permissions"
	// SectionNoNewPermissions is the "no new permissions" notice shown in
	// place of the new-permission list on updates.
	SectionNoNewPermissions Section = "no_new_permissions"
	SectionPersonal         Section = "personal"
	SectionDevice           Section = "device"
)

// ConfirmationPlan is what the decision engine produces for one session.
//
// Invariant: RequiresAcknowledgement equals
// HasNewPermissions || HasPersonalPermissions || HasDevicePermissions for
// updates and HasPersonalPermissions || HasDevicePermissions for fresh installs.
type ConfirmationPlan struct {
	IsUpdate                bool          `json:"is_update"`
	HasNewPermissions       bool          `json:"has_new_permissions"`
	HasPersonalPermissions  bool          `json:"has_personal_permissions"`
	HasDevicePermissions    bool          `json:"has_device_permissions"`
	Summary                 MessageKind   `json:"summary"`
	RequiresAcknowledgement bool          `json:"requires_acknowledgement"`
	NewPermissions          PermissionSet `json:"new_permissions"`
	Sections                []Section     `json:"sections"`
}

// FirstSection is where a client re-presents the disclosure when the user
// tries to proceed before acknowledging. Empty when nothing is shown.
func (p ConfirmationPlan) FirstSection() Section {
	if len(p.Sections) == 0 {
		return ""
	}
	return p.Sections[0]
}
