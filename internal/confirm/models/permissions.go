package models

import (
	"encoding/json"
	"sort"
)

// PermissionClass is the platform-supplied classification of a permission.
// The confirmation screen lists personal-information permissions separately
// from permissions that touch the device itself.
type PermissionClass string

const (
	ClassPersonal PermissionClass = "personal"
	ClassDevice   PermissionClass = "device"
)

// ParsePermissionClass maps a catalog value to a class. Anything that is not
// explicitly personal is treated as a device permission.
func ParsePermissionClass(s string) PermissionClass {
	if PermissionClass(s) == ClassPersonal {
		return ClassPersonal
	}
	return ClassDevice
}

// Permission is a single classified permission identifier.
type Permission struct {
	Name  string          `json:"name"`
	Class PermissionClass `json:"class"`
}

// PermissionSet is an immutable set of permission identifiers, each assigned
// to exactly one class. The zero value is an empty set.
type PermissionSet struct {
	members map[string]PermissionClass
}

// NewPermissionSet builds a set from classified permissions. Empty names are
// skipped; a name listed twice keeps its last classification.
func NewPermissionSet(perms ...Permission) PermissionSet {
	members := make(map[string]PermissionClass, len(perms))
	for _, p := range perms {
		if p.Name == "" {
			continue
		}
		members[p.Name] = ParsePermissionClass(string(p.Class))
	}
	return PermissionSet{members: members}
}

// Len returns the number of permissions in the set.
func (s PermissionSet) Len() int {
	return len(s.members)
}

// IsEmpty reports whether the set has no members.
func (s PermissionSet) IsEmpty() bool {
	return len(s.members) == 0
}

// Contains reports whether name is a member, regardless of class.
func (s PermissionSet) Contains(name string) bool {
	_, ok := s.members[name]
	return ok
}

// ClassOf returns the class of a member and whether it is present.
func (s PermissionSet) ClassOf(name string) (PermissionClass, bool) {
	c, ok := s.members[name]
	return c, ok
}

// Personal returns the sorted personal-information permissions.
func (s PermissionSet) Personal() []string {
	return s.namesOf(ClassPersonal)
}

// Device returns the sorted device permissions.
func (s PermissionSet) Device() []string {
	return s.namesOf(ClassDevice)
}

// Names returns every member, sorted.
func (s PermissionSet) Names() []string {
	names := make([]string, 0, len(s.members))
	for name := range s.members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Permissions returns every member with its class, sorted by name.
func (s PermissionSet) Permissions() []Permission {
	names := s.Names()
	out := make([]Permission, 0, len(names))
	for _, name := range names {
		out = append(out, Permission{Name: name, Class: s.members[name]})
	}
	return out
}

// Minus returns the members of s that are absent from other. Membership is
// decided by name only; the result keeps the classification from s.
func (s PermissionSet) Minus(other PermissionSet) PermissionSet {
	diff := make(map[string]PermissionClass)
	for name, class := range s.members {
		if !other.Contains(name) {
			diff[name] = class
		}
	}
	return PermissionSet{members: diff}
}

// Equal reports whether both sets hold the same names with the same classes.
func (s PermissionSet) Equal(other PermissionSet) bool {
	if len(s.members) != len(other.members) {
		return false
	}
	for name, class := range s.members {
		if oc, ok := other.members[name]; !ok || oc != class {
			return false
		}
	}
	return true
}

func (s PermissionSet) namesOf(class PermissionClass) []string {
	names := []string{}
	for name, c := range s.members {
		if c == class {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

type permissionSetJSON struct {
	Personal []string `json:"personal"`
	Device   []string `json:"device"`
}

// MarshalJSON encodes the set partitioned by class.
func (s PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(permissionSetJSON{Personal: s.Personal(), Device: s.Device()})
}

// UnmarshalJSON decodes the partitioned form written by MarshalJSON.
func (s *PermissionSet) UnmarshalJSON(data []byte) error {
	var raw permissionSetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	perms := make([]Permission, 0, len(raw.Personal)+len(raw.Device))
	for _, name := range raw.Personal {
		perms = append(perms, Permission{Name: name, Class: ClassPersonal})
	}
	for _, name := range raw.Device {
		perms = append(perms, Permission{Name: name, Class: ClassDevice})
	}
	*s = NewPermissionSet(perms...)
	return nil
}
