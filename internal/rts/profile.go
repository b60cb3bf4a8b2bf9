package rts

import (
	"fmt"
	"strings"

	"github.com/muurk/rtsctl/internal/jamfpro"
)

// ProfileRef references a Wi-Fi configuration profile either by ID or by name.
// Use ProfileByID or ProfileByName to build one.
type ProfileRef struct {
	id     int
	name   string
	byName bool
}

// ProfileByID references a profile by its Jamf Pro ID
func ProfileByID(id int) ProfileRef {
	return ProfileRef{id: id}
}

// ProfileByName references a profile by its display name
func ProfileByName(name string) ProfileRef {
	return ProfileRef{name: strings.TrimSpace(name), byName: true}
}

// ID returns the profile ID and true for a by-ID reference
func (p ProfileRef) ID() (int, bool) {
	return p.id, !p.byName
}

// Name returns the profile name and true for a by-name reference
func (p ProfileRef) Name() (string, bool) {
	return p.name, p.byName
}

// IsZero reports whether p references nothing
func (p ProfileRef) IsZero() bool {
	if p.byName {
		return p.name == ""
	}
	return p.id <= 0
}

func (p ProfileRef) String() string {
	if p.byName {
		return fmt.Sprintf("name %q", p.name)
	}
	return fmt.Sprintf("id %d", p.id)
}

// Selector chooses one profile among the Wi-Fi candidates of a catalog scan.
// Candidates are in catalog order and all carry a Wi-Fi payload.
type Selector interface {
	Select(name string, candidates []*jamfpro.ConfigurationProfile) (*jamfpro.ConfigurationProfile, bool)
}

// SelectorFunc adapts a function to Selector
type SelectorFunc func(name string, candidates []*jamfpro.ConfigurationProfile) (*jamfpro.ConfigurationProfile, bool)

// Select calls f
func (f SelectorFunc) Select(name string, candidates []*jamfpro.ConfigurationProfile) (*jamfpro.ConfigurationProfile, bool) {
	return f(name, candidates)
}

// NameSelector picks the first candidate whose name equals the requested
// name, ignoring case and surrounding space.
var NameSelector Selector = SelectorFunc(selectByName)

func selectByName(name string, candidates []*jamfpro.ConfigurationProfile) (*jamfpro.ConfigurationProfile, bool) {
	name = strings.TrimSpace(name)
	for _, c := range candidates {
		if strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return c, true
		}
	}
	return nil, false
}
