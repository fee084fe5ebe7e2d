package form

import "maps"

// Preferences is an editable copy of a user's notification preferences.
type Preferences struct {
	userID int64
	orig   map[string]bool
	draft  map[string]bool
}

// NewPreferences seeds a draft for userID. Every type in catalog gets an
// entry; types missing from current default to false.
func NewPreferences(userID int64, current map[string]bool, catalog []string) *Preferences {
	draft := make(map[string]bool, len(catalog))
	for _, tipo := range catalog {
		draft[tipo] = current[tipo]
	}
	for tipo, on := range current {
		if _, ok := draft[tipo]; !ok {
			draft[tipo] = on
		}
	}
	return &Preferences{userID: userID, orig: maps.Clone(draft), draft: draft}
}

// UserID returns the owner of the preferences.
func (p *Preferences) UserID() int64 { return p.userID }

// Toggle flips the preference for tipo and leaves every other one unchanged.
func (p *Preferences) Toggle(tipo string) {
	p.draft[tipo] = !p.draft[tipo]
}

// Enabled reports the draft value for tipo.
func (p *Preferences) Enabled(tipo string) bool {
	return p.draft[tipo]
}

// Dirty reports whether the draft differs from the seeded values.
func (p *Preferences) Dirty() bool {
	return !maps.Equal(p.orig, p.draft)
}

// Values returns a copy of the draft suitable for the update request.
func (p *Preferences) Values() map[string]bool {
	return maps.Clone(p.draft)
}
