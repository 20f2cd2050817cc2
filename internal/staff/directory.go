// Package staff holds the static staff directory that bridges login emails
// and legacy coach-name fragments.
package staff

import (
	"sort"
	"strings"

	"github.com/Defimaso/Diario362-sub001/config"
)

// Entry describes one staff login. Several entries may share a LegacyName
// (primary address and alias of the same coach).
type Entry struct {
	Email       string
	DisplayName string
	LegacyName  string
}

// Directory is immutable after construction and safe for concurrent use.
type Directory struct {
	superAdmin string
	byEmail    map[string]Entry
	byFragment map[string][]string
}

// New builds a directory. Emails and fragments are matched case-insensitively.
func New(superAdminEmail string, entries []Entry) *Directory {
	d := &Directory{
		superAdmin: normalize(superAdminEmail),
		byEmail:    make(map[string]Entry, len(entries)),
		byFragment: make(map[string][]string),
	}
	for _, e := range entries {
		email := normalize(e.Email)
		if email == "" {
			continue
		}
		if _, dup := d.byEmail[email]; dup {
			continue
		}
		e.Email = email
		d.byEmail[email] = e

		if frag := normalize(e.LegacyName); frag != "" {
			d.byFragment[frag] = append(d.byFragment[frag], email)
		}
	}
	for _, emails := range d.byFragment {
		sort.Strings(emails)
	}
	return d
}

// FromConfig loads the directory from the staff section.
func FromConfig(c config.StaffConfig) *Directory {
	entries := make([]Entry, 0, len(c.Directory))
	for _, e := range c.Directory {
		entries = append(entries, Entry{
			Email:       e.Email,
			DisplayName: e.DisplayName,
			LegacyName:  e.LegacyName,
		})
	}
	return New(c.SuperAdminEmail, entries)
}

// SuperAdminEmail is mirrored on every legacy-resolved coach notification.
func (d *Directory) SuperAdminEmail() string { return d.superAdmin }

// EmailsForFragment returns every login email denoting the fragment. The
// returned slice is a copy.
func (d *Directory) EmailsForFragment(fragment string) []string {
	emails := d.byFragment[normalize(fragment)]
	out := make([]string, len(emails))
	copy(out, emails)
	return out
}

// Lookup finds the entry for a login email.
func (d *Directory) Lookup(email string) (Entry, bool) {
	e, ok := d.byEmail[normalize(email)]
	return e, ok
}

// LegacyNameFor translates a login email to its legacy fragment.
func (d *Directory) LegacyNameFor(email string) (string, bool) {
	e, ok := d.Lookup(email)
	if !ok || e.LegacyName == "" {
		return "", false
	}
	return e.LegacyName, true
}

func (d *Directory) Len() int { return len(d.byEmail) }

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
