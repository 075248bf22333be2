package model

import "github.com/github/go-spdx/v2/spdxexp"

// License is a (name, title, description, url) tuple, cached in memory by
// name by the catalogue store (pkg/catalog).
type License struct {
	Name        string
	Title       string
	Description string
	URL         string
}

// LooksLikeSPDXIdentifier reports whether Name parses as a valid SPDX
// license expression. Windows freeware/shareware license names are usually
// free-form ("Freeware", "Shareware", a vendor's own EULA name) and are
// accepted unchanged regardless of this check — it only gates the optional
// validation surfaced by `npackd package show --validate-license`.
func (l *License) LooksLikeSPDXIdentifier() bool {
	if l.Name == "" {
		return false
	}
	valid, invalid := spdxexp.ValidateLicenses([]string{l.Name})
	return valid && len(invalid) == 0
}
