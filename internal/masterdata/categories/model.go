package categories

import (
	"strings"

	"github.com/odyssey-erp/stockdesk/internal/shared"
)

// Fallback is used for imported rows that carry no category.
const Fallback = "Genel"

// ErrEmptyName rejects blank category names.
var ErrEmptyName = shared.NewError(shared.ErrValidation, "categories: name is required")

// Set is an ordered collection of unique category names.
type Set []string

// Defaults returns the categories a fresh installation starts with.
func Defaults() Set {
	return Set{Fallback, "Elektronik", "Hırdavat", "Kırtasiye"}
}

// Normalize trims names and drops blanks and duplicates, keeping first occurrence order.
func Normalize(names []string) Set {
	out := make(Set, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Contains reports membership.
func (s Set) Contains(name string) bool {
	for _, c := range s {
		if c == name {
			return true
		}
	}
	return false
}

// Add appends name when it is not already a member.
func (s Set) Add(name string) (Set, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, false, ErrEmptyName
	}
	if s.Contains(name) {
		return s, false, nil
	}
	out := make(Set, len(s), len(s)+1)
	copy(out, s)
	return append(out, name), true, nil
}

// Remove drops name. Products that still reference it are left untouched.
func (s Set) Remove(name string) (Set, bool) {
	out := make(Set, 0, len(s))
	removed := false
	for _, c := range s {
		if c == name {
			removed = true
			continue
		}
		out = append(out, c)
	}
	return out, removed
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}
