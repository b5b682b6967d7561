package change

import (
	"slices"

	"github.com/roach88/clientbook/internal/client"
)

// Merge returns current with the fields of s applied. ID and every field not
// in s are preserved. current is not modified.
func Merge(current client.Client, s Set) client.Client {
	next := current.Clone()

	if s.firstName != nil {
		next.FirstName = *s.firstName
	}
	if s.lastName != nil {
		next.LastName = *s.lastName
	}
	if s.email != nil {
		next.Email = *s.email
	}
	if s.hasPhones {
		next.Phones = slices.Clone(s.phones)
		if next.Phones == nil {
			next.Phones = []string{}
		}
	}
	return next
}
