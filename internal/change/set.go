package change

import (
	"slices"
	"sort"
	"strings"
)

// Field is a client field that can be changed.
type Field string

const (
	FirstName Field = "first_name"
	LastName  Field = "last_name"
	Email     Field = "email"
	Phones    Field = "phones"
)

// allFields is the canonical field order.
var allFields = []Field{FirstName, LastName, Email, Phones}

func fieldNames() []string {
	out := make([]string, len(allFields))
	for i, f := range allFields {
		out[i] = string(f)
	}
	return out
}

// ParseField returns the Field named s, or an InvalidFieldError.
func ParseField(s string) (Field, error) {
	f := Field(s)
	if !slices.Contains(allFields, f) {
		return "", &InvalidFieldError{Field: s}
	}
	return f, nil
}

// Set is a sparse change-set. The zero value changes nothing.
//
// Setters return the set so calls can be chained:
//
//	s := change.Set{}.LastName("Новофамильский").Phones("+7 978 888-77-55")
type Set struct {
	firstName *string
	lastName  *string
	email     *string
	phones    []string
	hasPhones bool
}

// FirstName sets the first name.
func (s Set) FirstName(v string) Set {
	s.firstName = &v
	return s
}

// LastName sets the last name.
func (s Set) LastName(v string) Set {
	s.lastName = &v
	return s
}

// Email sets the email address.
func (s Set) Email(v string) Set {
	s.email = &v
	return s
}

// Phones replaces the whole phone list. With no arguments it clears the list.
func (s Set) Phones(numbers ...string) Set {
	s.phones = slices.Clone(numbers)
	if s.phones == nil {
		s.phones = []string{}
	}
	s.hasPhones = true
	return s
}

// ClearPhones sets the phone list to empty.
func (s Set) ClearPhones() Set {
	return s.Phones()
}

// Has reports whether f is part of the set.
func (s Set) Has(f Field) bool {
	switch f {
	case FirstName:
		return s.firstName != nil
	case LastName:
		return s.lastName != nil
	case Email:
		return s.email != nil
	case Phones:
		return s.hasPhones
	}
	return false
}

// Fields returns the changed fields in canonical order.
func (s Set) Fields() []Field {
	var out []Field
	for _, f := range allFields {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Len returns the number of changed fields.
func (s Set) Len() int {
	return len(s.Fields())
}

// Empty reports whether the set changes nothing.
func (s Set) Empty() bool {
	return s.Len() == 0
}

func (s Set) String() string {
	parts := make([]string, 0, len(allFields))
	for _, f := range s.Fields() {
		parts = append(parts, string(f))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FromMap builds a set from loosely typed input such as decoded JSON or CLI
// flags. Text fields take strings. phones takes []string, []any of strings,
// or nil; nil clears the list. Unknown keys fail with InvalidFieldError and
// wrongly typed values with TypeError. Keys are checked in sorted order so the
// reported error is deterministic.
func FromMap(m map[string]any) (Set, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var s Set
	for _, k := range keys {
		f, err := ParseField(k)
		if err != nil {
			return Set{}, err
		}
		v := m[k]

		if f == Phones {
			phones, err := toPhones(v)
			if err != nil {
				return Set{}, err
			}
			s = s.Phones(phones...)
			continue
		}

		str, ok := v.(string)
		if !ok {
			return Set{}, &TypeError{Field: f, Value: v, Want: "string"}
		}
		switch f {
		case FirstName:
			s = s.FirstName(str)
		case LastName:
			s = s.LastName(str)
		case Email:
			s = s.Email(str)
		}
	}
	return s, nil
}

func toPhones(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return val, nil
	case []any:
		out := make([]string, len(val))
		for i, elem := range val {
			str, ok := elem.(string)
			if !ok {
				return nil, &TypeError{Field: Phones, Value: elem, Want: "string phone number"}
			}
			out[i] = str
		}
		return out, nil
	default:
		return nil, &TypeError{Field: Phones, Value: v, Want: "list of strings"}
	}
}
