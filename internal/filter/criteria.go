package filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Criterion names accepted by ParseCriteria.
const (
	FirstName = "first_name"
	LastName  = "last_name"
	Email     = "email"
	Phone     = "phone"
)

// names lists criteria in parameter order.
var names = []string{FirstName, LastName, Email, Phone}

// ErrInvalidField matches any InvalidFieldError via errors.Is.
var ErrInvalidField = errors.New("invalid field")

// InvalidFieldError reports a criterion name that is not recognized.
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid criterion %q: must be one of %s", e.Field, strings.Join(names, ", "))
}

// Is reports whether target is ErrInvalidField.
func (e *InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidField
}

// Match is an optional exact-match value. The zero value is unset.
type Match struct {
	value string
	set   bool
}

// Unset is the match that constrains nothing.
var Unset = Match{}

// Eq returns a match requiring equality with v. Eq("") is a real filter.
func Eq(v string) Match {
	return Match{value: v, set: true}
}

// Set reports whether the match constrains results.
func (m Match) Set() bool { return m.set }

// Value returns the matched value, or "" when unset.
func (m Match) Value() string { return m.value }

// Arg returns the SQL parameter for the match: nil (NULL) when unset.
func (m Match) Arg() any {
	if !m.set {
		return nil
	}
	return m.value
}

func (m Match) String() string {
	if !m.set {
		return "<unset>"
	}
	return fmt.Sprintf("%q", m.value)
}

// Criteria selects clients. Each set field must match exactly; Phone matches
// when the value is one of the client's phones.
type Criteria struct {
	FirstName Match
	LastName  Match
	Email     Match
	Phone     Match
}

// Empty reports whether no criterion is set.
func (c Criteria) Empty() bool {
	return !c.FirstName.Set() && !c.LastName.Set() && !c.Email.Set() && !c.Phone.Set()
}

// matches returns the criteria in parameter order.
func (c Criteria) matches() []Match {
	return []Match{c.FirstName, c.LastName, c.Email, c.Phone}
}

// Args returns the ordered parameter list for the compiled predicate.
func (c Criteria) Args() []any {
	ms := c.matches()
	args := make([]any, len(ms))
	for i, m := range ms {
		args[i] = m.Arg()
	}
	return args
}

// Active returns the names of set criteria in parameter order.
func (c Criteria) Active() []string {
	var active []string
	for i, m := range c.matches() {
		if m.Set() {
			active = append(active, names[i])
		}
	}
	return active
}

// ParseCriteria builds criteria from named values. Every present key is set,
// including keys mapped to "". Unknown keys fail with InvalidFieldError; when
// several are unknown, the alphabetically first one is reported.
func ParseCriteria(values map[string]string) (Criteria, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var c Criteria
	for _, k := range keys {
		v := values[k]
		switch k {
		case FirstName:
			c.FirstName = Eq(v)
		case LastName:
			c.LastName = Eq(v)
		case Email:
			c.Email = Eq(v)
		case Phone:
			c.Phone = Eq(v)
		default:
			return Criteria{}, &InvalidFieldError{Field: k}
		}
	}
	return c, nil
}

func (c Criteria) String() string {
	parts := make([]string, 0, len(names))
	for i, m := range c.matches() {
		parts = append(parts, names[i]+"="+m.String())
	}
	return strings.Join(parts, " ")
}
