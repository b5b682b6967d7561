package filter

import "fmt"

// Analysis describes how a criteria set will be evaluated.
type Analysis struct {
	// FullScan is true when no criterion is set and every row is returned.
	FullScan bool

	// Active lists the set criteria in parameter order.
	Active []string

	// Notes are human-readable remarks about the evaluation.
	Notes []string
}

// Describe analyzes criteria without touching the database.
func Describe(c Criteria) Analysis {
	a := Analysis{
		FullScan: c.Empty(),
		Active:   c.Active(),
		Notes:    []string{},
	}

	if a.FullScan {
		a.addNote("no criteria set: every row is returned (full table scan)")
		return a
	}

	for i, m := range c.matches() {
		if !m.Set() {
			continue
		}
		if m.Value() == "" {
			a.addNote("%s matches empty values only", names[i])
		}
	}
	if c.Phone.Set() {
		a.addNote("phone is tested by membership in each row's phone list")
	}
	return a
}

func (a *Analysis) addNote(format string, args ...any) {
	a.Notes = append(a.Notes, fmt.Sprintf(format, args...))
}
