package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/clientbook/internal/filter"
	"github.com/roach88/clientbook/internal/store"
)

// FindOptions holds flags for the find command.
type FindOptions struct {
	*RootOptions
	Explain bool
}

// findFlags maps flag names to the criteria they set.
var findFlags = []struct {
	flag, criterion, usage string
}{
	{"first", filter.FirstName, "match first name exactly"},
	{"last", filter.LastName, "match last name exactly"},
	{"email", filter.Email, "match email exactly"},
	{"phone", filter.Phone, "match clients having this phone number"},
}

type explainResult struct {
	FullScan bool     `json:"full_scan"`
	Active   []string `json:"active"`
	Notes    []string `json:"notes"`
	SQL      string   `json:"sql"`
}

type findResult struct {
	Clients clientList     `json:"clients"`
	Explain *explainResult `json:"explain,omitempty"`
}

func (r findResult) String() string {
	if r.Explain == nil {
		return r.Clients.String()
	}
	var b strings.Builder
	b.WriteString("query: " + r.Explain.SQL + "\n")
	for _, note := range r.Explain.Notes {
		b.WriteString("note: " + note + "\n")
	}
	b.WriteString(r.Clients.String())
	return b.String()
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FindOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find clients matching all given fields",
		Long: `Find clients matching every given flag, ordered by id.

Flags that are not given do not filter. A flag given with an empty value
matches only clients whose field is empty. With no flags every client is
listed.

Example:
  clientbook find --first Иван
  clientbook find --phone "+7 333 222-11-00" --explain`,
		Args: positional(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(opts, cmd)
		},
	}

	for _, f := range findFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
	cmd.Flags().BoolVar(&opts.Explain, "explain", false, "describe how the search is evaluated")

	return cmd
}

// criteriaFromFlags sets a criterion for every flag given on the command
// line, including flags given an empty value.
func criteriaFromFlags(cmd *cobra.Command) (filter.Criteria, error) {
	values := make(map[string]string)
	for _, f := range findFlags {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		v, err := cmd.Flags().GetString(f.flag)
		if err != nil {
			return filter.Criteria{}, err
		}
		values[f.criterion] = v
	}
	return filter.ParseCriteria(values)
}

func runFind(opts *FindOptions, cmd *cobra.Command) error {
	criteria, err := criteriaFromFlags(cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeInvalidInput, "invalid search", err)
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	opts.logger.Debug("searching clients", "criteria", criteria.String())
	clients, err := st.FindByCriteria(cmd.Context(), criteria)
	if err != nil {
		return storeError("failed to search clients", err)
	}

	result := findResult{Clients: clientList(clients)}
	if opts.Explain {
		analysis := filter.Describe(criteria)
		active := analysis.Active
		if active == nil {
			active = []string{}
		}
		result.Explain = &explainResult{
			FullScan: analysis.FullScan,
			Active:   active,
			Notes:    analysis.Notes,
			SQL:      store.SearchQuery(),
		}
	}

	return opts.output(cmd).Success(result)
}
