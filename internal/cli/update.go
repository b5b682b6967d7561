package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/clientbook/internal/change"
)

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	FirstName   string
	LastName    string
	Email       string
	Phones      []string
	ClearPhones bool
}

type updateResult struct {
	ID      int64         `json:"id"`
	Applied bool          `json:"applied"`
	Client  *clientResult `json:"client,omitempty"`
}

func (r updateResult) String() string {
	if !r.Applied {
		return fmt.Sprintf("no such client #%d, nothing updated", r.ID)
	}
	if r.Client == nil {
		return fmt.Sprintf("updated client #%d", r.ID)
	}
	return "updated " + r.Client.String()
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a client",
		Long: `Change the given fields of a client; other fields keep their values.

--phone replaces the whole phone list and may be repeated. --clear-phones
empties it. Updating an id that does not exist changes nothing and is
reported, not treated as an error.

Example:
  clientbook update 3 --last Новофамильский --phone "+7 978 888-77-55"
  clientbook update 1 --clear-phones`,
		Args: positional(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.FirstName, "first", "", "new first name")
	cmd.Flags().StringVar(&opts.LastName, "last", "", "new last name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "new email")
	cmd.Flags().StringArrayVar(&opts.Phones, "phone", nil, "new phone list entry (repeatable, replaces the list)")
	cmd.Flags().BoolVar(&opts.ClearPhones, "clear-phones", false, "remove all phone numbers")

	return cmd
}

// changesFromFlags builds a change set holding only the flags given on the
// command line.
func changesFromFlags(opts *UpdateOptions, cmd *cobra.Command) (change.Set, error) {
	flags := cmd.Flags()
	if flags.Changed("phone") && flags.Changed("clear-phones") {
		return change.Set{}, fmt.Errorf("--phone and --clear-phones cannot be used together")
	}

	var s change.Set
	if flags.Changed("first") {
		s = s.FirstName(opts.FirstName)
	}
	if flags.Changed("last") {
		s = s.LastName(opts.LastName)
	}
	if flags.Changed("email") {
		s = s.Email(opts.Email)
	}
	if flags.Changed("phone") {
		s = s.Phones(opts.Phones...)
	}
	if opts.ClearPhones {
		s = s.ClearPhones()
	}
	if s.Empty() {
		return change.Set{}, fmt.Errorf("nothing to update: give at least one of --first, --last, --email, --phone, --clear-phones")
	}
	return s, nil
}

func runUpdate(opts *UpdateOptions, arg string, cmd *cobra.Command) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	changes, err := changesFromFlags(opts, cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeInvalidInput, "invalid update", err)
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	applied, err := st.Update(cmd.Context(), id, changes)
	if err != nil {
		return storeError("failed to update client", err)
	}

	result := updateResult{ID: id, Applied: applied}
	if !applied {
		opts.logger.Warn("no such client, nothing updated", "id", id)
		return opts.output(cmd).Success(result)
	}
	opts.logger.Info("client updated", "id", id, "fields", changes.String())

	c, ok, err := st.FindByID(cmd.Context(), id)
	if err != nil {
		return storeError("failed to read updated client", err)
	}
	if ok {
		result.Client = &clientResult{c}
	}
	return opts.output(cmd).Success(result)
}
