package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/clientbook/internal/client"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	FirstName string
	LastName  string
	Email     string
	Phones    []string
}

type addResult struct {
	ID int64 `json:"id"`
}

func (r addResult) String() string {
	return fmt.Sprintf("added client #%d", r.ID)
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a client",
		Long: `Add a client and print its new id.

Every field is optional. --phone may be repeated; numbers are kept in the
order given.

Example:
  clientbook add --first Иван --last Ивановский --email ivan@example.org \
    --phone "+7 211 122-17-12" --phone "+7 122 211-92-11"`,
		Args: positional(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.FirstName, "first", "", "first name (at most 40 characters)")
	cmd.Flags().StringVar(&opts.LastName, "last", "", "last name (at most 40 characters)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email (at most 80 characters)")
	cmd.Flags().StringArrayVar(&opts.Phones, "phone", nil, "phone number (at most 30 characters, repeatable)")

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command) error {
	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	c := client.New(opts.FirstName, opts.LastName, opts.Email, opts.Phones...)
	id, err := st.Insert(cmd.Context(), *c)
	if err != nil {
		return storeError("failed to add client", err)
	}
	opts.logger.Info("client added", "id", id)

	return opts.output(cmd).Success(addResult{ID: id})
}
