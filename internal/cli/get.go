package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one client",
		Long: `Show the client with the given id. Exits with status 1 if there is none.

Example:
  clientbook get 3 --format json`,
		Args: positional(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, args[0], cmd)
		},
	}
}

func runGet(opts *RootOptions, arg string, cmd *cobra.Command) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	c, ok, err := st.FindByID(cmd.Context(), id)
	if err != nil {
		return storeError("failed to read client", err)
	}
	if !ok {
		return NewExitError(ExitFailure, ErrCodeNotFound, fmt.Sprintf("client #%d not found", id))
	}

	return opts.output(cmd).Success(clientResult{c})
}
