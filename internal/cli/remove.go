package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type removeResult struct {
	ID int64 `json:"id"`
}

func (r removeResult) String() string {
	return fmt.Sprintf("removed client #%d", r.ID)
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a client",
		Long: `Remove the client with the given id. Removing an id that does not
exist succeeds and changes nothing.

Example:
  clientbook remove 2`,
		Args: positional(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(opts, args[0], cmd)
		},
	}
}

func runRemove(opts *RootOptions, arg string, cmd *cobra.Command) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	if err := st.Remove(cmd.Context(), id); err != nil {
		return storeError("failed to remove client", err)
	}
	opts.logger.Info("client removed", "id", id)

	return opts.output(cmd).Success(removeResult{ID: id})
}
