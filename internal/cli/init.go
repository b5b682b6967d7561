package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type initResult struct {
	Database string `json:"database"`
	Driver   string `json:"driver"`
}

func (r initResult) String() string {
	return fmt.Sprintf("created empty clients table in %s", r.Database)
}

// NewInitCommand creates the init command.
func NewInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the clients table, deleting any existing one",
		Long: `Create the clients table in the configured database.

An existing clients table is dropped first: every stored client is deleted.

Example:
  clientbook init --db ./clients.db`,
		Args: positional(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd)
		},
	}
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	out := opts.output(cmd)

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	out.Warn("dropping and recreating the clients table; all stored clients are deleted")
	if err := st.CreateSchema(cmd.Context()); err != nil {
		return storeError("failed to create clients table", err)
	}
	opts.logger.Info("clients table created", "database", opts.config.Database.Name)

	return out.Success(initResult{
		Database: opts.config.Database.Name,
		Driver:   st.Driver(),
	})
}
