package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/clientbook/internal/client"
	"github.com/roach88/clientbook/internal/seed"
)

type seedResult struct {
	IDs []int64 `json:"ids"`
}

func (r seedResult) String() string {
	return fmt.Sprintf("seeded %d clients", len(r.IDs))
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [file]",
		Short: "Insert clients from a fixture file",
		Long: `Insert every client from a CUE or YAML fixture file. Without a file,
three sample clients are inserted.

The table must already exist (see init). The whole file is validated
before anything is inserted.

Example:
  clientbook seed ./testdata/clients.cue`,
		Args: positional(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args, cmd)
		},
	}
}

func loadFixtures(args []string) ([]client.Client, error) {
	if len(args) == 0 {
		return seed.Default(), nil
	}

	clients, err := seed.LoadFile(args[0])
	if err == nil {
		return clients, nil
	}
	var seedErr *seed.Error
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, WrapExitError(ExitCommandError, ErrCodeNotFound, "seed file not found", err)
	case errors.As(err, &seedErr):
		return nil, WrapExitError(ExitCommandError, ErrCodeInvalidInput, "invalid seed file", err)
	default:
		return nil, WrapExitError(ExitCommandError, ErrCodeInvalidInput, "failed to load seed file", err)
	}
}

func runSeed(opts *RootOptions, args []string, cmd *cobra.Command) error {
	clients, err := loadFixtures(args)
	if err != nil {
		return err
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	result := seedResult{IDs: make([]int64, 0, len(clients))}
	for i, c := range clients {
		id, err := st.Insert(cmd.Context(), c)
		if err != nil {
			return storeError(fmt.Sprintf("failed to insert client %d of %d (%d inserted)", i+1, len(clients), i), err)
		}
		result.IDs = append(result.IDs, id)
	}
	opts.logger.Info("clients seeded", "count", len(result.IDs))

	return opts.output(cmd).Success(result)
}
