package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/clientbook/internal/client"
)

// clientResult renders one client as canonical JSON, or as its String form
// in text mode.
type clientResult struct {
	client.Client
}

func (r clientResult) MarshalJSON() ([]byte, error) {
	return client.MarshalCanonical(r.View())
}

func (r clientResult) String() string {
	return r.Client.String()
}

// clientList renders clients as a canonical JSON array, or one per line.
type clientList []client.Client

func (l clientList) MarshalJSON() ([]byte, error) {
	views := make([]client.View, len(l))
	for i, c := range l {
		views[i] = c.View()
	}
	return client.MarshalCanonicalList(views)
}

func (l clientList) String() string {
	if len(l) == 0 {
		return "no clients found"
	}
	lines := make([]string, len(l))
	for i, c := range l {
		lines[i] = c.String()
	}
	return strings.Join(lines, "\n")
}

// parseID parses a client id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, ErrCodeInvalidInput,
			fmt.Sprintf("invalid client id %q: must be a positive integer", arg))
	}
	return id, nil
}

// positional wraps a cobra argument validator so that its failures are
// command errors.
func positional(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, ErrCodeInvalidInput, "invalid arguments", err)
		}
		return nil
	}
}
