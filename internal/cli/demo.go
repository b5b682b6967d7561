package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/clientbook/internal/change"
	"github.com/roach88/clientbook/internal/client"
	"github.com/roach88/clientbook/internal/filter"
	"github.com/roach88/clientbook/internal/seed"
	"github.com/roach88/clientbook/internal/store"
)

type demoStep struct {
	Title   string     `json:"title"`
	Clients clientList `json:"clients"`
}

type demoResult struct {
	Steps []demoStep `json:"steps"`
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through every store operation on a fresh table",
		Long: `Recreate the clients table and run a short session against it: add three
clients, give two of them another phone, search by name and by email,
change the third and remove the second. Each step prints the clients it
touched.

The clients table is dropped first: every stored client is deleted.

Example:
  clientbook demo --db /tmp/demo.db`,
		Args: positional(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts, cmd)
		},
	}
}

func runDemo(opts *RootOptions, cmd *cobra.Command) error {
	out := opts.output(cmd)

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	out.Warn("dropping and recreating the clients table; all stored clients are deleted")
	steps, err := demoSteps(cmd.Context(), st)
	if err != nil {
		return storeError("demo failed", err)
	}
	opts.logger.Info("demo finished", "steps", len(steps))

	if out.Format == "json" {
		return out.Success(demoResult{Steps: steps})
	}
	for _, step := range steps {
		fmt.Fprintln(out.Writer, out.Heading("== "+step.Title))
		if len(step.Clients) > 0 {
			fmt.Fprintln(out.Writer, step.Clients)
		}
	}
	return nil
}

// demoSteps runs the walkthrough and records the clients each step
// produced.
func demoSteps(ctx context.Context, st *store.Store) ([]demoStep, error) {
	var steps []demoStep

	if err := st.CreateSchema(ctx); err != nil {
		return nil, err
	}
	steps = append(steps, demoStep{Title: "create clients table"})

	clients := seed.Default()
	for i := range clients {
		id, err := st.Insert(ctx, clients[i])
		if err != nil {
			return nil, err
		}
		clients[i].ID = id
	}
	steps = append(steps, demoStep{Title: "add clients", Clients: clone(clients)})
	ivan, petr, sidr := &clients[0], &clients[1], &clients[2]

	ivan.AddPhone("+7 981 010-99-44")
	petr.AddPhone("+7 916 555-77-38")
	for _, c := range []*client.Client{ivan, petr} {
		if _, err := st.Update(ctx, c.ID, change.Set{}.Phones(c.Phones...)); err != nil {
			return nil, err
		}
	}
	stored, err := findAll(ctx, st, ivan.ID, petr.ID)
	if err != nil {
		return nil, err
	}
	steps = append(steps, demoStep{Title: "add phones", Clients: stored})

	searches := []struct {
		title    string
		criteria filter.Criteria
	}{
		{"find first_name=\"Иван\"", filter.Criteria{FirstName: filter.Eq("Иван")}},
		{"find email=\"petya_petrov@yandex.ru\"", filter.Criteria{Email: filter.Eq("petya_petrov@yandex.ru")}},
	}
	for _, s := range searches {
		found, err := st.FindByCriteria(ctx, s.criteria)
		if err != nil {
			return nil, err
		}
		steps = append(steps, demoStep{Title: s.title, Clients: found})
	}

	changes := change.Set{}.LastName("Новофамильский").Phones("+7 978 888-77-55")
	if _, err := st.Update(ctx, sidr.ID, changes); err != nil {
		return nil, err
	}
	stored, err = findAll(ctx, st, sidr.ID)
	if err != nil {
		return nil, err
	}
	steps = append(steps, demoStep{Title: fmt.Sprintf("update client #%d %s", sidr.ID, changes), Clients: stored})

	if err := st.Remove(ctx, petr.ID); err != nil {
		return nil, err
	}
	steps = append(steps, demoStep{Title: fmt.Sprintf("remove client #%d", petr.ID)})

	rest, err := st.FindByCriteria(ctx, filter.Criteria{})
	if err != nil {
		return nil, err
	}
	steps = append(steps, demoStep{Title: "remaining clients", Clients: rest})

	return steps, nil
}

// findAll reads the clients with the given ids, skipping missing ones.
func findAll(ctx context.Context, st *store.Store, ids ...int64) (clientList, error) {
	var out clientList
	for _, id := range ids {
		c, ok, err := st.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func clone(clients []client.Client) clientList {
	out := make(clientList, len(clients))
	for i, c := range clients {
		out[i] = c.Clone()
	}
	return out
}
