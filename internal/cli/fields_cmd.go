package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newFieldsCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "fields <work-item-id>",
		Short: "Check that the configured custom fields exist on a work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cfg, _, err := env.Load()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p := a.ValidateFields(ctx, args[0])
			fmt.Printf("%s: %s\n", cfg.WorkItem.TicketIDField, presence(p.TicketIDField))
			fmt.Printf("%s: %s\n", cfg.WorkItem.DurationField, presence(p.DurationField))
			if !p.TicketIDField || !p.DurationField {
				return fmt.Errorf("one or more configured fields are missing")
			}
			return nil
		},
	}
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "missing"
}
