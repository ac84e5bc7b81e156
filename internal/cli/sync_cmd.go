package cli

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"timebridge/internal/domain"
	"timebridge/internal/usecase"
)

func newSyncCmd(env *Env) *cobra.Command {
	var (
		dateFrom     string
		dateTo       string
		employeeID   string
		ticketFilter string
		details      bool
	)
	cmd := &cobra.Command{
		Use:   "sync <work-item-id>",
		Short: "Run one integration run for a work item and write the total back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, _, err := env.Load()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			f := domain.Filter{
				DateFrom:   dateFrom,
				DateTo:     dateTo,
				EmployeeID: employeeID,
				TicketID:   ticketFilter,
			}
			summary, err := a.RunOnce(ctx, args[0], f, usecase.AggregateOptions{IncludeDetails: details})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}
	cmd.Flags().StringVar(&dateFrom, "from", "", "only entries on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dateTo, "to", "", "only entries on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&employeeID, "employee", "", "restrict to a single employee id")
	cmd.Flags().StringVar(&ticketFilter, "ticket-filter", "", "only tickets whose id contains this substring")
	cmd.Flags().BoolVar(&details, "details", false, "fetch ticket metadata for a per-ticket breakdown")
	return cmd
}
