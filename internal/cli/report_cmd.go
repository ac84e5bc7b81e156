package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"timebridge/internal/domain"
	"timebridge/internal/report"
	"timebridge/internal/usecase"
)

func newReportCmd(env *Env) *cobra.Command {
	var (
		out        string
		dateFrom   string
		dateTo     string
		employeeID string
	)
	cmd := &cobra.Command{
		Use:   "report <work-item-id>",
		Short: "Export a per-ticket hours breakdown to an xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, log, err := env.Load()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			f := domain.Filter{DateFrom: dateFrom, DateTo: dateTo, EmployeeID: employeeID}
			summary, err := a.AggregateForWorkItem(ctx, args[0], f, usecase.AggregateOptions{IncludeDetails: true})
			if err != nil {
				return err
			}
			if err := report.WriteSummary(out, summary); err != nil {
				return err
			}
			log.Info("report written")
			fmt.Println(out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "timebridge-report.xlsx", "output file path")
	cmd.Flags().StringVar(&dateFrom, "from", "", "only entries on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dateTo, "to", "", "only entries on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&employeeID, "employee", "", "restrict to a single employee id")
	return cmd
}
