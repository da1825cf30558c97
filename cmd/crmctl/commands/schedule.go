// cmd/crmctl/commands/schedule.go
package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"luckydraw-crm/internal/domain"
	"luckydraw-crm/internal/format"
	"luckydraw-crm/internal/schedule"
)

// schedule --start 2024-01-15 --end 2024-06-15 --amount 500 --paid 2024-01=500
func scheduleCmd() *cobra.Command {
	var (
		start, end, amount, now string
		paid                    []string
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the installment table of a season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := seasonFromFlags(start, end, amount)
			if err != nil {
				return err
			}
			repayments, err := parsePaid(paid)
			if err != nil {
				return err
			}
			at := time.Now()
			if now != "" {
				d, err := domain.ParseDate(now)
				if err != nil {
					return fmt.Errorf("--now: %w", err)
				}
				at = d.Time
			}

			sched, err := schedule.Build(season, repayments, at)
			if err != nil {
				return err
			}
			f, err := format.New(cfg.Currency, cfg.Locale)
			if err != nil {
				return err
			}
			return printSchedule(cmd.OutOrStdout(), f, sched)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "season start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "season end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&amount, "amount", "", "monthly amount")
	cmd.Flags().StringArrayVar(&paid, "paid", nil, "repayment as YYYY-MM=amount, repeatable")
	cmd.Flags().StringVar(&now, "now", "", "evaluate statuses as of this date (default today)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func seasonFromFlags(start, end, amount string) (domain.Season, error) {
	s, err := domain.ParseDate(start)
	if err != nil {
		return domain.Season{}, fmt.Errorf("--start: %w", err)
	}
	e, err := domain.ParseDate(end)
	if err != nil {
		return domain.Season{}, fmt.Errorf("--end: %w", err)
	}
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Season{}, fmt.Errorf("--amount: %w", err)
	}
	return domain.Season{ID: "cli", StartDate: s, EndDate: e, MonthlyAmount: amt}, nil
}

func parsePaid(values []string) ([]domain.Repayment, error) {
	out := make([]domain.Repayment, 0, len(values))
	for _, v := range values {
		month, amount, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("--paid %q: want YYYY-MM=amount", v)
		}
		if _, err := time.Parse("2006-01", month); err != nil {
			return nil, fmt.Errorf("--paid %q: bad month", v)
		}
		amt, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("--paid %q: %w", v, err)
		}
		out = append(out, domain.Repayment{Month: month, Amount: amt})
	}
	return out, nil
}

func printSchedule(w io.Writer, f *format.Formatter, sched *schedule.Schedule) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tMONTH\tDUE\tAMOUNT\tPAID\tSTATUS")
	for _, inst := range sched.Installments {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			inst.Number, f.Month(inst.Month), f.Date(inst.DueDate),
			f.Money(inst.Amount), f.Money(inst.Paid), inst.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	sum := sched.Summary
	fmt.Fprintf(w, "\nmonths: %d  total: %s  paid: %s  outstanding: %s\n",
		sum.Months, f.Money(sum.Total), f.Money(sum.Paid), f.Money(sum.Outstanding))
	if sum.Unmatched > 0 {
		fmt.Fprintf(w, "repayments outside the season: %d\n", sum.Unmatched)
	}
	return nil
}
