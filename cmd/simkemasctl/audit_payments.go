package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/simkemas/simkemas-backend/internal/finance"
	"github.com/simkemas/simkemas-backend/internal/orders"
	"github.com/simkemas/simkemas-backend/pkg/codegen"
)

var auditFix bool

var auditPaymentsCmd = &cobra.Command{
	Use:   "audit-payments",
	Short: "Find orders whose stored payment_status drifted from the amounts",
	Long: `Recompute payment_status from total, adjustment and paid amounts for every
order and list the rows that disagree. With --fix the drifted rows are rewritten.`,
	RunE: auditPayments,
}

func init() {
	auditPaymentsCmd.Flags().BoolVar(&auditFix, "fix", false, "rewrite drifted payment_status values")
	rootCmd.AddCommand(auditPaymentsCmd)
}

func auditPayments(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	cash, err := finance.NewLedger(finance.NewRepository(e.db.DB()), nil)
	if err != nil {
		return err
	}
	svc, err := orders.NewService(orders.NewRepository(e.db.DB()), cash, e.db, codegen.Generator{}, nil, e.logg)
	if err != nil {
		return err
	}

	report, err := svc.Audit(ctx, auditFix)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(report.Drifted) > 0 {
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tSTORED\tDERIVED")
		for _, d := range report.Drifted {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Code, d.Stored, d.Derived)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "scanned %d orders, %d drifted, %d fixed\n", report.Scanned, len(report.Drifted), report.Fixed)
	return nil
}
