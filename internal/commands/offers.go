package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/offerlab/internal/offers"
)

func newOffersCommand() *cobra.Command {
	var avgMonthlyNet, configPath, output string

	cmd := &cobra.Command{
		Use:   "offers",
		Short: "Price the offer catalog for an average monthly net deposit figure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			avg, err := decimal.NewFromString(avgMonthlyNet)
			if err != nil {
				return fmt.Errorf("parsing --avg-monthly-net %q: %w", avgMonthlyNet, err)
			}
			cfg, _, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runOffers(cmd.OutOrStdout(), avg, cfg.Offers, output)
		},
	}

	cmd.Flags().StringVar(&avgMonthlyNet, "avg-monthly-net", "", "average monthly net deposits (required)")
	_ = cmd.MarkFlagRequired("avg-monthly-net")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ./offerlab.yaml if present)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output: text or json")

	return cmd
}

func runOffers(out io.Writer, avg decimal.Decimal, o offers.Options, output string) error {
	catalog := offers.GenerateFor(avg, o)

	switch output {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(catalog); err != nil {
			return fmt.Errorf("encoding offers: %w", err)
		}
		return nil
	case "text":
	default:
		return fmt.Errorf("unknown output %q (want text or json)", output)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIER\tMETHOD\tFACTOR\tADVANCE\tPAYBACK\tPAYMENT\tDAYS")
	for _, offer := range catalog {
		payment, days := describePayment(offer)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			offer.Tier, offer.Method, offer.Factor.StringFixed(2), offer.Advance, offer.Payback, payment, days)
	}
	return tw.Flush()
}

func describePayment(o offers.Offer) (string, int) {
	switch {
	case o.DailyPayment != nil:
		return o.DailyPayment.String() + "/day", o.EstTermDays
	case o.WeeklyPayment != nil:
		return o.WeeklyPayment.String() + "/week", o.EstTermDays
	case o.HoldbackDaily != nil:
		return fmt.Sprintf("%s/day (%s%%)", o.HoldbackDaily, o.HoldbackPct.Mul(decimal.NewFromInt(100)).String()), o.EstHoldbackDurationDays
	}
	return "", 0
}
