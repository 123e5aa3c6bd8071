package main

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/shift-calendar/shift"
)

var hoursWage string

var hoursCmd = &cobra.Command{
	Use:   "hours <start> <end>",
	Short: "Compute paid hours and wage for one shift",
	Long:  "Compute paid hours for a shift given as HH:MM start and end. An end earlier than the start crosses midnight.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		wage := shift.DefaultHourlyWage
		if hoursWage != "" {
			w, err := decimal.NewFromString(hoursWage)
			if err != nil {
				return fmt.Errorf("invalid --wage %q: %w", hoursWage, err)
			}
			wage = w
		}
		return printHours(cmd.OutOrStdout(), args[0], args[1], wage)
	},
}

func init() {
	hoursCmd.Flags().StringVarP(&hoursWage, "wage", "w", "", "Hourly wage (default 10030)")
	rootCmd.AddCommand(hoursCmd)
}

func printHours(w io.Writer, start, end string, wage decimal.Decimal) error {
	gross, err := shift.GrossHours(start, end)
	if err != nil {
		return err
	}
	hours, err := shift.ComputeHours(start, end)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "gross: %s h\n", gross.StringFixed(2))
	fmt.Fprintf(w, "break: %s h\n", shift.BreakFor(gross).String())
	fmt.Fprintf(w, "paid:  %s h\n", hours.StringFixed(2))
	fmt.Fprintf(w, "wage:  %s\n", shift.ComputeWage(hours, wage).StringFixed(0))
	return nil
}
