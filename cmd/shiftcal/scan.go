package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/shift-calendar/config"
	"github.com/warp/shift-calendar/pipeline"
	"github.com/warp/shift-calendar/shift"
)

var (
	scanWords  bool
	scanChoice string
)

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Recognize one schedule and apply it to the calendar",
	Long: `Recognize a schedule image (or, with --words, an OCR words JSON file) and
apply the week to the configured store. When the week already has records
the command stops unless --choice is append, overwrite or cancel.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanWords, "words", false, "Input is an OCR words JSON file instead of an image")
	scanCmd.Flags().StringVar(&scanChoice, "choice", "", "Answer to a week conflict: append, overwrite or cancel")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	var choice pipeline.Choice
	if scanChoice != "" {
		c, err := pipeline.ParseChoice(scanChoice)
		if err != nil {
			return err
		}
		choice = c
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	cfg, logger, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if scanWords {
		cfg.OCR.Provider = config.OCRJSON
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	sub, err := a.pipeline.Process(cmd.Context(), data)
	if !sub.WeekStart.IsZero() {
		printWindow(out, sub)
	}
	if err != nil {
		return err
	}
	if sub.State == pipeline.StateAwaitingChoice {
		if choice == "" {
			return fmt.Errorf("week of %s already has records: rerun with --choice append, overwrite or cancel", sub.WeekStart)
		}
		if sub, err = a.pipeline.Resolve(cmd.Context(), sub.ID, choice); err != nil {
			return err
		}
	}

	printReport(out, sub)
	return nil
}

func printWindow(w io.Writer, sub pipeline.Submission) {
	fmt.Fprintf(w, "week of %s\n", sub.WeekStart)
	for _, line := range sub.Window().Lines() {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

func printReport(w io.Writer, sub pipeline.Submission) {
	fmt.Fprintf(w, "state: %s\n", sub.State)
	if sub.Report == nil {
		return
	}
	if sub.Report.Removed > 0 {
		fmt.Fprintf(w, "removed: %d\n", sub.Report.Removed)
	}
	for _, rec := range sub.Report.Applied {
		fmt.Fprintf(w, "  %s %-12s %5s h %8s\n", rec.Date, rec.TimeRange(), rec.Hours.StringFixed(1), rec.Wage.StringFixed(0))
	}
	for _, sk := range sub.Report.Skipped {
		var ite *shift.InvalidTimeError
		reason := sk.Err.Error()
		if errors.As(sk.Err, &ite) {
			reason = "invalid time " + ite.Value
		}
		fmt.Fprintf(w, "  %s skipped %q: %s\n", sk.Date, sk.Text, reason)
	}
}
