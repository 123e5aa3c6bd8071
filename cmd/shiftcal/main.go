/*
main.go - Application entry point

PURPOSE:
  The shiftcal command turns photographed weekly shift schedules into a
  calendar of hours and wages.

COMMANDS:
  serve   Run the HTTP API (uploads, calendar, event stream)
  scan    Recognize one schedule image or OCR words file and apply it
  hours   Compute paid hours and wage for one shift

CONFIGURATION:
  Compiled defaults, then the TOML file given by --config, then
  SHIFTCAL_* environment variables. A .env file in the working directory
  is loaded first when present.

EXAMPLES:
  shiftcal serve --config shiftcal.toml
  SHIFTCAL_STORE_DRIVER=sqlite SHIFTCAL_STORE_PATH=shifts.db shiftcal serve
  shiftcal scan --words testdata/week.json
  shiftcal hours 22:00 06:00

SEE ALSO:
  - config/config.go: Every setting and its environment variable
  - api/server.go: Routes
*/
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "shiftcal",
	Short:         "Shift schedule calendar",
	Long:          "shiftcal reads photographed weekly shift schedules and keeps a calendar of worked hours and wages.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "shiftcal.toml", "Path to TOML config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
