package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/klabast/gemeinde-portal/abfall-feed/internal/app"
	"github.com/klabast/gemeinde-portal/abfall-feed/internal/sbazv"
	"github.com/klabast/gemeinde-portal/abfall-feed/internal/waste"
)

func newExportCmd() *cobra.Command {
	var street, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection schedule as an ICS file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}

			client := sbazv.NewClient(sbazv.ClientConfig{
				FeedURL: cfg.FeedURL,
				TTL:     cfg.CacheTTL,
				Timeout: cfg.FetchTimeout,
				Logger:  newLogger(cfg.LogLevel),
			})

			result := client.FetchCalendar(cmd.Context(), street)

			title := "Abfallkalender"
			if street != "" {
				title = fmt.Sprintf("Abfallkalender %s", street)
			}
			text := waste.ToICS(result.Collections, title)

			if out == "" || out == "-" {
				fmt.Print(text)
				return nil
			}
			return os.WriteFile(out, []byte(text), 0644)
		},
	}

	cmd.Flags().StringVar(&street, "street", "", "Street to tag the schedule with")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file (default: stdout)")
	return cmd
}
