package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/klabast/gemeinde-portal/abfall-feed/internal/app"
	"github.com/klabast/gemeinde-portal/abfall-feed/internal/sbazv"
	"github.com/klabast/gemeinde-portal/abfall-feed/internal/waste"
)

func newFetchCmd() *cobra.Command {
	var street, feedURL string
	var perStreet bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the collection schedule once and print it as JSON",
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

			var result waste.FetchResult
			switch {
			case feedURL != "":
				result = client.FetchFromURL(cmd.Context(), feedURL, street)
			case perStreet:
				result = client.FetchForStreet(cmd.Context(), street)
			default:
				result = client.FetchCalendar(cmd.Context(), street)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&street, "street", "", "Street to tag the schedule with")
	cmd.Flags().StringVar(&feedURL, "url", "", "Fetch this feed URL instead of SBAZV_FEED_URL")
	cmd.Flags().BoolVar(&perStreet, "per-street", false, "Resolve the feed URL through the street registry")
	return cmd
}
