package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/lead"
	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/model"
	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/scrapeflow"
	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/store"
)

var (
	scrapeType      string
	scrapeCity      string
	scrapeCountry   string
	scrapeMinRating float64
	scrapeToken     string
	scrapeCSVOut    string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Trigger a scrape and fetch the refreshed lead list",
	RunE: func(cmd *cobra.Command, args []string) error {
		auth, err := resolveToken(scrapeToken)
		if err != nil {
			return err
		}

		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		runner := &scrapeflow.Runner{
			Backend:     newBackendClient(),
			Store:       st,
			SettleDelay: time.Duration(cfg.Backend.ScrapeSettleSecs) * time.Second,
		}

		result, err := runner.Run(cmd.Context(), auth, model.ScrapeRequest{
			TypeBusiness: scrapeType,
			City:         scrapeCity,
			Country:      scrapeCountry,
			MinRating:    scrapeMinRating,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Fetched %d leads", len(result.Leads))
		if result.Snapshot != nil {
			fmt.Printf(" (snapshot %s)", result.Snapshot.ID)
		}
		fmt.Println()

		if scrapeCSVOut != "" {
			if err := writeCSVFile(scrapeCSVOut, result.Leads); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", scrapeCSVOut)
		}
		return nil
	},
}

// resolveToken normalizes a token flag (or LEADS_TOKEN env) into an
// Authorization header value.
func resolveToken(flag string) (string, error) {
	token := flag
	if token == "" {
		token = os.Getenv("LEADS_TOKEN")
	}
	if token == "" {
		return "", eris.New("no token: pass --token or set LEADS_TOKEN")
	}
	if !strings.HasPrefix(token, "Bearer ") {
		token = "Bearer " + token
	}
	return token, nil
}

func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func writeCSVFile(path string, leads []model.BusinessLead) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	if err := lead.ExportCSV(f, leads); err != nil {
		return err
	}
	zap.L().Info("csv written", zap.String("path", path), zap.Int("leads", len(leads)))
	return nil
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeType, "type", "", "business type to scrape (required)")
	scrapeCmd.Flags().StringVar(&scrapeCity, "city", "", "city to scrape (required)")
	scrapeCmd.Flags().StringVar(&scrapeCountry, "country", "", "country to scrape (required)")
	scrapeCmd.Flags().Float64Var(&scrapeMinRating, "min-rating", 0, "minimum rating")
	scrapeCmd.Flags().StringVar(&scrapeToken, "token", "", "bearer token (or LEADS_TOKEN)")
	scrapeCmd.Flags().StringVar(&scrapeCSVOut, "csv", "", "write the fetched leads to a CSV file")
	_ = scrapeCmd.MarkFlagRequired("type")
	_ = scrapeCmd.MarkFlagRequired("city")
	_ = scrapeCmd.MarkFlagRequired("country")
	rootCmd.AddCommand(scrapeCmd)
}
