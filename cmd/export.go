package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/backend"
	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/lead"
	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/model"
)

var (
	exportOut       string
	exportLive      bool
	exportToken     string
	exportSearch    string
	exportType      string
	exportCity      string
	exportCountry   string
	exportMinRating string
	exportPage      int
	exportPageSize  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Filter and export leads to CSV",
	Long:  "Exports the latest local snapshot (or a live fetch with --live) to CSV. Export covers the full filtered set unless --page is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var leads []model.BusinessLead

		if exportLive {
			auth, err := resolveToken(exportToken)
			if err != nil {
				return err
			}
			client := newBackendClient()
			resp, err := client.ListCompanies(cmd.Context(), auth, url.Values{"per_page": []string{"200"}})
			if err != nil {
				return err
			}
			if !resp.OK() {
				return eris.Errorf("companies fetch failed with status %d: %s", resp.Status, resp.Message())
			}
			env, err := backend.DecodeList([]byte(resp.RawText))
			if err != nil {
				return err
			}
			leads = lead.NormalizeAll(env.Rows)
		} else {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := st.LatestSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			if snap == nil {
				return eris.New("no local snapshot; run scrape first or use --live")
			}
			leads = snap.Leads
		}

		filtered := lead.Filter(leads, model.BusinessFilters{
			Search:       exportSearch,
			BusinessType: exportType,
			Rating:       exportMinRating,
			City:         exportCity,
			Country:      exportCountry,
		})

		out := filtered
		if exportPage > 0 {
			pageSize := exportPageSize
			if pageSize <= 0 {
				pageSize = cfg.Export.PageSize
			}
			out = lead.Paginate(filtered, exportPage, pageSize)
		}

		if err := writeCSVFile(exportOut, out); err != nil {
			return err
		}
		fmt.Printf("Exported %d of %d leads to %s\n", len(out), len(filtered), exportOut)
		return nil
	},
}

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List local lead snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		snaps, err := st.ListSnapshots(cmd.Context(), 20)
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			fmt.Println("No snapshots yet.")
			return nil
		}
		for _, s := range snaps {
			fmt.Printf("%s  %s  %s / %s / %s (min rating %s)\n",
				s.ID,
				s.TakenAt.Format("2006-01-02 15:04:05"),
				s.Query.TypeBusiness, s.Query.City, s.Query.Country,
				strconv.FormatFloat(s.Query.MinRating, 'f', 1, 64),
			)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "leads.csv", "output CSV path")
	exportCmd.Flags().BoolVar(&exportLive, "live", false, "fetch from the backend instead of the local snapshot")
	exportCmd.Flags().StringVar(&exportToken, "token", "", "bearer token for --live (or LEADS_TOKEN)")
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "substring search across lead fields")
	exportCmd.Flags().StringVar(&exportType, "type", "", "exact business type filter")
	exportCmd.Flags().StringVar(&exportCity, "city", "", "exact city filter")
	exportCmd.Flags().StringVar(&exportCountry, "country", "", "exact country filter")
	exportCmd.Flags().StringVar(&exportMinRating, "min-rating", "", "minimum rating filter")
	exportCmd.Flags().IntVar(&exportPage, "page", 0, "export a single page instead of the full set")
	exportCmd.Flags().IntVar(&exportPageSize, "page-size", 0, "page size for --page (default from config)")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(snapshotsCmd)
}
