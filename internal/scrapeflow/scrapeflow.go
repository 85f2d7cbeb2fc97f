// Package scrapeflow runs the sequential scrape-then-fetch workflow: trigger
// a scrape, wait a fixed settle delay, then fetch the refreshed company list.
// The backend gives no completion signal, so the delay is a timing assumption
// inherited from observed behavior. A job-handle/poll design would be
// correct, but the backend does not offer one.
package scrapeflow

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/backend"
	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/lead"
	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/model"
	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/store"
)

// Runner executes the scrape workflow.
type Runner struct {
	Backend     backend.Client
	Store       store.Store // optional; when set, results are snapshotted
	SettleDelay time.Duration
	PerPage     int
}

// Result is the outcome of one workflow run.
type Result struct {
	Leads    []model.BusinessLead
	Snapshot *store.Snapshot
}

// Run triggers a scrape with the given filters and returns the normalized
// refreshed list. A failed call is surfaced, never retried; the user decides
// whether to re-trigger.
func (r *Runner) Run(ctx context.Context, authorization string, req model.ScrapeRequest) (*Result, error) {
	if req.TypeBusiness == "" || req.City == "" || req.Country == "" {
		return nil, eris.New("scrapeflow: type_business, city, and country are required")
	}

	log := zap.L().With(
		zap.String("type_business", req.TypeBusiness),
		zap.String("city", req.City),
		zap.String("country", req.Country),
	)

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "scrapeflow: marshal request")
	}

	log.Info("triggering scrape")
	resp, err := r.Backend.TriggerScrape(ctx, authorization, payload)
	if err != nil {
		return nil, eris.Wrap(err, "scrapeflow: trigger scrape")
	}
	if !resp.OK() {
		return nil, eris.Errorf("scrapeflow: scrape rejected with status %d: %s", resp.Status, resp.Message())
	}

	// Let the backend finish ingesting before fetching. No acknowledgment
	// exists; see package comment.
	log.Info("waiting for backend ingestion", zap.Duration("settle", r.SettleDelay))
	select {
	case <-ctx.Done():
		return nil, eris.Wrap(ctx.Err(), "scrapeflow: wait interrupted")
	case <-time.After(r.SettleDelay):
	}

	perPage := r.PerPage
	if perPage <= 0 {
		perPage = 200
	}
	query := url.Values{"per_page": []string{strconv.Itoa(perPage)}}

	listResp, err := r.Backend.ListCompanies(ctx, authorization, query)
	if err != nil {
		return nil, eris.Wrap(err, "scrapeflow: fetch companies")
	}
	if !listResp.OK() {
		return nil, eris.Errorf("scrapeflow: companies fetch failed with status %d: %s", listResp.Status, listResp.Message())
	}

	env, err := backend.DecodeList([]byte(listResp.RawText))
	if err != nil {
		return nil, eris.Wrap(err, "scrapeflow: decode companies")
	}

	leads := lead.NormalizeAll(env.Rows)
	log.Info("scrape complete", zap.Int("leads", len(leads)), zap.String("shape", string(env.Shape)))

	result := &Result{Leads: leads}
	if r.Store != nil {
		snap, err := r.Store.SaveSnapshot(ctx, req, leads)
		if err != nil {
			return nil, eris.Wrap(err, "scrapeflow: save snapshot")
		}
		result.Snapshot = snap
	}
	return result, nil
}
