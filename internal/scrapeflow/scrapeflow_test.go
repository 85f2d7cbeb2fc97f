package scrapeflow

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/backend"
	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/model"
	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/store"
)

type flowBackend struct {
	scrapeResp *backend.Response
	scrapeErr  error
	listResp   *backend.Response
	listErr    error

	scrapeCalls int
	listCalls   int
	lastAuth    string
	lastQuery   url.Values
}

func jsonResp(status int, body string) *backend.Response {
	r := &backend.Response{Status: status, RawText: body}
	r.Body = map[string]any{}
	return r
}

func (f *flowBackend) Login(context.Context, []byte) (*backend.Response, error) {
	return nil, nil
}

func (f *flowBackend) Register(context.Context, []byte) (*backend.Response, error) {
	return nil, nil
}

func (f *flowBackend) TriggerScrape(_ context.Context, auth string, _ []byte) (*backend.Response, error) {
	f.scrapeCalls++
	f.lastAuth = auth
	return f.scrapeResp, f.scrapeErr
}

func (f *flowBackend) ListCompanies(_ context.Context, auth string, query url.Values) (*backend.Response, error) {
	f.listCalls++
	f.lastAuth = auth
	f.lastQuery = query
	return f.listResp, f.listErr
}

func (f *flowBackend) CompanyDetail(context.Context, string, string) (*backend.Response, error) {
	return nil, nil
}

func (f *flowBackend) CompanyCrawl(context.Context, string, string) (*backend.Response, error) {
	return nil, nil
}

func (f *flowBackend) CompanyScore(context.Context, string, string) (*backend.Response, error) {
	return nil, nil
}

func (f *flowBackend) PromptSearch(context.Context, string, []byte) (*backend.Response, error) {
	return nil, nil
}

type memStore struct {
	saved *store.Snapshot
}

func (m *memStore) SaveSnapshot(_ context.Context, query model.ScrapeRequest, leads []model.BusinessLead) (*store.Snapshot, error) {
	m.saved = &store.Snapshot{ID: "snap-1", Query: query, Leads: leads, TakenAt: time.Now()}
	return m.saved, nil
}

func (m *memStore) LatestSnapshot(context.Context) (*store.Snapshot, error) { return m.saved, nil }

func (m *memStore) ListSnapshots(context.Context, int) ([]store.Snapshot, error) { return nil, nil }

func (m *memStore) Migrate(context.Context) error { return nil }

func (m *memStore) Close() error { return nil }

func validRequest() model.ScrapeRequest {
	return model.ScrapeRequest{TypeBusiness: "cafe", City: "Lyon", Country: "France", MinRating: 4}
}

func TestRun_TriggerThenFetchAndSnapshot(t *testing.T) {
	fb := &flowBackend{
		scrapeResp: jsonResp(202, `{"status":"accepted"}`),
		listResp:   jsonResp(200, `{"data":[{"company":"Zulu","rating":4.5},{"company":"Alpha","rating":4.1}]}`),
	}
	st := &memStore{}
	r := &Runner{Backend: fb, Store: st, SettleDelay: time.Millisecond, PerPage: 50}

	res, err := r.Run(context.Background(), "Bearer tok", validRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, fb.scrapeCalls)
	assert.Equal(t, 1, fb.listCalls)
	assert.Equal(t, "Bearer tok", fb.lastAuth)
	assert.Equal(t, "50", fb.lastQuery.Get("per_page"))

	require.Len(t, res.Leads, 2)
	assert.Equal(t, "Zulu", res.Leads[0].Company, "backend order survives normalization")
	assert.Equal(t, "Alpha", res.Leads[1].Company)

	require.NotNil(t, res.Snapshot)
	assert.Equal(t, validRequest(), st.saved.Query)
	assert.Len(t, st.saved.Leads, 2)
}

func TestRun_ValidationRejectsBeforeAnyCall(t *testing.T) {
	fb := &flowBackend{}
	r := &Runner{Backend: fb, SettleDelay: time.Millisecond}

	_, err := r.Run(context.Background(), "Bearer tok", model.ScrapeRequest{TypeBusiness: "cafe", Country: "France"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
	assert.Zero(t, fb.scrapeCalls)
	assert.Zero(t, fb.listCalls)
}

func TestRun_RejectedScrapeAbortsBeforeFetch(t *testing.T) {
	fb := &flowBackend{scrapeResp: jsonResp(503, `{"message":"scraper busy"}`)}
	r := &Runner{Backend: fb, SettleDelay: time.Millisecond}

	_, err := r.Run(context.Background(), "Bearer tok", validRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, 1, fb.scrapeCalls)
	assert.Zero(t, fb.listCalls, "no fetch after a rejected trigger")
}

func TestRun_CancelDuringSettleWait(t *testing.T) {
	fb := &flowBackend{scrapeResp: jsonResp(202, `{}`)}
	r := &Runner{Backend: fb, SettleDelay: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := r.Run(ctx, "Bearer tok", validRequest())
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, fb.listCalls)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}

func TestRun_DefaultPerPage(t *testing.T) {
	fb := &flowBackend{
		scrapeResp: jsonResp(202, `{}`),
		listResp:   jsonResp(200, `[]`),
	}
	r := &Runner{Backend: fb, SettleDelay: time.Millisecond}

	res, err := r.Run(context.Background(), "Bearer tok", validRequest())
	require.NoError(t, err)
	assert.Equal(t, "200", fb.lastQuery.Get("per_page"))
	assert.Empty(t, res.Leads)
	assert.Nil(t, res.Snapshot, "no store means no snapshot")
}
