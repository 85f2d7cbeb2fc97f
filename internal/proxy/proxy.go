// Package proxy implements the same-origin gateway routes. Each handler
// resolves credentials, forwards the request to the scraper backend, and
// reshapes the reply: failures become the uniform {ok, code, message}
// envelope and the session token only ever travels via HTTP-only cookie.
package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/backend"
	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/lead"
	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/score"
	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/session"
)

// maxBodyBytes bounds incoming request bodies.
const maxBodyBytes = 1 << 20

// Handler serves the gateway API routes.
type Handler struct {
	backend       backend.Client
	secureCookies bool
}

// New creates a gateway handler over the given backend client.
func New(client backend.Client, secureCookies bool) *Handler {
	return &Handler{backend: client, secureCookies: secureCookies}
}

// Routes mounts the API surface.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/register", h.register)
	r.Post("/api/auth/logout", h.logout)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Get("/api/companies", h.companies)
		r.Get("/api/companies/{id}", h.companyDetail)
		r.Get("/api/companies/{id}/crawl", h.companyCrawl)
		r.Get("/api/companies/{id}/score", h.companyScore)
		r.Post("/api/scrape", h.scrape)
		r.Post("/api/prompt-search", h.promptSearch)
	})

	return r
}

// errorEnvelope is the uniform failure shape every route returns.
type errorEnvelope struct {
	OK      bool   `json:"ok"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  any    `json:"detail,omitempty"`
}

// defaultMessage picks wording by status-code class when the upstream did
// not supply its own message.
func defaultMessage(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "Your session has expired. Please log in again."
	case status == http.StatusBadRequest:
		return "The request could not be validated."
	case status >= 500:
		return "The service is temporarily unavailable. Please try again shortly."
	default:
		return "The request failed."
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string, detail any) {
	if message == "" {
		message = defaultMessage(status)
	}
	writeJSON(w, status, errorEnvelope{OK: false, Code: status, Message: message, Detail: detail})
}

// writeUpstreamError rewraps a non-success backend reply, preferring the
// upstream's own message.
func writeUpstreamError(w http.ResponseWriter, resp *backend.Response) {
	writeError(w, resp.Status, resp.Message(), resp.Body)
}

// relay forwards an upstream body and status untouched.
func relay(w http.ResponseWriter, resp *backend.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.ForwardBody())
}

// noStore disables caching so results always reflect the latest scrape.
func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
}

// requireSession short-circuits with the auth-failure envelope when no token
// is resolvable; the request is never forwarded upstream in that case.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := session.Resolve(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
	})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func readBody(r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
}

// login forwards credentials, then moves the token out of the JSON body and
// into an HTTP-only cookie. The caller only ever sees user info and a
// message.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	payload, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	resp, err := h.backend.Login(r.Context(), payload)
	if err != nil {
		zap.L().Error("login forward failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "", nil)
		return
	}
	if !resp.OK() {
		relay(w, resp)
		return
	}

	token := resp.Token()
	if token != "" {
		session.SetCookie(w, token, h.secureCookies)
	}

	message := resp.Message()
	if message == "" {
		message = "Login success"
	}
	writeJSON(w, resp.Status, map[string]any{
		"user":    resp.Body["user"],
		"message": message,
	})
}

// register relays backend errors verbatim, with the upstream status and body
// attached so validation detail survives the hop.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	payload, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	resp, err := h.backend.Register(r.Context(), payload)
	if err != nil {
		zap.L().Error("register forward failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "", nil)
		return
	}
	if !resp.OK() {
		writeJSON(w, resp.Status, map[string]any{
			"message":       firstNonEmpty(resp.Message(), defaultMessage(resp.Status)),
			"backendStatus": resp.Status,
			"backendBody":   resp.Body,
		})
		return
	}
	relay(w, resp)
}

func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	session.ClearCookie(w, h.secureCookies)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// companies proxies the list endpoint with query passthrough and caching
// disabled, so the table always reflects the most recent scrape.
func (h *Handler) companies(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())

	query := url.Values{}
	perPage := r.URL.Query().Get("per_page")
	if perPage == "" {
		perPage = "200"
	}
	query.Set("per_page", perPage)
	for _, key := range []string{"page", "search", "type_business", "city", "country", "min_rating"} {
		if v := r.URL.Query().Get(key); v != "" {
			query.Set(key, v)
		}
	}

	resp, err := h.backend.ListCompanies(r.Context(), s.Authorization, query)
	if err != nil {
		zap.L().Error("companies forward failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "", nil)
		return
	}

	noStore(w)
	if !resp.OK() {
		writeUpstreamError(w, resp)
		return
	}
	relay(w, resp)
}

// companyDetail fetches one company record and returns it as a canonical
// lead, unwrapping an optional {data: {...}} envelope. The URL id backfills
// a payload that carries none.
func (h *Handler) companyDetail(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	resp, err := h.backend.CompanyDetail(r.Context(), s.Authorization, id)
	if err != nil {
		zap.L().Error("company detail forward failed", zap.Error(err), zap.String("company_id", id))
		writeError(w, http.StatusBadGateway, "", nil)
		return
	}

	noStore(w)
	if !resp.OK() {
		writeUpstreamError(w, resp)
		return
	}

	payload := resp.Body
	if data, ok := payload["data"].(map[string]any); ok {
		payload = data
	}
	if _, ok := payload["id"]; !ok {
		payload["id"] = id
	}
	writeJSON(w, resp.Status, lead.Normalize(payload))
}

// companyCrawl relays the crawl detail (emails, phones, socials, about
// summary) untouched; its shape is backend-defined and consumed as-is.
func (h *Handler) companyCrawl(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	resp, err := h.backend.CompanyCrawl(r.Context(), s.Authorization, id)
	if err != nil {
		zap.L().Error("company crawl forward failed", zap.Error(err), zap.String("company_id", id))
		writeError(w, http.StatusBadGateway, "", nil)
		return
	}

	noStore(w)
	if !resp.OK() {
		writeUpstreamError(w, resp)
		return
	}
	relay(w, resp)
}

// companyScore fetches one company's quality score and returns it in the
// canonical {Total, Breakdown} shape regardless of which aliases the backend
// used.
func (h *Handler) companyScore(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	resp, err := h.backend.CompanyScore(r.Context(), s.Authorization, id)
	if err != nil {
		zap.L().Error("company score forward failed", zap.Error(err), zap.String("company_id", id))
		writeError(w, http.StatusBadGateway, "", nil)
		return
	}

	noStore(w)
	if !resp.OK() {
		writeUpstreamError(w, resp)
		return
	}
	writeJSON(w, resp.Status, score.Decode(resp.Body))
}

// scrape validates the required filter fields before any network call, then
// forwards the trigger.
func (h *Handler) scrape(w http.ResponseWriter, r *http.Request) {
	payload, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	var req struct {
		TypeBusiness string `json:"type_business"`
		City         string `json:"city"`
		Country      string `json:"country"`
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.TypeBusiness == "" || req.City == "" || req.Country == "" {
		writeError(w, http.StatusBadRequest, "type_business, city, and country are required", nil)
		return
	}

	s, _ := session.FromContext(r.Context())
	resp, err := h.backend.TriggerScrape(r.Context(), s.Authorization, payload)
	if err != nil {
		zap.L().Error("scrape forward failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "", nil)
		return
	}
	if !resp.OK() {
		writeUpstreamError(w, resp)
		return
	}
	relay(w, resp)
}

func (h *Handler) promptSearch(w http.ResponseWriter, r *http.Request) {
	payload, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	s, _ := session.FromContext(r.Context())
	resp, err := h.backend.PromptSearch(r.Context(), s.Authorization, payload)
	if err != nil {
		zap.L().Error("prompt search forward failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "Could not reach the prompt-search service. Try again shortly.", nil)
		return
	}

	noStore(w)
	if !resp.OK() {
		writeUpstreamError(w, resp)
		return
	}
	relay(w, resp)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
