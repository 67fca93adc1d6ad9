package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/headline-dedup/internal/dedup"
)

type responseEnvelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newTestServer(opts Options) *Server {
	if opts.Threshold == 0 {
		opts.Threshold = 0.9
	}
	if opts.UpdateThreshold == 0 {
		opts.UpdateThreshold = 0.92
	}
	return NewServer(dedup.NewService(zerolog.Nop(), nil), zerolog.Nop(), opts)
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, responseEnvelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var env responseEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func TestNewServerDefaults(t *testing.T) {
	t.Parallel()

	srv := NewServer(nil, zerolog.Nop(), Options{})
	if srv.opts.Host != "0.0.0.0" || srv.opts.Port != 8090 {
		t.Fatalf("unexpected defaults: %+v", srv.opts)
	}
	if srv.opts.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout: %s", srv.opts.ShutdownTimeout)
	}
	if srv.opts.MaxBatchItems != defaultMaxBatchItems || srv.opts.MaxTitleBytes != defaultMaxTitleBytes {
		t.Fatalf("unexpected bounds: %+v", srv.opts)
	}
	if len(srv.opts.AllowOrigins) != 1 || srv.opts.AllowOrigins[0] != "*" {
		t.Fatalf("unexpected origins: %v", srv.opts.AllowOrigins)
	}
	if err := srv.Start(t.Context()); err == nil {
		t.Fatalf("expected Start to fail without a service")
	}
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	rec, env := doJSON(t, newTestServer(Options{}), http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("unexpected health response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestHandleNormalize(t *testing.T) {
	t.Parallel()

	rec, env := doJSON(t, newTestServer(Options{}), http.MethodPost, "/api/v1/normalize", `{"text":"  Hello   World  "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %s", rec.Code, rec.Body.String())
	}

	var data struct {
		Normalized string `json:"normalized"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Normalized != "hello world" {
		t.Fatalf("unexpected normalized text: %q", data.Normalized)
	}
}

func TestHandleNormalizeRequiresText(t *testing.T) {
	t.Parallel()

	rec, env := doJSON(t, newTestServer(Options{}), http.MethodPost, "/api/v1/normalize", `{}`)
	if rec.Code != http.StatusBadRequest || env.Status != "fail" {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"text":"is required"`) {
		t.Fatalf("expected text validation error, got %s", rec.Body.String())
	}
}

func TestHandleSimilarity(t *testing.T) {
	t.Parallel()

	srv := newTestServer(Options{})
	cases := []struct {
		body string
		want float64
	}{
		{body: `{"a":"cyclone hits coast","b":"Cyclone  HITS coast"}`, want: 1},
		{body: `{"a":"a","b":""}`, want: 0},
		{body: `{"a":"","b":""}`, want: 1},
		{body: `{"a":"abcd","b":"abed"}`, want: 0.75},
	}

	for _, tc := range cases {
		rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/similarity", tc.body)
		if rec.Code != http.StatusOK {
			t.Fatalf("unexpected status for %s: %d %s", tc.body, rec.Code, rec.Body.String())
		}
		var data struct {
			Ratio float64 `json:"ratio"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
		if data.Ratio != tc.want {
			t.Fatalf("unexpected ratio for %s: got %v want %v", tc.body, data.Ratio, tc.want)
		}
	}
}

func TestHandleSimilarityValidation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(Options{MaxTitleBytes: 4})
	rec, _ := doJSON(t, srv, http.MethodPost, "/api/v1/similarity", `{"a":"toolong"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"a":"must be at most 4 bytes"`) || !strings.Contains(body, `"b":"is required"`) {
		t.Fatalf("unexpected validation errors: %s", body)
	}

	rec, _ = doJSON(t, srv, http.MethodPost, "/api/v1/similarity", `{"a":"x","b":"y","c":"z"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected unknown field to be rejected, got %d", rec.Code)
	}
}

func TestHandleCluster(t *testing.T) {
	t.Parallel()

	body := `{
		"payload_version":"v1",
		"threshold":0.65,
		"items":[
			{"title":"Cyclone Gezani hits Madagascar"},
			{"title":"Cyclone Gezani strikes Madagascar coast"},
			{"title":"Earthquake in Turkey"},
			{"title":"Earthquake strikes Turkey"}
		]
	}`
	rec, env := doJSON(t, newTestServer(Options{}), http.MethodPost, "/api/v1/cluster", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %s", rec.Code, rec.Body.String())
	}

	var report dedup.Report
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.Clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(report.Clusters))
	}
	if got := report.Clusters[1].Members; len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("unexpected second cluster: %v", got)
	}
	if report.Threshold != 0.65 {
		t.Fatalf("unexpected threshold: %v", report.Threshold)
	}
}

func TestHandleClusterEmptyBatch(t *testing.T) {
	t.Parallel()

	rec, env := doJSON(t, newTestServer(Options{}), http.MethodPost, "/api/v1/cluster", `{"payload_version":"v1","items":[]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(string(env.Data), `"clusters":[]`) {
		t.Fatalf("expected empty cluster list, got %s", env.Data)
	}
}

func TestHandleClusterRejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	rec, env := doJSON(t, newTestServer(Options{}), http.MethodPost, "/api/v1/cluster", `{"items":[]}`)
	if rec.Code != http.StatusBadRequest || env.Status != "fail" {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestHandleClusterEnforcesBounds(t *testing.T) {
	t.Parallel()

	srv := newTestServer(Options{MaxBatchItems: 2})
	body := `{"payload_version":"v1","items":[{"title":"a"},{"title":"b"},{"title":"c"}]}`
	rec, _ := doJSON(t, srv, http.MethodPost, "/api/v1/cluster", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized batch, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "at most 2 entries") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	srv = newTestServer(Options{MaxTitleBytes: 3})
	rec, _ = doJSON(t, srv, http.MethodPost, "/api/v1/cluster", `{"payload_version":"v1","items":[{"title":"abcd"}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized title, got %d", rec.Code)
	}
}

func TestHandleMatch(t *testing.T) {
	t.Parallel()

	srv := newTestServer(Options{})
	body := `{"title":"Cyclone Gezani hits Madagascar coast","previous":["Earthquake in Turkey","cyclone gezani hits madagascar coast"]}`
	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/match", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %s", rec.Code, rec.Body.String())
	}

	var result dedup.MatchResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Status != dedup.StatusUpdated || result.MatchedIndex == nil || *result.MatchedIndex != 1 {
		t.Fatalf("unexpected match result: %+v", result)
	}
	if result.Threshold != 0.92 {
		t.Fatalf("expected configured update threshold, got %v", result.Threshold)
	}

	rec, env = doJSON(t, srv, http.MethodPost, "/api/v1/match", `{"title":"Flooding in Brazil","previous":["Earthquake in Turkey"],"threshold":0.5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	result = dedup.MatchResult{}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Status != dedup.StatusNew || result.Threshold != 0.5 {
		t.Fatalf("unexpected match result: %+v", result)
	}
}

func TestUnknownRouteUsesJSend(t *testing.T) {
	t.Parallel()

	rec, env := doJSON(t, newTestServer(Options{}), http.MethodGet, "/api/v1/nope", "")
	if rec.Code != http.StatusNotFound || env.Status != "fail" {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
}
