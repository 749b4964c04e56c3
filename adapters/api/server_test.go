package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"promptlab/adapters/stats/engine"
	"promptlab/app"
	"promptlab/domain/run"
	"promptlab/internal/storage"

	"github.com/gin-gonic/gin"
)

func newTestServer() (*Server, *storage.MemoryRunRepository) {
	repo := storage.NewMemoryRunRepository()
	eval := app.NewEvaluationService(engine.NewEngine(nil), repo)
	return NewServer(eval, repo, gin.TestMode), repo
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func goldGroups() map[string][]float64 {
	return map[string][]float64{
		"control":   {10, 12, 9, 11, 13},
		"treatment": {20, 22, 19, 21, 23},
	}
}

func TestEvaluateEndpoint_FullRun(t *testing.T) {
	srv, _ := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/evaluate", map[string]interface{}{
		"label":  "api-run",
		"names":  []string{"control", "treatment"},
		"groups": goldGroups(),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var rec run.Run
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if rec.ID == "" {
		t.Error("run should carry an ID")
	}
	if rec.Label != "api-run" {
		t.Errorf("label = %q", rec.Label)
	}
	if len(rec.Reports) != 2 || len(rec.Comparisons) != 1 {
		t.Fatalf("reports=%d comparisons=%d", len(rec.Reports), len(rec.Comparisons))
	}
	if !rec.Comparisons[0].Result.Significant {
		t.Error("separated groups should test significant")
	}
}

func TestEvaluateEndpoint_UndersizedGroupIs400(t *testing.T) {
	srv, _ := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/evaluate", map[string]interface{}{
		"label":  "thin",
		"names":  []string{"only"},
		"groups": map[string][]float64{"only": {42}},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "error") {
		t.Error("error body should carry an error field")
	}
}

func TestEvaluateEndpoint_MalformedJSONIs400(t *testing.T) {
	srv, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestDescriptiveEndpoint(t *testing.T) {
	srv, _ := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/descriptive", map[string]interface{}{
		"sample": []float64{1, 2, 3, 4, 5},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var report struct {
		Count int     `json:"count"`
		Mean  float64 `json:"mean"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Count != 5 || report.Mean != 3 {
		t.Errorf("count=%d mean=%g", report.Count, report.Mean)
	}
}

func TestDescriptiveEndpoint_EmptySampleIs400(t *testing.T) {
	srv, _ := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/descriptive", map[string]interface{}{
		"sample": []float64{},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", w.Code, w.Body.String())
	}
}

func TestTTestEndpoint(t *testing.T) {
	srv, _ := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/ttest", map[string]interface{}{
		"sample_a": []float64{10, 12, 9, 11, 13},
		"sample_b": []float64{20, 22, 19, 21, 23},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var result struct {
		TStatistic  float64 `json:"t_statistic"`
		Significant bool    `json:"significant"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.TStatistic != -10 {
		t.Errorf("t = %g, want -10", result.TStatistic)
	}
	if !result.Significant {
		t.Error("gold scenario should test significant")
	}
}

func TestTTestEndpoint_UnknownAlternativeIs400(t *testing.T) {
	srv, _ := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/ttest", map[string]interface{}{
		"sample_a": []float64{1, 2, 3},
		"sample_b": []float64{4, 5, 6},
		"options":  map[string]string{"alternative": "sideways"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "sideways") {
		t.Error("error should name the rejected value")
	}
}

func TestRunsEndpoints(t *testing.T) {
	srv, _ := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/evaluate", map[string]interface{}{
		"label":  "stored",
		"names":  []string{"control", "treatment"},
		"groups": goldGroups(),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("evaluate status = %d", w.Code)
	}
	var created run.Run
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created run: %v", err)
	}

	w = doJSON(t, srv, http.MethodGet, "/api/v1/runs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var listed struct {
		Runs  []run.Run `json:"runs"`
		Count int       `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if listed.Count != 1 || len(listed.Runs) != 1 {
		t.Fatalf("count=%d runs=%d, want 1", listed.Count, len(listed.Runs))
	}

	w = doJSON(t, srv, http.MethodGet, "/api/v1/runs/"+created.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var fetched run.Run
	if err := json.Unmarshal(w.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if fetched.Label != "stored" {
		t.Errorf("label = %q", fetched.Label)
	}
}

func TestGetRun_MissingIs404(t *testing.T) {
	srv, _ := newTestServer()

	w := doJSON(t, srv, http.MethodGet, "/api/v1/runs/no-such-run", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body %s", w.Code, w.Body.String())
	}
}

func TestListRuns_BadLimitIs400(t *testing.T) {
	srv, _ := newTestServer()

	w := doJSON(t, srv, http.MethodGet, "/api/v1/runs?limit=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer()

	w := doJSON(t, srv, http.MethodGet, "/api/v1/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
