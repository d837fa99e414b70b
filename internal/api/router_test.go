package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/epscreen/internal/api/handlers"
	"github.com/wonny/epscreen/internal/brain"
	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/pkg/config"
	"github.com/wonny/epscreen/pkg/logger"
)

// fakeRunner returns canned results
type fakeRunner struct {
	mu      sync.Mutex
	runs    []brain.RunConfig
	runErr  error
	block   chan struct{}
	diff    contracts.DiffResult
	diffErr error
}

func (f *fakeRunner) Run(_ context.Context, cfg brain.RunConfig) (*brain.RunResult, error) {
	f.mu.Lock()
	f.runs = append(f.runs, cfg)
	f.mu.Unlock()

	if f.block != nil {
		<-f.block
	}
	if f.runErr != nil {
		return nil, f.runErr
	}

	rows := []contracts.ScoreRow{contracts.NewInsufficientRow("AAPL")}
	return &brain.RunResult{
		Report: &contracts.Report{
			RunID:       "run-1",
			GeneratedAt: time.Date(2024, 6, 3, 21, 0, 0, 0, time.UTC),
			Tickers:     []string{"AAPL"},
			Rows:        rows,
			Stats:       contracts.CountRows(rows),
		},
	}, nil
}

func (f *fakeRunner) Diff(context.Context, string) (contracts.DiffResult, error) {
	return f.diff, f.diffErr
}

func newTestRouter(runner *fakeRunner) http.Handler {
	h := handlers.NewScreenHandler(runner, &handlers.ReportStore{}, "qm1w.txt", "out", logger.Nop())
	return NewRouter(h, logger.Nop())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(&fakeRunner{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestScreenThenReport(t *testing.T) {
	runner := &fakeRunner{}
	router := newTestRouter(runner)

	rec := do(t, router, http.MethodGet, "/api/report", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/screen", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Report  contracts.Report  `json:"report"`
		Records []json.RawMessage `json:"records"`
		Files   interface{}       `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "run-1", resp.Report.RunID)
	assert.Len(t, resp.Records, 1)
	assert.Nil(t, resp.Files)
	assert.Equal(t, "", runner.runs[0].OutputDir)

	rec = do(t, router, http.MethodGet, "/api/report", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "run-1")

	rec = do(t, router, http.MethodGet, "/api/report?format=html", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<table>")

	rec = do(t, router, http.MethodGet, "/api/report?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScreen_WriteFiles(t *testing.T) {
	runner := &fakeRunner{}
	rec := do(t, newTestRouter(runner), http.MethodPost, "/api/screen", `{"write_files":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "out", runner.runs[0].OutputDir)
	assert.Equal(t, "qm1w.txt", runner.runs[0].UniverseFile)
}

func TestScreen_Errors(t *testing.T) {
	tests := []struct {
		name   string
		runErr error
		body   string
		want   int
	}{
		{"bad body", nil, "{", http.StatusBadRequest},
		{"load failure", contracts.ErrLoadFailure, "", http.StatusUnprocessableEntity},
		{"other failure", errors.New("disk full"), "", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestRouter(&fakeRunner{runErr: tt.runErr}), http.MethodPost, "/api/screen", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestScreen_RejectsConcurrentRun(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	router := newTestRouter(runner)

	done := make(chan int)
	go func() {
		done <- do(t, router, http.MethodPost, "/api/screen", "").Code
	}()

	require.Eventually(t, func() bool {
		runner.mu.Lock()
		defer runner.mu.Unlock()
		return len(runner.runs) == 1
	}, time.Second, 5*time.Millisecond)

	rec := do(t, router, http.MethodPost, "/api/screen", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(runner.block)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestDiff(t *testing.T) {
	runner := &fakeRunner{diff: contracts.DiffResult{Added: []string{"D"}, Removed: []string{"A"}}}
	rec := do(t, newTestRouter(runner), http.MethodGet, "/api/diff", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"added":["D"],"removed":["A"]}`, rec.Body.String())

	runner = &fakeRunner{diffErr: contracts.ErrLoadFailure}
	rec = do(t, newTestRouter(runner), http.MethodGet, "/api/diff", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, newTestRouter(&fakeRunner{}), http.MethodGet, "/api/screen", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	srv := New(&config.Config{Port: "0", Env: "development"}, logger.Nop(), http.NotFoundHandler())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
