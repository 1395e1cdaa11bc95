package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/opencivic/sitesearch/internal/domain"
	"github.com/opencivic/sitesearch/internal/domain/search/result"
	"github.com/opencivic/sitesearch/internal/metrics"
	healthuc "github.com/opencivic/sitesearch/internal/usecase/health"
	searchuc "github.com/opencivic/sitesearch/internal/usecase/search"
)

func TestMain(m *testing.M) {
	metrics.RegisterSearchMetrics()
	os.Exit(m.Run())
}

func newTestServer(store *fakeStore) *Server {
	svc := searchuc.New(store, &fakeResolver{}, domain.DefaultWeights())
	health := healthuc.New(&fakePinger{}, nil)
	return NewServer(svc, health, zap.NewNop())
}

func doSearch(t *testing.T, srv *Server, target string) (*httptest.ResponseRecorder, searchResponse) {
	t.Helper()
	req := httptest.NewRequest("GET", target, http.NoBody)
	rr := httptest.NewRecorder()
	srv.HandleSearch(rr, req)

	var body searchResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rr, body
}

func TestHandleSearch_Success(t *testing.T) {
	ts := result.New("1", "Zapora ceste", "/novice/1", "promet", "<b>zapora</b>", result.SourcePost, nil, 0.9)
	srv := newTestServer(&fakeStore{rows: []result.Row{ts}})

	rr, body := doSearch(t, srv, "/api/search?q=zapora")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if body.TotalCount != 1 {
		t.Errorf("totalCount = %d, want 1", body.TotalCount)
	}
	if body.Query != "zapora" {
		t.Errorf("query echo = %q", body.Query)
	}
	if len(body.Results.Posts) != 1 || body.Results.Posts[0].ID != "1" {
		t.Errorf("unexpected posts bucket: %+v", body.Results.Posts)
	}
}

func TestHandleSearch_ShortQueryIsTrivialSuccess(t *testing.T) {
	store := &fakeStore{}
	srv := newTestServer(store)

	rr, body := doSearch(t, srv, "/api/search?q=x")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if body.TotalCount != 0 {
		t.Errorf("totalCount = %d, want 0", body.TotalCount)
	}
	if body.Query != "x" {
		t.Errorf("query echo = %q, want %q", body.Query, "x")
	}
	if store.called {
		t.Error("store must not be touched for short queries")
	}
}

func TestHandleSearch_EmptyQueryEchoedBack(t *testing.T) {
	srv := newTestServer(&fakeStore{})

	rr, body := doSearch(t, srv, "/api/search")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if body.Query != "" {
		t.Errorf("query echo = %q, want empty", body.Query)
	}
}

func TestHandleSearch_StoreFailure(t *testing.T) {
	srv := newTestServer(&fakeStore{err: domain.ErrStoreUnavailable})

	req := httptest.NewRequest("GET", "/api/search?q=bukovec", http.NoBody)
	rr := httptest.NewRecorder()
	srv.HandleSearch(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Code != codeInternal {
		t.Errorf("code = %q, want %q", body.Code, codeInternal)
	}
	if body.Query != "bukovec" {
		t.Errorf("query echo = %q", body.Query)
	}
	if body.Results.Posts == nil || len(body.Results.Posts) != 0 {
		t.Error("error envelope must carry empty, present buckets")
	}
	if body.Message == "" || body.Message == domain.ErrStoreUnavailable.Error() {
		t.Errorf("message must be generic, got %q", body.Message)
	}
}

func TestHandleHealth_Degraded(t *testing.T) {
	svc := searchuc.New(&fakeStore{}, &fakeResolver{}, domain.DefaultWeights())
	health := healthuc.New(&fakePinger{err: errStoreDown}, nil)
	srv := NewServer(svc, health, zap.NewNop())

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	srv.HandleHealth(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}
