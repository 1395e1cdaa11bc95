package chi

import (
	"context"
	"errors"

	"github.com/opencivic/sitesearch/internal/domain"
	"github.com/opencivic/sitesearch/internal/domain/search/result"
)

var errStoreDown = errors.New("store down")

// fakeStore backs the search service in handler tests.
type fakeStore struct {
	rows   []result.Row
	err    error
	called bool
}

func (f *fakeStore) HybridSearch(
	_ context.Context, _, _ string, _ []float32, _ domain.Weights, _ int,
) ([]result.Row, error) {
	f.called = true
	return f.rows, f.err
}

// fakeResolver always reports no embedding provider.
type fakeResolver struct{ called bool }

func (f *fakeResolver) Resolve(_ context.Context, _ string) domain.Resolution {
	f.called = true
	return domain.Miss()
}

// fakePinger backs the health service.
type fakePinger struct{ err error }

func (f *fakePinger) Ping(_ context.Context) error { return f.err }
