// Package index is the client for the external hybrid index store, a
// Postgres database exposing a single search function that fuses
// keyword, trigram and vector signals into one ranked row set.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/opencivic/sitesearch/internal/domain"
	"github.com/opencivic/sitesearch/internal/domain/search/result"
)

// searchFn is the store-side function. It computes combined_score from
// the three weighted signals and returns rows ordered by it descending;
// ranking is authoritative and never redone client-side.
const searchFn = `
SELECT source_id, title, url, category, published_at, headline, source_type, combined_score
FROM search_content_hybrid(?, ?, ?, ?, ?, ?, ?)`

// Repo implements the search usecase's Store contract over gorm.
type Repo struct {
	db *gorm.DB
}

// New creates an index store client.
func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// rowDTO mirrors one row of the store function's result set.
type rowDTO struct {
	SourceID      string         `gorm:"column:source_id"`
	Title         string         `gorm:"column:title"`
	URL           string         `gorm:"column:url"`
	Category      sql.NullString `gorm:"column:category"`
	PublishedAt   sql.NullTime   `gorm:"column:published_at"`
	Headline      string         `gorm:"column:headline"`
	SourceType    string         `gorm:"column:source_type"`
	CombinedScore float64        `gorm:"column:combined_score"`
}

// HybridSearch issues the single combined store call. vector may be
// nil, in which case the semantic signal contributes nothing and the
// store ranks on keyword+fuzzy alone.
func (r *Repo) HybridSearch(
	ctx context.Context,
	displayQuery, prefixExpr string,
	vector []float32,
	weights domain.Weights,
	maxResults int,
) ([]result.Row, error) {
	var dtos []rowDTO

	err := r.db.WithContext(ctx).
		Raw(searchFn,
			displayQuery,
			prefixExpr,
			vectorParam(vector),
			weights.Keyword,
			weights.Fuzzy,
			weights.Semantic,
			maxResults,
		).
		Scan(&dtos).Error
	if err != nil {
		return nil, storeErr(err)
	}

	rows := make([]result.Row, len(dtos))
	for i := range dtos {
		rows[i] = toRow(&dtos[i])
	}
	return rows, nil
}

// Ping reports store reachability for health checks.
func (r *Repo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping store: %w", err)
	}
	return nil
}

// storeErr wraps a query failure with the store sentinel while keeping
// the driver error in the chain for errors.Is/As at the call site.
func storeErr(err error) error {
	return fmt.Errorf("hybrid search query: %w: %w", err, domain.ErrStoreUnavailable)
}

func toRow(dto *rowDTO) result.Row {
	var published *time.Time
	if dto.PublishedAt.Valid {
		ts := dto.PublishedAt.Time
		published = &ts
	}
	return result.New(
		dto.SourceID,
		dto.Title,
		dto.URL,
		dto.Category.String,
		dto.Headline,
		result.SourceType(dto.SourceType),
		published,
		dto.CombinedScore,
	)
}
