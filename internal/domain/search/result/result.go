// Package result models the rows returned by the hybrid store call and
// their grouping into the public result envelope.
package result

import "time"

// SourceType identifies the CMS entity a row came from.
type SourceType string

// Known source types. Rows with any other type are dropped during
// grouping so new CMS entities can ship before the search engine
// learns about them.
const (
	SourcePost     SourceType = "post"
	SourceDocument SourceType = "document"
	SourcePage     SourceType = "page"
	SourceEvent    SourceType = "event"
)

// Row is a single matched entity as ranked by the store. The store
// computes and orders by combined_score; rows are never re-ranked
// client-side.
type Row struct {
	id          string
	title       string
	url         string
	category    string
	headline    string
	sourceType  SourceType
	publishedAt *time.Time
	score       float64
}

// New creates a result row. category and publishedAt are optional.
func New(
	id, title, url, category, headline string,
	sourceType SourceType, publishedAt *time.Time, score float64,
) Row {
	return Row{
		id: id, title: title, url: url,
		category: category, headline: headline,
		sourceType: sourceType, publishedAt: publishedAt, score: score,
	}
}

// ID returns the source entity identifier.
func (r *Row) ID() string { return r.id }

// Title returns the entity title.
func (r *Row) Title() string { return r.title }

// URL returns the target url.
func (r *Row) URL() string { return r.url }

// Category returns the optional category, empty when absent.
func (r *Row) Category() string { return r.category }

// Headline returns the highlighted snippet.
func (r *Row) Headline() string { return r.headline }

// Source returns the row's source type.
func (r *Row) Source() SourceType { return r.sourceType }

// PublishedAt returns the optional publication timestamp.
func (r *Row) PublishedAt() *time.Time { return r.publishedAt }

// Score returns the combined relevance score computed by the store.
func (r *Row) Score() float64 { return r.score }
