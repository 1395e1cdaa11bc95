package result

const (
	// MaxPerType caps each bucket of the grouped response.
	MaxPerType = 5
	// MaxTotal caps how many rows are requested from the store. It is
	// smaller than 4*MaxPerType, so in practice the store cap binds
	// before the per-type cap does; that is expected.
	MaxTotal = 20
)

// Item is one grouped hit in the public response shape.
type Item struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Category    string  `json:"category,omitempty"`
	PublishedOn string  `json:"publishedOn,omitempty"`
	Headline    string  `json:"headline"`
	Score       float64 `json:"score"`
}

// Grouped partitions ranked rows by content type. Bucket order follows
// store ranking; each bucket holds at most MaxPerType items.
type Grouped struct {
	Posts     []Item `json:"posts"`
	Documents []Item `json:"documents"`
	Pages     []Item `json:"pages"`
	Events    []Item `json:"events"`
}

// Empty returns a grouped result with all buckets present but empty,
// so the JSON renders [] rather than null.
func Empty() Grouped {
	return Grouped{
		Posts:     []Item{},
		Documents: []Item{},
		Pages:     []Item{},
		Events:    []Item{},
	}
}

// Group partitions rows into the four buckets, capping each at
// MaxPerType and silently dropping unrecognized source types.
func Group(rows []Row) Grouped {
	g := Empty()
	for i := range rows {
		bucket := g.bucketFor(rows[i].Source())
		if bucket == nil || len(*bucket) >= MaxPerType {
			continue
		}
		*bucket = append(*bucket, toItem(&rows[i]))
	}
	return g
}

// TotalCount is the sum of the four bucket lengths.
func (g *Grouped) TotalCount() int {
	return len(g.Posts) + len(g.Documents) + len(g.Pages) + len(g.Events)
}

func (g *Grouped) bucketFor(t SourceType) *[]Item {
	switch t {
	case SourcePost:
		return &g.Posts
	case SourceDocument:
		return &g.Documents
	case SourcePage:
		return &g.Pages
	case SourceEvent:
		return &g.Events
	default:
		return nil
	}
}

func toItem(r *Row) Item {
	item := Item{
		ID:       r.ID(),
		Title:    r.Title(),
		URL:      r.URL(),
		Category: r.Category(),
		Headline: r.Headline(),
		Score:    r.Score(),
	}
	if ts := r.PublishedAt(); ts != nil {
		item.PublishedOn = ts.Format("2006-01-02")
	}
	return item
}
