package types

// ArticleRecord is one row produced by the scraper: arbitrary unstructured
// text plus the metadata columns of the crawl output. ArticleID may be empty,
// in which case the ingest pipeline derives one from the URL.
type ArticleRecord struct {
	ArticleID     string `json:"article_id"     parquet:"article_id"`
	Source        string `json:"source"         parquet:"source"`
	Title         string `json:"title"          parquet:"title"`
	Content       string `json:"content"        parquet:"content"`
	URL           string `json:"url"            parquet:"url"`
	PublishedDate string `json:"published_date" parquet:"published_date"`
	Category      string `json:"category"       parquet:"category"`
}

// Article holds the attributes persisted on an Article node.
type Article struct {
	ArticleID     string `json:"article_id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"published_date"`
}

// Fragment is a bounded, overlapping slice of an article's body text, the
// unit of vector search. ContentID is deterministic:
// "{article_id}_chunk_{index}".
type Fragment struct {
	ContentID  string    `json:"content_id"`
	ArticleID  string    `json:"article_id"`
	Chunk      string    `json:"chunk"`
	ChunkIndex int       `json:"chunk_index"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

// RelatedArticle is a contextual neighbor attached by the graph-expanded
// retrieval strategy: another article in the same category as the hit.
type RelatedArticle struct {
	ArticleID     string `json:"article_id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"published_date"`
}

// RetrievalResult is one ranked hit returned by a retrieval strategy.
// Vector-backed strategies populate Score; the structured strategy returns
// whatever columns its generated query produced, preserved in Raw when they
// do not map onto the named fields.
type RetrievalResult struct {
	ContentID     string           `json:"content_id,omitempty"`
	ArticleID     string           `json:"article_id,omitempty"`
	Title         string           `json:"title,omitempty"`
	URL           string           `json:"url,omitempty"`
	PublishedDate string           `json:"published_date,omitempty"`
	Category      string           `json:"category,omitempty"`
	Media         string           `json:"media,omitempty"`
	Chunk         string           `json:"chunk,omitempty"`
	Score         float64          `json:"score,omitempty"`
	Related       []RelatedArticle `json:"related,omitempty"`
	Raw           map[string]any   `json:"raw,omitempty"`
}

// IngestStats reports the outcome of one batch ingest pass.
type IngestStats struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
	Fragments int `json:"fragments"`
}

// BackfillStats reports the outcome of one embedding backfill pass.
type BackfillStats struct {
	Pending  int `json:"pending"`
	Embedded int `json:"embedded"`
	Failed   int `json:"failed"`
}
