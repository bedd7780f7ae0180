package models

import "time"

// SearchResult is one hit from the web search backend.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Domain  string `json:"domain"`
}

// ScrapedContent is the cleaned main text of one scraped page.
type ScrapedContent struct {
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	ContentLength int       `json:"content_length"`
	ScrapedAt     time.Time `json:"scrape_timestamp"`
}

// ImageCandidate is one product image found on any source. Identity for
// deduplication purposes is the (URL, ThumbnailURL) pair.
type ImageCandidate struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Source       string `json:"source"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	AltText      string `json:"alt_text,omitempty"`
}

// ReviewDocument is the structured output of the text-generation
// collaborator. It is the base content every other enrichment attaches to.
type ReviewDocument struct {
	ProductName    string   `json:"product_name"`
	Specifications string   `json:"specifications_inferred"`
	Rating         string   `json:"predicted_rating"`
	Pros           []string `json:"pros"`
	Cons           []string `json:"cons"`
	Assessment     string   `json:"expert_assessment"`
	PriceInfo      string   `json:"price_info,omitempty"`
	Sources        []string `json:"sources,omitempty"`
	DataSourceType string   `json:"data_source_type,omitempty"`
}
