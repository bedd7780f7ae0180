package search

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"product-intel/pkg/cache"
	"product-intel/pkg/config"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
)

// ErrSearchFailed wraps any failure in the search backend. Unlike scraping,
// a failed search is fatal for report generation since everything downstream
// depends on it.
var ErrSearchFailed = errors.New("search failed")

const acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
const acceptLanguage = "en-US,en;q=0.9"

// Client queries DuckDuckGo's HTML endpoint for product pages worth scraping.
type Client struct {
	client *http.Client
	cache  *cache.Cache
	cfg    config.WebConfig
	log    logger.Logger
	dedup  *logger.Deduper

	baseURL string
}

func NewClient(c *cache.Cache, cfg config.WebConfig, log logger.Logger) *Client {
	return &Client{
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		cache:   c,
		cfg:     cfg,
		log:     log,
		dedup:   logger.NewDeduper(log),
		baseURL: "https://html.duckduckgo.com/html/",
	}
}

// SearchProducts runs the canonical product query and returns up to
// MaxSearchResults hits. Results are cached per product name.
func (c *Client) SearchProducts(productName string) ([]models.SearchResult, error) {
	cacheKey := "search_" + productName

	var cached []models.SearchResult
	if c.cache.Get(cacheKey, &cached) {
		c.dedup.Printf("using cached search results for %s", productName)
		return cached, nil
	}

	query := productName + " specifications review price features"
	results, err := c.duckduckgo(query)
	if err != nil {
		c.log.Error("search failed", logger.String("product", productName), logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	if len(results) > 0 {
		c.cache.Set(cacheKey, results, 0)
	}
	return results, nil
}

func (c *Client) duckduckgo(query string) ([]models.SearchResult, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequest(http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var results []models.SearchResult
	doc.Find("div.result").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= c.cfg.MaxSearchResults {
			return false
		}
		link := sel.Find("a.result__a")
		snippet := sel.Find("a.result__snippet")
		if link.Length() == 0 || snippet.Length() == 0 {
			return true
		}

		href := cleanURL(link.AttrOr("href", ""))
		results = append(results, models.SearchResult{
			Title:   strings.TrimSpace(link.Text()),
			URL:     href,
			Snippet: strings.TrimSpace(snippet.Text()),
			Domain:  extractDomain(href),
		})
		return true
	})
	return results, nil
}

func cleanURL(raw string) string {
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	return raw
}

func extractDomain(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Host
}
