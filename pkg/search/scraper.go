package search

import (
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"product-intel/pkg/cache"
	"product-intel/pkg/config"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
)

// Elements stripped before content extraction. What's left should read like
// article text, not chrome.
var strippedElements = "script, style, nav, footer, header, aside, iframe"

var contentSelectors = []string{
	"main", "article",
	"div.content", "div#content",
	"div.main-content", "div.article-content",
	"div.post-content", "div.entry-content",
}

// Scraper pulls the main text out of search result pages.
type Scraper struct {
	client    *http.Client
	cache     *cache.Cache
	cfg       config.WebConfig
	log       logger.Logger
	sleepFunc func(time.Duration)
}

func NewScraper(c *cache.Cache, cfg config.WebConfig, log logger.Logger) *Scraper {
	return &Scraper{
		client:    &http.Client{Timeout: cfg.RequestTimeout},
		cache:     c,
		cfg:       cfg,
		log:       log,
		sleepFunc: time.Sleep,
	}
}

// ScrapeContent fetches up to MaxScrapeResults pages, politely spaced. Pages
// that fail or yield nothing are skipped.
func (s *Scraper) ScrapeContent(results []models.SearchResult) []models.ScrapedContent {
	var scraped []models.ScrapedContent

	limit := len(results)
	if limit > s.cfg.MaxScrapeResults {
		limit = s.cfg.MaxScrapeResults
	}
	for i := 0; i < limit; i++ {
		content := s.scrapePage(results[i].URL, results[i].Title)
		if content != nil {
			scraped = append(scraped, *content)
		}
		if i < len(results)-1 {
			s.sleepFunc(s.cfg.RequestDelay)
		}
	}
	return scraped
}

func (s *Scraper) scrapePage(pageURL, title string) *models.ScrapedContent {
	cacheKey := "content_" + pageURL

	var cached models.ScrapedContent
	if s.cache.Get(cacheKey, &cached) {
		return &cached
	}

	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("scraping failed", logger.String("url", pageURL), logger.Err(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		s.log.Warn("scraping failed", logger.String("url", pageURL),
			logger.Int("status", resp.StatusCode))
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		s.log.Warn("scraping failed", logger.String("url", pageURL), logger.Err(err))
		return nil
	}

	doc.Find(strippedElements).Remove()

	content := extractMainContent(doc)
	if content == "" {
		return nil
	}

	content = cleanContent(content)
	if len(content) > s.cfg.MaxContentLength {
		content = content[:s.cfg.MaxContentLength]
	}

	scraped := &models.ScrapedContent{
		URL:           pageURL,
		Title:         title,
		Content:       content,
		ContentLength: len(content),
		ScrapedAt:     time.Now().UTC(),
	}
	s.cache.Set(cacheKey, scraped, 0)
	return scraped
}

func extractMainContent(doc *goquery.Document) string {
	for _, sel := range contentSelectors {
		if el := doc.Find(sel).First(); el.Length() > 0 {
			return el.Text()
		}
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body.Text()
	}
	return ""
}

func cleanContent(content string) string {
	return strings.Join(strings.Fields(content), " ")
}
