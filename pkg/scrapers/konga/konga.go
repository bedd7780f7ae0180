package konga

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"product-intel/pkg/config"
	"product-intel/pkg/currency"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Scraper drives a headless browser against Konga's search page. The site is
// a React app, so the result grid only exists after client-side rendering.
type Scraper struct {
	retailer config.Retailer
	timeout  time.Duration
	log      logger.Logger
}

func New(retailer config.Retailer, timeout time.Duration, log logger.Logger) *Scraper {
	return &Scraper{retailer: retailer, timeout: timeout, log: log}
}

func (s *Scraper) ID() string   { return s.retailer.ID }
func (s *Scraper) Name() string { return s.retailer.Name }

func (s *Scraper) Search(productName string) (*models.RetailerOffer, error) {
	searchURL := s.retailer.SearchURL + url.QueryEscape(productName)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	scrapeCtx, cancelScrape := context.WithTimeout(ctx, s.timeout)
	defer cancelScrape()

	var priceStr, href string

	s.log.Debug("scraping konga", logger.String("url", searchURL))

	err := chromedp.Run(scrapeCtx,
		chromedp.Navigate(searchURL),
		chromedp.WaitReady(`div.product-item, section.product-card, [data-testid='product-card']`, chromedp.ByQuery),
		chromedp.Evaluate(`
			(function() {
				const card = document.querySelector("div.product-item")
					|| document.querySelector("section.product-card")
					|| document.querySelector("[data-testid='product-card']");
				if (!card) return "";
				const el = card.querySelector(".product-price")
					|| card.querySelector(".price")
					|| card.querySelector("[class*='price']")
					|| card.querySelector("span[class*='amount']");
				return el ? el.innerText : "";
			})()
		`, &priceStr),
		chromedp.Evaluate(`
			(function() {
				const card = document.querySelector("div.product-item")
					|| document.querySelector("section.product-card")
					|| document.querySelector("[data-testid='product-card']");
				if (!card) return "";
				const link = card.querySelector("a[href]");
				return link ? link.getAttribute("href") : "";
			})()
		`, &href),
	)
	if err != nil {
		s.dumpDebug(ctx)
		return nil, fmt.Errorf("konga render failed: %w", err)
	}

	price, _ := currency.ParsePrice(priceStr)
	if price == nil {
		return nil, models.ErrOfferNotFound
	}

	productURL := href
	if productURL != "" && !strings.HasPrefix(productURL, "http") {
		productURL = s.retailer.BaseURL + productURL
	}

	return &models.RetailerOffer{
		RetailerID:   s.retailer.ID,
		RetailerName: s.retailer.Name,
		PriceNaira:   price,
		ProductURL:   productURL,
		InStock:      true,
		LastChecked:  time.Now().UTC(),
	}, nil
}

func (s *Scraper) dumpDebug(ctx context.Context) {
	debugCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(debugCtx, chromedp.CaptureScreenshot(&buf)); err == nil {
		if err := os.WriteFile("konga_debug.png", buf, 0o644); err == nil {
			s.log.Debug("screenshot saved to konga_debug.png")
		}
	}
}
