package woocommerce

import (
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"product-intel/pkg/config"
	"product-intel/pkg/currency"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Scraper handles every storefront built on WooCommerce. The platform fixes
// the search markup (li.product cards, span.woocommerce-Price-amount prices)
// so one adapter parameterized by retailer covers Slot, Pointek, Kara, 3C Hub,
// Fouani and the rest.
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
	c := colly.NewCollector(colly.UserAgent(userAgent))
	c.SetRequestTimeout(s.timeout)

	var offer *models.RetailerOffer

	c.OnHTML("li.product, div.product, div.product-small", func(e *colly.HTMLElement) {
		if offer != nil {
			return
		}

		price, _ := currency.ParsePrice(e.ChildText("span.woocommerce-Price-amount"))
		if price == nil {
			price, _ = currency.ParsePrice(e.ChildText("bdi"))
		}
		if price == nil {
			return
		}

		productURL := e.ChildAttr("a[href]", "href")
		if productURL != "" && !strings.HasPrefix(productURL, "http") {
			productURL = s.retailer.BaseURL + productURL
		}

		offer = &models.RetailerOffer{
			RetailerID:   s.retailer.ID,
			RetailerName: s.retailer.Name,
			PriceNaira:   price,
			ProductURL:   productURL,
			InStock:      true,
			LastChecked:  time.Now().UTC(),
		}
	})

	searchURL := s.retailer.SearchURL + url.QueryEscape(productName) + "&post_type=product"
	s.log.Debug("scraping woocommerce store",
		logger.String("retailer", s.retailer.ID), logger.String("url", searchURL))

	if err := c.Visit(searchURL); err != nil {
		return nil, err
	}
	c.Wait()

	if offer == nil {
		return nil, models.ErrOfferNotFound
	}
	return offer, nil
}
