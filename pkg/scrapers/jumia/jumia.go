package jumia

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

// Scraper reads the first result card from Jumia's search page. Jumia lists
// each product as article.prd with the price in div.prc and the pre-discount
// price, when present, in div.old.
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

	c.OnHTML("article.prd", func(e *colly.HTMLElement) {
		if offer != nil {
			return
		}

		price, _ := currency.ParsePrice(e.ChildText("div.prc"))
		if price == nil {
			return
		}

		var originalPrice *float64
		if old := e.ChildText("div.old"); old != "" {
			originalPrice, _ = currency.ParsePrice(old)
		}

		var discount *float64
		if originalPrice != nil && *originalPrice > *price {
			d := (*originalPrice - *price) / *originalPrice * 100
			discount = &d
		}

		productURL := ""
		if href := e.ChildAttr("a.core", "href"); href != "" {
			productURL = s.absolute(href)
		}

		offer = &models.RetailerOffer{
			RetailerID:      s.retailer.ID,
			RetailerName:    s.retailer.Name,
			PriceNaira:      price,
			OriginalPrice:   originalPrice,
			DiscountPercent: discount,
			ProductURL:      productURL,
			InStock:         true,
			LastChecked:     time.Now().UTC(),
		}
	})

	searchURL := s.retailer.SearchURL + url.QueryEscape(productName)
	s.log.Debug("scraping jumia", logger.String("url", searchURL))

	if err := c.Visit(searchURL); err != nil {
		return nil, err
	}
	c.Wait()

	if offer == nil {
		return nil, models.ErrOfferNotFound
	}
	return offer, nil
}

func (s *Scraper) absolute(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return s.retailer.BaseURL + href
}
