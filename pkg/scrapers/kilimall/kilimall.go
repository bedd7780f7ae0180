package kilimall

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

	c.OnHTML("div.product-item, li.product-list-item", func(e *colly.HTMLElement) {
		if offer != nil {
			return
		}

		price, _ := currency.ParsePrice(e.ChildText("span.price"))
		if price == nil {
			price, _ = currency.ParsePrice(e.ChildText("[class*=price]"))
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

	searchURL := s.retailer.SearchURL + url.QueryEscape(productName)
	s.log.Debug("scraping kilimall", logger.String("url", searchURL))

	if err := c.Visit(searchURL); err != nil {
		return nil, err
	}
	c.Wait()

	if offer == nil {
		return nil, models.ErrOfferNotFound
	}
	return offer, nil
}
