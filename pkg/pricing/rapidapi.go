package pricing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"product-intel/pkg/cache"
	"product-intel/pkg/currency"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
)

const (
	amazonHost        = "real-time-amazon-data.p.rapidapi.com"
	multiPlatformHost = "product-item-search-price-comparison.p.rapidapi.com"

	maxMultiPlatformResults = 5
)

// RapidAPIClient pulls global price points from two RapidAPI products: the
// real-time Amazon search and a multi-platform price comparison index.
// Everything is best effort, a failed call just means fewer offers.
type RapidAPIClient struct {
	apiKey    string
	client    *http.Client
	cache     *cache.Cache
	converter *currency.Converter
	log       logger.Logger

	amazonURL string
	multiURL  string
}

func NewRapidAPIClient(apiKey string, c *cache.Cache, conv *currency.Converter, log logger.Logger) *RapidAPIClient {
	return &RapidAPIClient{
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 15 * time.Second},
		cache:     c,
		converter: conv,
		log:       log,
		amazonURL: "https://" + amazonHost + "/search",
		multiURL:  "https://" + multiPlatformHost + "/search",
	}
}

// Enabled reports whether an API key is configured.
func (r *RapidAPIClient) Enabled() bool { return r.apiKey != "" }

// AmazonPrice returns the first Amazon US hit converted to Naira, or nil.
func (r *RapidAPIClient) AmazonPrice(productName string) *models.RetailerOffer {
	if !r.Enabled() {
		r.log.Warn("rapidapi key not configured")
		return nil
	}

	cacheKey := "amazon_" + productName
	var cached models.RetailerOffer
	if r.cache.Get(cacheKey, &cached) {
		return &cached
	}

	params := url.Values{
		"query":       {productName},
		"page":        {"1"},
		"country":     {"US"},
		"category_id": {"aps"},
	}
	var body struct {
		Data struct {
			Products []struct {
				ProductPrice string `json:"product_price"`
				ProductURL   string `json:"product_url"`
				IsPrime      *bool  `json:"is_prime"`
			} `json:"products"`
		} `json:"data"`
	}
	if err := r.getJSON(r.amazonURL, amazonHost, params, &body); err != nil {
		r.log.Warn("amazon rapidapi error", logger.Err(err))
		return nil
	}
	if len(body.Data.Products) == 0 {
		return nil
	}

	first := body.Data.Products[0]
	priceUSD, _ := currency.ParsePrice(first.ProductPrice)
	if priceUSD == nil {
		return nil
	}

	inStock := true
	if first.IsPrime != nil {
		inStock = *first.IsPrime
	}

	offer := &models.RetailerOffer{
		RetailerID:    "amazon",
		RetailerName:  "Amazon (US)",
		PriceNaira:    r.converter.ToNaira(priceUSD, "USD"),
		OriginalPrice: priceUSD,
		ProductURL:    first.ProductURL,
		InStock:       inStock,
		LastChecked:   time.Now().UTC(),
	}
	r.cache.Set(cacheKey, offer, 0)
	return offer
}

// MultiPlatformPrices returns up to five offers from the price comparison
// index, each converted to Naira.
func (r *RapidAPIClient) MultiPlatformPrices(productName string) []models.RetailerOffer {
	if !r.Enabled() {
		r.log.Warn("rapidapi key not configured")
		return nil
	}

	cacheKey := "multiplatform_" + productName
	var cached []models.RetailerOffer
	if r.cache.Get(cacheKey, &cached) {
		return cached
	}

	params := url.Values{"query": {productName}}
	var body struct {
		Results []multiPlatformItem `json:"results"`
		Items   []multiPlatformItem `json:"items"`
	}
	if err := r.getJSON(r.multiURL, multiPlatformHost, params, &body); err != nil {
		r.log.Warn("multi-platform rapidapi error", logger.Err(err))
		return nil
	}

	items := body.Results
	if len(items) == 0 {
		items = body.Items
	}

	var offers []models.RetailerOffer
	for _, item := range items {
		if len(offers) >= maxMultiPlatformResults {
			break
		}
		priceStr := item.Price
		if priceStr == "" {
			priceStr = item.CurrentPrice
		}
		price, code := currency.ParsePrice(priceStr)
		if price == nil {
			continue
		}

		store := item.Store
		if store == "" {
			store = "Unknown Store"
		}
		offers = append(offers, models.RetailerOffer{
			RetailerID:   strings.ReplaceAll(strings.ToLower(store), " ", "_"),
			RetailerName: store,
			PriceNaira:   r.converter.ToNaira(price, code),
			ProductURL:   item.URL,
			InStock:      true,
			LastChecked:  time.Now().UTC(),
		})
	}

	if len(offers) > 0 {
		r.cache.Set(cacheKey, offers, 0)
	}
	return offers
}

type multiPlatformItem struct {
	Store        string `json:"store"`
	Price        string `json:"price"`
	CurrentPrice string `json:"current_price"`
	URL          string `json:"url"`
}

func (r *RapidAPIClient) getJSON(rawURL, host string, params url.Values, out any) error {
	req, err := http.NewRequest(http.MethodGet, rawURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-RapidAPI-Key", r.apiKey)
	req.Header.Set("X-RapidAPI-Host", host)

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rapidapi returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
