package currency

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"product-intel/pkg/logger"
)

const ratesURL = "https://api.exchangerate-api.com/v4/latest/USD"

var numberPattern = regexp.MustCompile(`[\d.]+`)

// ParsePrice extracts an amount and currency code from a raw storefront price
// string. Ranges like "$1,999 - $2,099" resolve to the lower bound. A nil
// amount means the string carried no usable number.
func ParsePrice(priceString string) (*float64, string) {
	if priceString == "" {
		return nil, "NGN"
	}
	code := DetectCurrency(priceString)

	cleaned := priceString
	for _, sym := range []string{"₦", "$", "€", "£"} {
		cleaned = strings.ReplaceAll(cleaned, sym, "")
	}
	for _, c := range []string{"NGN", "USD", "EUR", "GBP", "CAD", "AUD"} {
		cleaned = strings.ReplaceAll(cleaned, c, "")
	}
	cleaned = strings.TrimSpace(strings.ReplaceAll(cleaned, ",", ""))

	if i := strings.Index(cleaned, "-"); i >= 0 {
		cleaned = strings.TrimSpace(cleaned[:i])
	}

	m := numberPattern.FindString(cleaned)
	if m == "" {
		return nil, code
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil, code
	}
	return &v, code
}

// DetectCurrency guesses the currency code of a raw price string. Unknown
// strings default to NGN since most sources are Nigerian storefronts.
func DetectCurrency(priceString string) string {
	s := strings.ToUpper(priceString)
	switch {
	case strings.Contains(s, "₦") || strings.Contains(s, "NGN"):
		return "NGN"
	case strings.Contains(s, "$") || strings.Contains(s, "USD"):
		return "USD"
	case strings.Contains(s, "€") || strings.Contains(s, "EUR"):
		return "EUR"
	case strings.Contains(s, "£") || strings.Contains(s, "GBP"):
		return "GBP"
	case strings.Contains(s, "CAD") || strings.Contains(s, "C$"):
		return "CAD"
	case strings.Contains(s, "AUD") || strings.Contains(s, "A$"):
		return "AUD"
	}
	return "NGN"
}

// FormatNaira renders an amount as a grouped Naira figure, "₦1,234,000".
func FormatNaira(amount *float64) string {
	if amount == nil {
		return "Price unavailable"
	}
	return "₦" + group(*amount)
}

// FormatRange renders a Naira price range, collapsing equal bounds.
func FormatRange(min, max float64) string {
	if min == max {
		return FormatNaira(&min)
	}
	return fmt.Sprintf("%s - %s", FormatNaira(&min), FormatNaira(&max))
}

func group(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Converter turns foreign amounts into Naira using USD-based exchange rates.
// Rates are refreshed at most once an hour and every failure falls back to a
// fixed USD rate, so conversion never errors.
type Converter struct {
	client      *http.Client
	log         logger.Logger
	fallbackNGN float64

	mu        sync.Mutex
	rates     map[string]float64
	fetchedAt time.Time
	nowFunc   func() time.Time
}

func NewConverter(fallbackNGN float64, log logger.Logger) *Converter {
	return &Converter{
		client:      &http.Client{Timeout: 5 * time.Second},
		log:         log,
		fallbackNGN: fallbackNGN,
		nowFunc:     time.Now,
	}
}

// ToNaira converts amount in the given currency code to Naira. NGN amounts
// pass through untouched.
func (c *Converter) ToNaira(amount *float64, code string) *float64 {
	if amount == nil {
		return nil
	}
	code = strings.ToUpper(code)
	if code == "" || code == "NGN" || code == "₦" {
		return amount
	}

	rates := c.usdRates()
	ngnPerUSD, ok := rates["NGN"]
	if !ok {
		ngnPerUSD = c.fallbackNGN
	}
	codePerUSD, ok := rates[code]
	if !ok || codePerUSD == 0 {
		v := *amount * ngnPerUSD
		return &v
	}
	v := *amount * (ngnPerUSD / codePerUSD)
	return &v
}

func (c *Converter) usdRates() map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rates != nil && c.nowFunc().Sub(c.fetchedAt) < time.Hour {
		return c.rates
	}

	if rates, err := c.fetchRates(); err == nil {
		if _, ok := rates["NGN"]; !ok {
			rates["NGN"] = c.fallbackNGN
		}
		c.rates = rates
		c.fetchedAt = c.nowFunc()
		return c.rates
	} else {
		c.log.Warn("exchange rate fetch failed, using fallback", logger.Err(err))
	}

	c.rates = map[string]float64{"NGN": c.fallbackNGN}
	c.fetchedAt = c.nowFunc()
	return c.rates
}

func (c *Converter) fetchRates() (map[string]float64, error) {
	resp, err := c.client.Get(ratesURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange rate API returned %d", resp.StatusCode)
	}
	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Rates == nil {
		body.Rates = map[string]float64{}
	}
	return body.Rates, nil
}
