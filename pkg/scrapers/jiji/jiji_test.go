package jiji

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-intel/pkg/config"
	"product-intel/pkg/logger"
)

func TestSearchPrimaryMarkup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `
<html><body>
  <div class="b-list-advert__item-wrapper">
    <a href="/lagos/phones/iphone-15"></a>
    <div class="qa-advert-price">₦ 1,100,000</div>
  </div>
</body></html>`)
	}))
	defer ts.Close()

	s := New(config.Retailer{
		ID: "jiji", Name: "Jiji Nigeria",
		BaseURL: ts.URL, SearchURL: ts.URL + "/search?query=",
	}, 5*time.Second, logger.NewNop())

	offer, err := s.Search("iPhone 15")
	require.NoError(t, err)
	require.NotNil(t, offer.PriceNaira)
	assert.Equal(t, 1100000.0, *offer.PriceNaira)
	assert.Equal(t, ts.URL+"/lagos/phones/iphone-15", offer.ProductURL)
}

func TestSearchFallbackMarkup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `
<html><body>
  <div data-testid="listing-card">
    <a href="https://jiji.example/ad/42"></a>
    <span class="price">₦450,000</span>
  </div>
</body></html>`)
	}))
	defer ts.Close()

	s := New(config.Retailer{
		ID: "jiji", Name: "Jiji Nigeria",
		BaseURL: ts.URL, SearchURL: ts.URL + "/search?query=",
	}, 5*time.Second, logger.NewNop())

	offer, err := s.Search("used laptop")
	require.NoError(t, err)
	require.NotNil(t, offer.PriceNaira)
	assert.Equal(t, 450000.0, *offer.PriceNaira)
	assert.Equal(t, "https://jiji.example/ad/42", offer.ProductURL)
}
