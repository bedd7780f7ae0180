package woocommerce

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
	"product-intel/pkg/models"
)

func TestSearch(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery

		fmt.Fprintln(w, `
<!DOCTYPE html>
<html>
<body>
  <ul class="products">
    <li class="product">
      <a href="https://store.example/product/galaxy-s24"></a>
      <span class="woocommerce-Price-amount amount"><bdi>₦850,000</bdi></span>
    </li>
  </ul>
</body>
</html>`)
	}))
	defer ts.Close()

	s := New(config.Retailer{
		ID:        "slot",
		Name:      "Slot Nigeria",
		BaseURL:   ts.URL,
		SearchURL: ts.URL + "/?s=",
	}, 5*time.Second, logger.NewNop())

	offer, err := s.Search("Galaxy S24")
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "post_type=product")
	require.NotNil(t, offer.PriceNaira)
	assert.Equal(t, 850000.0, *offer.PriceNaira)
	assert.Equal(t, "https://store.example/product/galaxy-s24", offer.ProductURL)
	assert.Equal(t, "slot", offer.RetailerID)
}

func TestSearchBdiFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `
<html><body>
  <div class="product">
    <a href="/product/ps5"></a>
    <bdi>₦720,500</bdi>
  </div>
</body></html>`)
	}))
	defer ts.Close()

	s := New(config.Retailer{
		ID: "kara", Name: "Kara Nigeria",
		BaseURL: ts.URL, SearchURL: ts.URL + "/?s=",
	}, 5*time.Second, logger.NewNop())

	offer, err := s.Search("PS5")
	require.NoError(t, err)
	require.NotNil(t, offer.PriceNaira)
	assert.Equal(t, 720500.0, *offer.PriceNaira)
	assert.Equal(t, ts.URL+"/product/ps5", offer.ProductURL)
}

func TestSearchEmptyPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `<html><body><p class="woocommerce-info">No products found</p></body></html>`)
	}))
	defer ts.Close()

	s := New(config.Retailer{
		ID: "pointek", Name: "PointekOnline",
		BaseURL: ts.URL, SearchURL: ts.URL + "/?s=",
	}, 5*time.Second, logger.NewNop())

	_, err := s.Search("obscure gadget")
	assert.ErrorIs(t, err, models.ErrOfferNotFound)
}
