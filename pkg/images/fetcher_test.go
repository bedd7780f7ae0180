package images

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-intel/pkg/cache"
	"product-intel/pkg/config"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
)

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	f := NewFetcher(
		cache.New(t.TempDir(), time.Hour, 100, logger.NewNop()),
		testImageConfig(),
		config.WebConfig{RequestTimeout: 5 * time.Second, UserAgent: "test-agent"},
		logger.NewNop(),
	)
	// Keep tests off the network: no retailer pages, search engines point
	// at local servers set per test.
	f.retailers = nil
	f.ddgBase = "http://127.0.0.1:0"
	f.bingBase = "http://127.0.0.1:0"
	return f
}

func TestFetchImagesFromDuckDuckGo(t *testing.T) {
	ddg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/i.js" {
			assert.Equal(t, "123-456", r.URL.Query().Get("vqd"))
			fmt.Fprint(w, `{"results":[
				{"image":"https://cdn.example.com/media/iphone-15-front.jpg","thumbnail":"https://cdn.example.com/t/iphone-15.jpg","title":"iPhone 15","width":1200,"height":900},
				{"image":"https://cdn.example.com/media/woman-holding-iphone-15.jpg","title":"iPhone 15 in hand"},
				{"image":"https://cdn.example.com/media/iphone-14.jpg","title":"older model"}
			]}`)
			return
		}
		fmt.Fprint(w, `<html>vqd=123-456</html>`)
	}))
	defer ddg.Close()

	f := newTestFetcher(t)
	f.ddgBase = ddg.URL

	imgs := f.FetchImages("iPhone 15")
	require.Len(t, imgs, 1)
	assert.Equal(t, "https://cdn.example.com/media/iphone-15-front.jpg", imgs[0].URL)
	assert.Equal(t, "DuckDuckGo", imgs[0].Source)
	assert.Equal(t, 1200, imgs[0].Width)
}

func TestFetchImagesBingFallback(t *testing.T) {
	bing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a class="iusc" m='{"murl":"https://cdn.example.com/media/pixel-9-black.jpg","turl":"https://cdn.example.com/t/pixel-9.jpg","t":"Pixel 9"}'></a>
			<a class="iusc" m='{"murl":"https://cdn.example.com/media/pixel-9-wallpaper.jpg","t":"Pixel 9 wallpaper"}'></a>
		</body></html>`)
	}))
	defer bing.Close()

	f := newTestFetcher(t)
	f.bingBase = bing.URL

	imgs := f.FetchImages("Pixel 9")
	require.Len(t, imgs, 1)
	assert.Equal(t, "https://cdn.example.com/media/pixel-9-black.jpg", imgs[0].URL)
	assert.Equal(t, "Bing", imgs[0].Source)
}

func TestFetchImagesCached(t *testing.T) {
	f := newTestFetcher(t)

	seeded := []models.ImageCandidate{{URL: "https://cdn.example.com/media/ps5.jpg", Source: "Bing"}}
	f.cache.Set("images_PS5", seeded, 0)

	imgs := f.FetchImages("PS5")
	require.Len(t, imgs, 1)
	assert.Equal(t, seeded[0].URL, imgs[0].URL)
}

func TestFetchImagesEmptyNotCached(t *testing.T) {
	f := newTestFetcher(t)

	assert.Nil(t, f.FetchImages("Unfindable Gadget 77"))

	var cached []models.ImageCandidate
	assert.False(t, f.cache.Get("images_Unfindable Gadget 77", &cached))
}
