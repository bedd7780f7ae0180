package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-intel/pkg/config"
	"product-intel/pkg/models"
)

func testImageConfig() config.ImageConfig {
	return config.ImageConfig{
		MaxImages:       5,
		BrandDomainBump: 100,
		MarketplaceBump: 40,
		TokenBump:       5,
		ProductPathBump: 8,
		NegativePenalty: 20,
		ResolutionBump:  5,
	}
}

func TestRankPrefersBrandDomain(t *testing.T) {
	candidates := []models.ImageCandidate{
		{URL: "https://randomblog.example/pics/iphone-15.jpg"},
		{URL: "https://apple.com/shop/iphone-15.jpg"},
		{URL: "https://amazon.com/images/iphone-15.jpg"},
	}

	ranked := Rank(candidates, "iPhone 15", testImageConfig())
	require.Len(t, ranked, 3)
	assert.Equal(t, "https://apple.com/shop/iphone-15.jpg", ranked[0].URL)
	assert.Equal(t, "https://amazon.com/images/iphone-15.jpg", ranked[1].URL)
}

func TestRankPenalizesNegativeTerms(t *testing.T) {
	candidates := []models.ImageCandidate{
		{URL: "https://blog.example/iphone-15-render.jpg"},
		{URL: "https://blog.example/iphone-15-photo.jpg"},
	}

	ranked := Rank(candidates, "iPhone 15", testImageConfig())
	assert.Equal(t, "https://blog.example/iphone-15-photo.jpg", ranked[0].URL)
}

func TestRankBoostsHighResolution(t *testing.T) {
	candidates := []models.ImageCandidate{
		{URL: "https://blog.example/a/iphone-15.jpg", Width: 200, Height: 200},
		{URL: "https://blog.example/b/iphone-15.jpg", Width: 1200, Height: 900},
	}

	ranked := Rank(candidates, "iPhone 15", testImageConfig())
	assert.Equal(t, "https://blog.example/b/iphone-15.jpg", ranked[0].URL)
}

func TestRankIsStableForTies(t *testing.T) {
	candidates := []models.ImageCandidate{
		{URL: "https://blog.example/x/iphone-15.jpg", Source: "DuckDuckGo"},
		{URL: "https://blog.example/y/iphone-15.jpg", Source: "Bing"},
	}

	ranked := Rank(candidates, "iPhone 15", testImageConfig())
	assert.Equal(t, "DuckDuckGo", ranked[0].Source)
}

func TestDedupByURLAndThumbnail(t *testing.T) {
	in := []models.ImageCandidate{
		{URL: "https://a.example/1.jpg", ThumbnailURL: "https://a.example/t1.jpg"},
		{URL: "https://a.example/1.jpg", ThumbnailURL: "https://a.example/t1.jpg"},
		{URL: "https://a.example/1.jpg", ThumbnailURL: "https://a.example/t2.jpg"},
		{URL: ""},
	}
	out := dedup(in)
	assert.Len(t, out, 2)
}
