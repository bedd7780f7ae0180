package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidImageURL(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		valid bool
	}{
		{"product jpg", "https://cdn.example.com/products/iphone-15.jpg", true},
		{"webp asset", "https://cdn.example.com/assets/galaxy-s24.webp", true},
		{"image path without extension", "https://example.com/media/12345", true},
		{"empty", "", false},
		{"wallpaper", "https://example.com/wallpaper/iphone-15.jpg", false},
		{"placeholder", "https://example.com/placeholder.png", false},
		{"favicon", "https://example.com/favicon.ico", false},
		{"no image hints", "https://example.com/page/about", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidImageURL(tt.url))
		})
	}
}

func TestIsProductImageNumericTokens(t *testing.T) {
	// Every numeric model token must appear in the URL or caption.
	assert.True(t, IsProductImage(
		"https://cdn.example.com/media/iphone-15-blue.jpg", "iPhone 15", "iPhone 15"))
	assert.False(t, IsProductImage(
		"https://cdn.example.com/media/iphone-14-blue.jpg", "iPhone", "iPhone 15"))
	// Token embedded in a larger word still counts.
	assert.True(t, IsProductImage(
		"https://cdn.example.com/media/galaxy-s24ultra.jpg", "Galaxy", "Samsung Galaxy S24 Ultra"))
}

func TestIsProductImageLifestyleRejected(t *testing.T) {
	assert.False(t, IsProductImage(
		"https://cdn.example.com/media/woman-holding-iphone-15.jpg", "", "iPhone 15"))
	assert.False(t, IsProductImage(
		"https://cdn.example.com/media/iphone-15-case.jpg", "", "iPhone 15"))
	assert.False(t, IsProductImage(
		"https://cdn.example.com/media/iphone-15-vs-pixel.jpg", "", "iPhone 15"))
}

func TestIsProductImageBrandToken(t *testing.T) {
	// The brand must be visible somewhere in URL or caption.
	assert.False(t, IsProductImage(
		"https://cdn.example.com/media/generic-s24.jpg", "some phone", "Samsung Galaxy S24"))
	assert.True(t, IsProductImage(
		"https://cdn.example.com/media/samsung-s24.jpg", "", "Samsung Galaxy S24"))
	// Apple's asset URLs often omit "iphone" but carry "apple".
	assert.True(t, IsProductImage(
		"https://store.apple.com/media/15-finish-select.jpg", "apple 15", "iPhone 15"))
}
