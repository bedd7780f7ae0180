package images

import (
	"regexp"
	"strings"

	"product-intel/pkg/config"
)

// URL substrings that mark a non-product asset regardless of context.
var invalidURLMarkers = []string{
	"placeholder", "no-image", "default", "icon", "logo", "loading.gif",
	"spinner", "1x1", "pixel.png", "blank", "avatar", "thumb-", "favicon",
	"banner", "hero-bg", "lockscreen", "wallpaper", "screenshot", "lifestyle",
	"holding", "hand-", "user-", "background", "pattern", "texture",
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
var imagePathHints = []string{"image", "img", "photo", "product", "media"}

// Keywords that mark lifestyle shots, accessories, comparisons and other
// images that show something adjacent to the product rather than the product.
var lifestyleKeywords = []string{
	"person", "people", "man", "woman", "model", "hand", "holding",
	"using", "portrait", "face", "wallpaper", "lockscreen", "screenshot",
	"girl", "boy", "kid", "child", "user", "customer", "lifestyle",
	"stock-photo", "stock_photo", "shutterstock", "getty", "istock",
	"case", "cover", "accessory", "accessories", "charger", "cable",
	"screen-protector", "comparison", "vs-", "-vs-", "versus",
	"unboxing", "box-", "packaging", "review-thumbnail", "concept",
	"render", "leaked", "rumor", "mockup", "mock-up",
}

var variantKeywords = map[string]struct{}{
	"pro": {}, "max": {}, "plus": {}, "ultra": {}, "lite": {}, "mini": {}, "se": {}, "air": {},
}

var tokenSplit = regexp.MustCompile(`[^a-z0-9]+`)
var wordSplit = regexp.MustCompile(`[\s/_\-]+`)

// IsValidImageURL rejects URLs that are obviously not product photos, then
// requires either an image extension or an image-ish path segment.
func IsValidImageURL(url string) bool {
	if url == "" {
		return false
	}
	u := strings.ToLower(url)
	for _, marker := range invalidURLMarkers {
		if strings.Contains(u, marker) {
			return false
		}
	}
	for _, ext := range imageExtensions {
		if strings.Contains(u, ext) {
			return true
		}
	}
	for _, hint := range imagePathHints {
		if strings.Contains(u, hint) {
			return true
		}
	}
	return false
}

// IsProductImage decides whether a candidate depicts the exact product
// searched. The check is deliberately strict: a wrong image is worse than no
// image. Numeric model tokens from the product name must all appear in the
// URL or caption, and when the name carries a known brand, so must the image.
func IsProductImage(imgURL, altText, productName string) bool {
	if imgURL == "" {
		return false
	}
	combined := strings.ToLower(imgURL + " " + altText)

	for _, k := range lifestyleKeywords {
		if strings.Contains(combined, k) {
			return false
		}
	}

	productLower := strings.ToLower(productName)
	allTokens := splitTokens(productLower)

	for _, token := range numericTokens(allTokens) {
		if strings.Contains(combined, token) {
			continue
		}
		found := false
		for _, word := range wordSplit.Split(combined, -1) {
			if strings.Contains(word, token) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	var brandTokens []string
	for _, t := range allTokens {
		if config.IsKnownBrandToken(t) {
			brandTokens = append(brandTokens, t)
		}
	}
	if len(brandTokens) > 0 {
		brandFound := false
		for _, bt := range brandTokens {
			if strings.Contains(combined, bt) {
				brandFound = true
				break
			}
		}
		if !brandFound {
			// Apple products rarely carry the sub-brand in asset URLs.
			if strings.Contains(productLower, "iphone") ||
				strings.Contains(productLower, "ipad") ||
				strings.Contains(productLower, "macbook") {
				brandFound = strings.Contains(combined, "apple")
			}
			if !brandFound {
				return false
			}
		}
	}

	return true
}

func splitTokens(s string) []string {
	var out []string
	for _, t := range tokenSplit.Split(s, -1) {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// numericTokens extracts model identifiers: pure digits of any length and
// mixed tokens ("s24", "m2") of at least two characters.
func numericTokens(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		if isDigits(t) {
			out = append(out, t)
		} else if len(t) >= 2 && hasDigit(t) {
			out = append(out, t)
		}
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
