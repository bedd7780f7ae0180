package images

import (
	"net/url"
	"sort"
	"strings"

	"product-intel/pkg/config"
	"product-intel/pkg/models"
)

// Hosts whose product photography is usually accurate, bumped below exact
// brand domains.
var preferredHosts = []string{
	"amazon.", "bestbuy.", "walmart.", "target.", "ikea.",
	"jumia.com.ng", "konga.com", "slot.ng", "pointekonline.com",
	"ebayimg.com", "ebaystatic.com", "ebay.com", "aliexpress.",
	"bhphotovideo.", "microcenter.", "newegg.", "argos.", "currys.",
	"gsmarena.com", "apple.com", "samsung.com", "mi.com", "sony.com",
}

var positivePathTerms = []string{"product", "pdp", "sku", "item", "buy", "shop"}
var negativeTerms = []string{"wallpaper", "background", "logo", "icon", "mockup", "render", "vector", "clipart"}

// Rank orders candidates by relevance, best first. The sort is stable so
// same-score candidates keep their source priority order.
func Rank(candidates []models.ImageCandidate, productName string, cfg config.ImageConfig) []models.ImageCandidate {
	brandDomains := map[string]struct{}{}
	for _, d := range config.BrandDomains(productName) {
		brandDomains[d] = struct{}{}
	}
	nameTokens := splitTokens(strings.ToLower(productName))

	ranked := make([]models.ImageCandidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i], brandDomains, nameTokens, cfg) > score(ranked[j], brandDomains, nameTokens, cfg)
	})
	return ranked
}

func score(c models.ImageCandidate, brandDomains map[string]struct{}, nameTokens []string, cfg config.ImageConfig) int {
	s := 0
	u := strings.ToLower(c.URL)

	host := ""
	if parsed, err := url.Parse(u); err == nil {
		host = strings.ToLower(parsed.Host)
	}

	if _, ok := brandDomains[host]; ok {
		s += cfg.BrandDomainBump
	}
	for _, h := range preferredHosts {
		if strings.Contains(host, h) {
			s += cfg.MarketplaceBump
			break
		}
	}

	for _, tok := range nameTokens {
		if strings.Contains(u, tok) {
			s += cfg.TokenBump
		}
	}

	for _, term := range positivePathTerms {
		if strings.Contains(u, term) {
			s += cfg.ProductPathBump
			break
		}
	}
	for _, term := range negativeTerms {
		if strings.Contains(u, term) {
			s -= cfg.NegativePenalty
			break
		}
	}

	if mp := float64(c.Width*c.Height) / 1e6; mp > 0.5 {
		s += cfg.ResolutionBump
	}
	return s
}
