package config

import "strings"

// Brand maps a brand token to its official storefront, used as the
// highest-priority image source.
type Brand struct {
	Name       string
	Domain     string
	SearchPath string
}

var brands = map[string]Brand{
	"apple":       {Name: "Apple", Domain: "apple.com", SearchPath: "/search/"},
	"samsung":     {Name: "Samsung", Domain: "samsung.com", SearchPath: "/search/?searchvalue="},
	"sony":        {Name: "Sony", Domain: "sony.com", SearchPath: "/en-us/search/?q="},
	"lg":          {Name: "LG", Domain: "lg.com", SearchPath: "/search?q="},
	"dell":        {Name: "Dell", Domain: "dell.com", SearchPath: "/search?q="},
	"hp":          {Name: "HP", Domain: "hp.com", SearchPath: "/search?q="},
	"lenovo":      {Name: "Lenovo", Domain: "lenovo.com", SearchPath: "/search?q="},
	"asus":        {Name: "ASUS", Domain: "asus.com", SearchPath: "/search?q="},
	"google":      {Name: "Google", Domain: "store.google.com", SearchPath: "/search?q="},
	"xiaomi":      {Name: "Xiaomi", Domain: "mi.com", SearchPath: "/global/search?keyword="},
	"oppo":        {Name: "OPPO", Domain: "oppo.com", SearchPath: "/en/search/?q="},
	"vivo":        {Name: "Vivo", Domain: "vivo.com", SearchPath: "/en/search?q="},
	"realme":      {Name: "Realme", Domain: "realme.com", SearchPath: "/search?q="},
	"infinix":     {Name: "Infinix", Domain: "infinixmobility.com", SearchPath: "/search?q="},
	"tecno":       {Name: "Tecno", Domain: "tecno-mobile.com", SearchPath: "/search?q="},
	"itel":        {Name: "Itel", Domain: "itel-mobile.com", SearchPath: "/search?q="},
	"nintendo":    {Name: "Nintendo", Domain: "nintendo.com", SearchPath: "/search/?q="},
	"playstation": {Name: "PlayStation", Domain: "playstation.com", SearchPath: "/search/?q="},
	"xbox":        {Name: "Xbox", Domain: "xbox.com", SearchPath: "/search?q="},
	"bose":        {Name: "Bose", Domain: "bose.com", SearchPath: "/search?q="},
	"jbl":         {Name: "JBL", Domain: "jbl.com", SearchPath: "/search?q="},
	"canon":       {Name: "Canon", Domain: "canon.com", SearchPath: "/search?q="},
	"nikon":       {Name: "Nikon", Domain: "nikon.com", SearchPath: "/search?q="},
}

// Brand-name tokens recognized by the image relevance filter. Products
// mentioning one of these must also mention it (or an alias) in a candidate
// image's URL or caption.
var knownBrandTokens = map[string]struct{}{
	"iphone": {}, "samsung": {}, "galaxy": {}, "pixel": {}, "macbook": {},
	"ipad": {}, "airpods": {}, "sony": {}, "lg": {}, "dell": {}, "hp": {},
	"lenovo": {}, "asus": {}, "xiaomi": {}, "redmi": {}, "oppo": {},
	"vivo": {}, "realme": {}, "infinix": {}, "tecno": {}, "itel": {},
	"huawei": {}, "oneplus": {}, "nokia": {}, "motorola": {}, "nintendo": {},
	"switch": {}, "playstation": {}, "xbox": {}, "bose": {}, "jbl": {},
	"canon": {}, "nikon": {}, "gopro": {}, "dyson": {}, "apple": {},
}

// DetectBrand returns the official-storefront entry for the first brand
// token found in the product name, or ok=false when none matches.
func DetectBrand(productName string) (Brand, bool) {
	name := strings.ToLower(productName)
	for token, b := range brands {
		if strings.Contains(name, token) || strings.Contains(name, strings.ToLower(b.Name)) {
			return b, true
		}
	}
	return Brand{}, false
}

// IsKnownBrandToken reports whether a product-name token is a recognized
// brand for image relevance filtering.
func IsKnownBrandToken(token string) bool {
	_, ok := knownBrandTokens[token]
	return ok
}

// BrandDomains guesses candidate official domains for a product name, used
// by the image ranker to boost exact brand-domain hosts.
func BrandDomains(productName string) []string {
	name := strings.ToLower(productName)
	var domains []string

	tokens := splitTokens(name)
	if len(tokens) > 0 && len(tokens[0]) >= 3 {
		domains = append(domains, tokens[0]+".com", tokens[0]+".com.ng")
	}

	type hint struct {
		keywords []string
		domain   string
	}
	hints := []hint{
		{[]string{"iphone", "macbook", "ipad", "apple watch", "airpods", "apple"}, "apple.com"},
		{[]string{"samsung"}, "samsung.com"},
		{[]string{"pixel", "chromebook"}, "google.com"},
		{[]string{"tecno"}, "tecno-mobile.com"},
		{[]string{"infinix"}, "infinixmobility.com"},
		{[]string{"xiaomi", "redmi", "mi "}, "mi.com"},
		{[]string{"sony"}, "sony.com"},
	}
	for _, h := range hints {
		for _, kw := range h.keywords {
			if strings.Contains(name, kw) {
				domains = append(domains, h.domain)
				break
			}
		}
	}
	return domains
}

func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
}
