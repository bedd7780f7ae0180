package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Retailer describes one Nigerian storefront the price aggregator queries.
// Kind selects which adapter scrapes it. TrustScore is a static, manually
// curated 1-5 reliability rating, independent of price.
type Retailer struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	BaseURL    string `yaml:"base_url"`
	SearchURL  string `yaml:"search_url"`
	Kind       string `yaml:"kind"`
	TrustScore int    `yaml:"trust_score"`
	TrustNote  string `yaml:"trust_note"`
}

// DefaultTrustScore is assumed for offers from retailers not in the table
// (e.g. results from the global price APIs).
const DefaultTrustScore = 3

// Adapter kinds. WooCommerce covers every storefront built on that platform.
const (
	KindJumia       = "jumia"
	KindKonga       = "konga"
	KindJiji        = "jiji"
	KindKilimall    = "kilimall"
	KindWooCommerce = "woocommerce"
)

var retailers = []Retailer{
	{
		ID: "jumia", Name: "Jumia Nigeria", Kind: "jumia",
		BaseURL:    "https://www.jumia.com.ng",
		SearchURL:  "https://www.jumia.com.ng/catalog/?q=",
		TrustScore: 4,
		TrustNote:  "Established e-commerce platform with buyer protection and return policy",
	},
	{
		ID: "konga", Name: "Konga", Kind: "konga",
		BaseURL:    "https://www.konga.com",
		SearchURL:  "https://www.konga.com/search?search=",
		TrustScore: 4,
		TrustNote:  "Major Nigerian retailer with warranty support and physical stores",
	},
	{
		ID: "slot", Name: "Slot Nigeria", Kind: "woocommerce",
		BaseURL:    "https://slot.ng",
		SearchURL:  "https://slot.ng/?s=",
		TrustScore: 5,
		TrustNote:  "Authorized dealer with nationwide physical stores and official warranty",
	},
	{
		ID: "pointek", Name: "PointekOnline", Kind: "woocommerce",
		BaseURL:    "https://pointekonline.com",
		SearchURL:  "https://pointekonline.com/?s=",
		TrustScore: 4,
		TrustNote:  "Established electronics retailer with good customer service",
	},
	{
		ID: "jiji", Name: "Jiji Nigeria", Kind: "jiji",
		BaseURL:    "https://jiji.ng",
		SearchURL:  "https://jiji.ng/search?query=",
		TrustScore: 2,
		TrustNote:  "Classifieds marketplace - verify seller reputation before purchase",
	},
	{
		ID: "kilimall", Name: "Kilimall Nigeria", Kind: "kilimall",
		BaseURL:    "https://www.kilimall.com.ng",
		SearchURL:  "https://www.kilimall.com.ng/search?q=",
		TrustScore: 3,
		TrustNote:  "Online marketplace - check seller ratings before purchase",
	},
	{
		ID: "kara", Name: "Kara Nigeria", Kind: "woocommerce",
		BaseURL:    "https://kara.com.ng",
		SearchURL:  "https://kara.com.ng/?s=",
		TrustScore: 4,
		TrustNote:  "Established appliance and electronics retailer",
	},
	{
		ID: "3chub", Name: "3C Hub", Kind: "woocommerce",
		BaseURL:    "https://3chub.com",
		SearchURL:  "https://3chub.com/?s=",
		TrustScore: 4,
		TrustNote:  "Authorized technology retailer with product warranty",
	},
	{
		ID: "fouani", Name: "Fouani Nigeria", Kind: "woocommerce",
		BaseURL:    "https://fouanistore.com",
		SearchURL:  "https://fouanistore.com/?s=",
		TrustScore: 5,
		TrustNote:  "Official LG distributor in Nigeria with manufacturer warranty",
	},
	{
		ID: "computervillage", Name: "Computer Village Online", Kind: "woocommerce",
		BaseURL:    "https://computervillageonline.com",
		SearchURL:  "https://computervillageonline.com/?s=",
		TrustScore: 3,
		TrustNote:  "Online platform - verify specific vendor reputation",
	},
	{
		ID: "buyright", Name: "BuyRight Electronics", Kind: "woocommerce",
		BaseURL:    "https://buyrightelectronics.com.ng",
		SearchURL:  "https://buyrightelectronics.com.ng/?s=",
		TrustScore: 4,
		TrustNote:  "Electronics specialist with product warranty",
	},
	{
		ID: "megaplaza", Name: "MegaPlaza Store", Kind: "woocommerce",
		BaseURL:    "https://megaplazaonline.com",
		SearchURL:  "https://megaplazaonline.com/?s=",
		TrustScore: 4,
		TrustNote:  "Major shopping center with multiple brands",
	},
	{
		ID: "superonline", Name: "Superonline.ng", Kind: "woocommerce",
		BaseURL:    "https://superonline.ng",
		SearchURL:  "https://superonline.ng/?s=",
		TrustScore: 3,
		TrustNote:  "Online electronics store",
	},
}

// Retailers returns the retailer table in stable query order. The slice is
// shared; callers must treat it as read-only.
func Retailers() []Retailer {
	return retailers
}

// RetailerByID looks up a retailer; ok is false for unknown IDs.
func RetailerByID(id string) (Retailer, bool) {
	for _, r := range retailers {
		if r.ID == id {
			return r, true
		}
	}
	return Retailer{}, false
}

// TrustScoreFor returns the static trust score for a retailer, falling back
// to DefaultTrustScore for retailers outside the table.
func TrustScoreFor(id string) (int, string) {
	if r, ok := RetailerByID(id); ok {
		return r.TrustScore, r.TrustNote
	}
	return DefaultTrustScore, ""
}

// LoadRetailerFile replaces the built-in retailer table from a YAML file.
// Intended to be called once at startup, before any component holds a
// reference to the table.
func LoadRetailerFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var loaded []Retailer
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if len(loaded) == 0 {
		return fmt.Errorf("retailer file %s is empty", path)
	}
	for i, r := range loaded {
		if r.ID == "" || r.SearchURL == "" {
			return fmt.Errorf("retailer file %s: entry %d missing id or search_url", path, i)
		}
		if r.TrustScore < 1 || r.TrustScore > 5 {
			return fmt.Errorf("retailer file %s: entry %q trust_score out of range", path, r.ID)
		}
	}
	retailers = loaded
	return nil
}
