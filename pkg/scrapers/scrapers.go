package scrapers

import (
	"time"

	"product-intel/pkg/config"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
	"product-intel/pkg/scrapers/jiji"
	"product-intel/pkg/scrapers/jumia"
	"product-intel/pkg/scrapers/kilimall"
	"product-intel/pkg/scrapers/konga"
	"product-intel/pkg/scrapers/woocommerce"
)

// UserAgent is sent by every storefront scraper.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Source searches one retailer for a product and returns the top offer.
type Source interface {
	ID() string
	Name() string
	Search(productName string) (*models.RetailerOffer, error)
}

// Build wires a Source for every configured retailer. Adapter selection
// follows the retailer's Kind so storefronts sharing a platform share code.
func Build(retailers []config.Retailer, timeout time.Duration, log logger.Logger) []Source {
	sources := make([]Source, 0, len(retailers))
	for _, r := range retailers {
		switch r.Kind {
		case config.KindJumia:
			sources = append(sources, jumia.New(r, timeout, log))
		case config.KindKonga:
			sources = append(sources, konga.New(r, timeout, log))
		case config.KindJiji:
			sources = append(sources, jiji.New(r, timeout, log))
		case config.KindKilimall:
			sources = append(sources, kilimall.New(r, timeout, log))
		case config.KindWooCommerce:
			sources = append(sources, woocommerce.New(r, timeout, log))
		default:
			log.Warn("no scraper adapter for retailer",
				logger.String("retailer", r.ID), logger.String("kind", r.Kind))
		}
	}
	return sources
}
