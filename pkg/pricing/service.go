package pricing

import (
	"fmt"
	"time"

	"product-intel/pkg/cache"
	"product-intel/pkg/config"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
	"product-intel/pkg/scrapers"
)

// Service aggregates offers across Nigerian storefronts and, when enabled,
// global sources, then derives comparison statistics and a retailer
// recommendation.
type Service struct {
	sources   []scrapers.Source
	rapidapi  *RapidAPIClient
	cache     *cache.Cache
	cfg       config.PricingConfig
	delay     time.Duration
	log       logger.Logger
	dedup     *logger.Deduper
	sleepFunc func(time.Duration)
}

func NewService(sources []scrapers.Source, rapidapi *RapidAPIClient, c *cache.Cache,
	cfg config.PricingConfig, delay time.Duration, log logger.Logger) *Service {
	return &Service{
		sources:   sources,
		rapidapi:  rapidapi,
		cache:     c,
		cfg:       cfg,
		delay:     delay,
		log:       log,
		dedup:     logger.NewDeduper(log),
		sleepFunc: time.Sleep,
	}
}

// GetPriceComparison queries every configured retailer sequentially, with a
// polite delay between requests. A retailer failure drops that one offer and
// never fails the comparison. Results are cached per product and global flag.
func (s *Service) GetPriceComparison(productName string, includeGlobal bool) *models.PriceComparison {
	cacheKey := fmt.Sprintf("all_prices_%s_%t", productName, includeGlobal)

	var cached models.PriceComparison
	if s.cache.Get(cacheKey, &cached) {
		s.dedup.Printf("using cached prices for %s", productName)
		return &cached
	}

	var offers []models.RetailerOffer

	s.log.Info("fetching retailer prices",
		logger.String("product", productName), logger.Int("retailers", len(s.sources)))
	for _, src := range s.sources {
		offer, err := src.Search(productName)
		if err != nil {
			s.log.Warn("retailer fetch failed",
				logger.String("retailer", src.ID()), logger.Err(err))
		} else if offer != nil {
			offers = append(offers, *offer)
			s.log.Info("got retailer price",
				logger.String("retailer", src.Name()),
				logger.Any("price_naira", offer.PriceNaira))
		}
		s.sleepFunc(s.delay)
	}

	if includeGlobal && s.rapidapi != nil && s.rapidapi.Enabled() {
		if amazon := s.rapidapi.AmazonPrice(productName); amazon != nil {
			offers = append(offers, *amazon)
		}
		if multi := s.rapidapi.MultiPlatformPrices(productName); len(multi) > 0 {
			offers = append(offers, multi...)
			s.log.Info("got global prices", logger.Int("count", len(multi)))
		}
	}

	comparison := &models.PriceComparison{
		ProductName: productName,
		Offers:      offers,
		Currency:    "NGN",
		ComputedAt:  time.Now().UTC(),
	}
	comparison.Recompute()
	s.gradeDeal(comparison)

	if len(offers) > 0 {
		s.cache.Set(cacheKey, comparison, 0)
	}
	return comparison
}

// gradeDeal rates how much the best price undercuts the average. Needs at
// least two priced offers, otherwise spread is meaningless.
func (s *Service) gradeDeal(pc *models.PriceComparison) {
	if pc.ValidOfferCount() < 2 || pc.AveragePrice == nil || *pc.AveragePrice == 0 {
		return
	}
	spread := (*pc.AveragePrice - *pc.LowestPrice) / *pc.AveragePrice * 100

	switch {
	case spread >= s.cfg.ExcellentSpread:
		pc.DealQuality = "excellent"
		pc.DealExplanation = fmt.Sprintf("Best price is %.0f%% below average - great savings potential!", spread)
	case spread >= s.cfg.GoodSpread:
		pc.DealQuality = "good"
		pc.DealExplanation = fmt.Sprintf("Best price is %.0f%% below average", spread)
	default:
		pc.DealQuality = "normal"
		pc.DealExplanation = "Prices are fairly consistent across retailers"
	}
}

// RecommendRetailer balances price against trust. Each priced offer scores
// trust/5 weighted at 0.4 plus a 0-1 price position weighted at 0.6; ties
// keep the earlier offer.
func (s *Service) RecommendRetailer(pc *models.PriceComparison) *models.RecommendedRetailer {
	if pc == nil || len(pc.Offers) == 0 {
		return nil
	}

	var priced []models.RetailerOffer
	for _, o := range pc.Offers {
		if o.PriceNaira != nil {
			priced = append(priced, o)
		}
	}
	if len(priced) == 0 {
		return nil
	}

	minPrice, maxPrice := *priced[0].PriceNaira, *priced[0].PriceNaira
	for _, o := range priced[1:] {
		if *o.PriceNaira < minPrice {
			minPrice = *o.PriceNaira
		}
		if *o.PriceNaira > maxPrice {
			maxPrice = *o.PriceNaira
		}
	}
	priceRange := maxPrice - minPrice
	if priceRange <= 0 {
		priceRange = 1
	}

	var best *models.RetailerOffer
	bestScore := -1.0
	bestReason := ""

	for i := range priced {
		o := &priced[i]
		trust, _ := config.TrustScoreFor(o.RetailerID)

		normalized := 1.0
		if maxPrice > minPrice {
			normalized = 1 - (*o.PriceNaira-minPrice)/priceRange
		}
		score := float64(trust)/5.0*s.cfg.TrustWeight + normalized*s.cfg.PriceWeight

		if score > bestScore {
			bestScore = score
			best = o

			cheapest := *o.PriceNaira == minPrice
			trusted := trust >= 4
			switch {
			case cheapest && trusted:
				bestReason = "Best price among trusted retailers with official warranty support"
			case cheapest:
				bestReason = "Lowest price available - verify seller reputation before purchase"
			case trusted:
				bestReason = "Highly trusted authorized retailer with reliable warranty and support"
			default:
				bestReason = "Good balance of competitive pricing and retailer reliability"
			}
		}
	}

	if best == nil {
		return nil
	}
	trust, trustNote := config.TrustScoreFor(best.RetailerID)
	return &models.RecommendedRetailer{
		RetailerID:   best.RetailerID,
		RetailerName: best.RetailerName,
		PriceNaira:   best.PriceNaira,
		ProductURL:   best.ProductURL,
		TrustScore:   trust,
		TrustNote:    trustNote,
		Reason:       bestReason,
	}
}
