package models

import (
	"errors"
	"time"
)

// ErrOfferNotFound is returned by source adapters when a storefront
// renders but carries no matching product card.
var ErrOfferNotFound = errors.New("offer not found")

// RetailerOffer is one retailer's price for a product, normalized to Naira.
type RetailerOffer struct {
	RetailerID      string    `json:"retailer_id"`
	RetailerName    string    `json:"retailer_name"`
	PriceNaira      *float64  `json:"price_naira,omitempty"`
	OriginalPrice   *float64  `json:"original_price,omitempty"`
	DiscountPercent *float64  `json:"discount_percent,omitempty"`
	ProductURL      string    `json:"product_url"`
	InStock         bool      `json:"in_stock"`
	LastChecked     time.Time `json:"last_checked"`
	SellerRating    *float64  `json:"seller_rating,omitempty"`
}

// PriceComparison aggregates offers across retailers. The derived
// statistics are recomputed via Recompute whenever Offers changes.
type PriceComparison struct {
	ProductName      string          `json:"product_name"`
	Offers           []RetailerOffer `json:"prices"`
	LowestPrice      *float64        `json:"lowest_price,omitempty"`
	HighestPrice     *float64        `json:"highest_price,omitempty"`
	AveragePrice     *float64        `json:"average_price,omitempty"`
	BestDealRetailer string          `json:"best_deal_retailer,omitempty"`
	Currency         string          `json:"currency"`
	DealQuality      string          `json:"deal_quality,omitempty"`
	DealExplanation  string          `json:"deal_explanation,omitempty"`
	ComputedAt       time.Time       `json:"price_last_updated"`
}

// Recompute rebuilds lowest/highest/average and the best-deal retailer
// from the current offer set. Offers without a price are ignored.
func (pc *PriceComparison) Recompute() {
	pc.LowestPrice = nil
	pc.HighestPrice = nil
	pc.AveragePrice = nil
	pc.BestDealRetailer = ""

	var sum float64
	var count int
	for i := range pc.Offers {
		p := pc.Offers[i].PriceNaira
		if p == nil {
			continue
		}
		if pc.LowestPrice == nil || *p < *pc.LowestPrice {
			v := *p
			pc.LowestPrice = &v
			pc.BestDealRetailer = pc.Offers[i].RetailerName
		}
		if pc.HighestPrice == nil || *p > *pc.HighestPrice {
			v := *p
			pc.HighestPrice = &v
		}
		sum += *p
		count++
	}
	if count > 0 {
		avg := sum / float64(count)
		pc.AveragePrice = &avg
	}
}

// ValidOfferCount reports how many offers carry a price.
func (pc *PriceComparison) ValidOfferCount() int {
	n := 0
	for i := range pc.Offers {
		if pc.Offers[i].PriceNaira != nil {
			n++
		}
	}
	return n
}

// RecommendedRetailer is the best-balanced pick for one PriceComparison.
type RecommendedRetailer struct {
	RetailerID   string   `json:"retailer_id"`
	RetailerName string   `json:"retailer_name"`
	PriceNaira   *float64 `json:"price_naira,omitempty"`
	ProductURL   string   `json:"product_url"`
	TrustScore   int      `json:"trust_score"`
	TrustNote    string   `json:"trust_note"`
	Reason       string   `json:"recommendation_reason"`
}
