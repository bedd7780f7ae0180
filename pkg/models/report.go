package models

import "time"

// IntelligenceReport is the composite output of the whole pipeline for one
// product. Every enrichment field is optional; the report is assembled once
// and not mutated afterwards. Sub-parts are cached individually, the
// composite never is.
type IntelligenceReport struct {
	ReviewDocument

	PriceComparison      *PriceComparison     `json:"price_comparison,omitempty"`
	RecommendedRetailer  *RecommendedRetailer `json:"recommended_retailer,omitempty"`
	PriceNaira           *float64             `json:"price_naira,omitempty"`
	OriginalPriceDisplay string               `json:"original_price_display,omitempty"`
	PriceConfidence      string               `json:"price_confidence"`

	Images          []ImageCandidate `json:"product_images"`
	PrimaryImageURL string           `json:"primary_image_url,omitempty"`

	Sentiment       *SentimentScore `json:"sentiment_analysis,omitempty"`
	AspectBreakdown []AspectSummary `json:"aspect_breakdown,omitempty"`

	RedFlags   *RedFlagReport     `json:"red_flag_report,omitempty"`
	Timing     *TimingAdvice      `json:"timing_advice,omitempty"`
	Resale     *ResaleReport      `json:"resale_analysis,omitempty"`
	FakeAlert  *FakeSpotterReport `json:"fake_spotter_report,omitempty"`
	VoxPopuli  *VoxPopuliReport   `json:"vox_populi_report,omitempty"`
	SmartSwap  *SmartSwapReport   `json:"smart_swap_report,omitempty"`
	NetPrice   *NetPriceReport    `json:"net_price_report,omitempty"`
	WhatIf     *DisasterReport    `json:"what_if_report,omitempty"`

	BestForTags []BestForTag `json:"best_for_tags"`
	BudgetTier  string       `json:"budget_tier"`
	DataQuality string       `json:"data_quality"`

	PurchaseRecommendation        string   `json:"purchase_recommendation"`
	PurchaseRecommendationReasons []string `json:"purchase_recommendation_reasons"`
	AuthenticityNote              string   `json:"data_authenticity_note"`

	GeneratedAt time.Time `json:"generated_at"`
}
