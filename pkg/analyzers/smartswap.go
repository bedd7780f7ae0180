package analyzers

import (
	"context"
	"fmt"

	"product-intel/pkg/llm"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
)

// SmartSwap finds used or refurbished premium alternatives that beat the
// product at the same budget.
type SmartSwap struct {
	llm llm.Chatter
	log logger.Logger
}

func NewSmartSwap(chat llm.Chatter, log logger.Logger) *SmartSwap {
	return &SmartSwap{llm: chat, log: log}
}

const smartSwapSystem = "You are a financial advisor for all product categories. You find value in used premium goods across electronics, appliances, vehicles, fashion, and more."

// Analyze proposes swap options for the given budget. Requires a known
// price and a category with a used market; otherwise returns the neutral
// "Keep Original" report.
func (s *SmartSwap) Analyze(ctx context.Context, productName string, priceNaira float64) *models.SmartSwapReport {
	if priceNaira <= 0 {
		return &models.SmartSwapReport{BasePrice: 0, Recommendation: "Keep Original", Swaps: []models.SmartSwapOption{}}
	}

	neutral := &models.SmartSwapReport{BasePrice: priceNaira, Recommendation: "Keep Original", Swaps: []models.SmartSwapOption{}}
	if !tradeInEligible[DetectCategory(productName)] {
		return neutral
	}

	prompt := fmt.Sprintf(`The user is considering buying a NEW '%s' for ₦%s.

Find 2-3 USED, REFURBISHED, or OLDER PREMIUM alternatives in the SAME PRODUCT CATEGORY
available in Nigeria for roughly the SAME PRICE.

Requirements:
- Alternatives must be objectively BETTER (higher specs, professional grade, premium build)
- Match the exact product category (phones→phones, TVs→TVs, blenders→blenders)
- ALL PRICES MUST BE IN NIGERIAN NAIRA (₦) - no USD or other currencies
- Use realistic Nigerian market prices from Jumia, Konga, or Jiji

Return JSON:
{
    "recommendation": "Swap Recommended" or "Keep Original",
    "swaps": [
        {
            "product_name": "Full product name",
            "price": "₦XXX,XXX (REQUIRED - actual Nigerian market price)",
            "condition": "Used/Refurbished/Like New",
            "performance_diff": "+XX%% better in key metric",
            "reason_to_buy": "Why this is a smart swap",
            "reason_to_avoid": "Potential downside"
        }
    ]
}`, productName, formatAmount(priceNaira))

	var out struct {
		Recommendation string                   `json:"recommendation"`
		Swaps          []models.SmartSwapOption `json:"swaps"`
	}
	if err := s.llm.CompleteJSON(ctx, smartSwapSystem, prompt, &out); err != nil {
		s.log.Warn("smart swap analysis failed", logger.Err(err))
		return neutral
	}

	swaps := out.Swaps
	if swaps == nil {
		swaps = []models.SmartSwapOption{}
	}
	return &models.SmartSwapReport{
		BasePrice:      priceNaira,
		Recommendation: orDefault(out.Recommendation, "Keep Original"),
		Swaps:          swaps,
	}
}
