package analyzers

import (
	"context"
	"fmt"

	"product-intel/pkg/llm"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
)

// ResaleAnalyzer forecasts value retention on the Nigerian used market.
type ResaleAnalyzer struct {
	llm llm.Chatter
	log logger.Logger
}

func NewResaleAnalyzer(chat llm.Chatter, log logger.Logger) *ResaleAnalyzer {
	return &ResaleAnalyzer{llm: chat, log: log}
}

const resaleSystem = "You are a valuation expert for consumer products in Nigeria, covering electronics, appliances, vehicles, fashion, and more."

// Analyze estimates depreciation for the product. Products outside the
// categories with a used market get the neutral report without a model call.
func (a *ResaleAnalyzer) Analyze(ctx context.Context, productName string, priceNaira *float64) *models.ResaleReport {
	neutral := &models.ResaleReport{
		PredictedValue1Yr: "Unknown",
		PredictedValue3Yr: "Unknown",
		DepreciationRate:  "Unknown",
		InvestmentScore:   0,
		Verdict:           "Unknown",
	}

	if !tradeInEligible[DetectCategory(productName)] {
		return neutral
	}

	priceDesc := "Current Price: Unknown (Estimate based on market)"
	if priceNaira != nil {
		priceDesc = fmt.Sprintf("Current Price: ₦%s", formatAmount(*priceNaira))
	}

	prompt := fmt.Sprintf(`Analyze the potential resale value and depreciation for '%s'.
%s

Focus on:
1. Brand value retention (e.g. Apple vs Android vs Generic).
2. Typical depreciation curves for this product category.
3. Demand in the Nigerian used market.

Return JSON matching this schema:
{
    "predicted_value_1yr": "e.g. 75%% (approx ₦XXX,XXX)",
    "predicted_value_3yr": "e.g. 45%% (approx ₦XXX,XXX)",
    "depreciation_rate": "Fast/Moderate/Slow",
    "investment_score": 0-10 (integer, 10=excellent retention),
    "verdict": "e.g. Buy New / Buy Used / Good Short-term"
}`, productName, priceDesc)

	var out struct {
		PredictedValue1Yr string `json:"predicted_value_1yr"`
		PredictedValue3Yr string `json:"predicted_value_3yr"`
		DepreciationRate  string `json:"depreciation_rate"`
		InvestmentScore   any    `json:"investment_score"`
		Verdict           string `json:"verdict"`
	}
	if err := a.llm.CompleteJSON(ctx, resaleSystem, prompt, &out); err != nil {
		a.log.Warn("resale analysis failed", logger.Err(err))
		return neutral
	}

	score := int(asFloat(out.InvestmentScore))
	if out.InvestmentScore == nil {
		score = 5
	}

	return &models.ResaleReport{
		PredictedValue1Yr: orDefault(out.PredictedValue1Yr, "Unknown"),
		PredictedValue3Yr: orDefault(out.PredictedValue3Yr, "Unknown"),
		DepreciationRate:  orDefault(out.DepreciationRate, "Moderate"),
		InvestmentScore:   score,
		Verdict:           orDefault(out.Verdict, "Neutral"),
	}
}
