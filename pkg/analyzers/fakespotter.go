package analyzers

import (
	"context"
	"fmt"

	"product-intel/pkg/llm"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
)

// FakeSpotter generates a counterfeit-risk guide for the product.
type FakeSpotter struct {
	llm llm.Chatter
	log logger.Logger
}

func NewFakeSpotter(chat llm.Chatter, log logger.Logger) *FakeSpotter {
	return &FakeSpotter{llm: chat, log: log}
}

const fakeSpotterSystem = "You are a counterfeit detection expert specialized in the Nigerian market, covering electronics, appliances, fashion, and other product categories."

// Analyze builds a verification guide from the scraped context. Failures
// produce an "Unknown" risk report with no checks.
func (f *FakeSpotter) Analyze(ctx context.Context, productName, scrapedText string) *models.FakeSpotterReport {
	prompt := fmt.Sprintf(`Create a "Fake Spotter" guide for '%s'.
The Nigerian market has many counterfeit and refurbished products.

IMPORTANT: Generate scams and checks SPECIFIC to this exact product type.
- For PHONES: Focus on fake IMEI, cloned devices, refurbished batteries
- For LAPTOPS: Focus on fake specs, replaced GPUs, dead pixels
- For APPLIANCES: Focus on fake watts, non-genuine parts, missing warranty
- For FASHION: Focus on stitching, labels, materials
- For ELECTRONICS: Focus on serial verification, genuine accessories

DO NOT use generic examples. Every scam must be relevant to '%s'.

Focus on:
1. Risk Level: How common are fakes for THIS SPECIFIC item?
2. Common Scams: List 2-3 scams SPECIFIC to this product (not generic examples)
3. Verification Steps: Specific checks for THIS product type

Context:
%s

Return JSON matching this schema:
{
    "risk_level": "High/Medium/Low",
    "common_scams": ["Specific scam for this product", "Another specific scam"],
    "verification_steps": [
        {
            "check_type": "Physical/Software/Serial/Packaging",
            "instruction": "Specific check for this product",
            "expected_result": "What authentic product should show",
            "warning_sign": "What indicates counterfeit"
        }
    ]
}`, productName, productName, truncate(scrapedText, 2000))

	var out models.FakeSpotterReport
	if err := f.llm.CompleteJSON(ctx, fakeSpotterSystem, prompt, &out); err != nil {
		f.log.Warn("fake spotter analysis failed", logger.Err(err))
		return &models.FakeSpotterReport{RiskLevel: "Unknown", CommonScams: []string{}, VerificationSteps: []models.AuthenticityCheck{}}
	}

	out.RiskLevel = orDefault(out.RiskLevel, "Low")
	if out.CommonScams == nil {
		out.CommonScams = []string{}
	}
	if out.VerificationSteps == nil {
		out.VerificationSteps = []models.AuthenticityCheck{}
	}
	return &out
}
