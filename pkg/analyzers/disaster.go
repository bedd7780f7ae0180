package analyzers

import (
	"context"
	"fmt"

	"product-intel/pkg/llm"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
)

// DisasterAnalyzer simulates everyday Nigerian hazard scenarios to gauge
// real-world durability.
type DisasterAnalyzer struct {
	llm llm.Chatter
	log logger.Logger
}

func NewDisasterAnalyzer(chat llm.Chatter, log logger.Logger) *DisasterAnalyzer {
	return &DisasterAnalyzer{llm: chat, log: log}
}

const disasterSystem = "You are a stress-test engineer specializing in African operating conditions."

// Analyze runs the three-scenario simulation. Failures produce a zero
// score with no scenarios.
func (d *DisasterAnalyzer) Analyze(ctx context.Context, productName, category string) *models.DisasterReport {
	prompt := fmt.Sprintf(`Simulate 3 realistic, culturally relevant Nigerian disaster scenarios for '%s' (Category: %s).
Focus on Environmental Hazards (Dust/Heat), Infrastructure Failures (Power Surge), or Daily Chaos (Danfo Bus/Market Crowds).

Determine if the product survives based on its known durability (IP rating, build materials, cooling).

Return JSON matching this schema:
{
    "disaster_score": 7, (Overall resilience 1-10)
    "scenarios": [
        {
            "name": "The Danfo Drop",
            "scenario": "You are jostled in a packed Danfo and the device falls face-down on metal flooring.",
            "outcome": "Cracked Screen",
            "repair_cost_estimate": "NGN 120,000",
            "survivability_score": 4
        }
    ]
}`, productName, category)

	var out struct {
		DisasterScore *int                      `json:"disaster_score"`
		Scenarios     []models.DisasterScenario `json:"scenarios"`
	}
	if err := d.llm.CompleteJSON(ctx, disasterSystem, prompt, &out); err != nil {
		d.log.Warn("disaster simulation failed", logger.Err(err))
		return &models.DisasterReport{DisasterScore: 0, Scenarios: []models.DisasterScenario{}}
	}

	score := 5
	if out.DisasterScore != nil {
		score = *out.DisasterScore
	}
	scenarios := out.Scenarios
	if scenarios == nil {
		scenarios = []models.DisasterScenario{}
	}
	return &models.DisasterReport{DisasterScore: score, Scenarios: scenarios}
}
