package analyzers

import (
	"fmt"
	"strings"

	"product-intel/pkg/models"
)

var defectKeywords = []string{
	"defective", "broken", "stopped working", "died", "malfunction",
	"not working", "faulty", "dead on arrival", "doa", "repair",
	"replacement", "warranty claim", "returned",
}

var reliabilityKeywords = []string{
	"unreliable", "inconsistent", "random", "crashes", "freezes",
	"overheating", "battery drain", "slow", "lag", "buggy",
}

var incentivizedIndicators = []string{
	"received free", "in exchange for", "honest review", "disclaimer",
	"provided by", "gifted", "sponsored",
}

var severeConWords = []string{"major", "serious", "critical", "deal-breaker", "avoid"}

// RedFlagDetector scans review text for defect, reliability and
// incentivized-review signals. It is a pure keyword heuristic with no I/O.
type RedFlagDetector struct{}

// Analyze scores the combined review content and cons for red flags.
func (RedFlagDetector) Analyze(productName, reviewContent string, pros, cons []string) *models.RedFlagReport {
	fullText := strings.ToLower(reviewContent + " " + strings.Join(cons, " "))

	var flags []models.RedFlag
	riskScore := 0.0

	defectCount := countMatches(fullText, defectKeywords)
	switch {
	case defectCount >= 3:
		affected := float64(min(defectCount*10, 50))
		flags = append(flags, models.RedFlag{
			Severity:           "high",
			Category:           "defect",
			Title:              "Multiple Defect Reports",
			Description:        fmt.Sprintf("Found %d references to defects or malfunctions in reviews.", defectCount),
			AffectedPercentage: &affected,
		})
		riskScore += 3.0
	case defectCount >= 1:
		affected := float64(defectCount * 5)
		flags = append(flags, models.RedFlag{
			Severity:           "medium",
			Category:           "defect",
			Title:              "Some Defect Reports",
			Description:        "Some users reported defects or issues.",
			AffectedPercentage: &affected,
		})
		riskScore += 1.5
	}

	if countMatches(fullText, reliabilityKeywords) >= 2 {
		flags = append(flags, models.RedFlag{
			Severity:    "medium",
			Category:    "reliability",
			Title:       "Reliability Concerns",
			Description: "Multiple mentions of reliability or performance issues.",
		})
		riskScore += 2.0
	}

	severeCons := 0
	for _, con := range cons {
		lower := strings.ToLower(con)
		for _, word := range severeConWords {
			if strings.Contains(lower, word) {
				severeCons++
				break
			}
		}
	}
	if severeCons > 0 {
		flags = append(flags, models.RedFlag{
			Severity:    "medium",
			Category:    "reliability",
			Title:       "Serious Drawbacks Noted",
			Description: fmt.Sprintf("Reviewers identified %d significant concerns.", severeCons),
		})
		riskScore += 1.5
	}

	fakeCount := countMatches(fullText, incentivizedIndicators)
	fakeReviewScore := float64(fakeCount) * 0.15
	if fakeReviewScore > 0.5 {
		fakeReviewScore = 0.5
	}
	if fakeCount >= 2 {
		flags = append(flags, models.RedFlag{
			Severity:    "low",
			Category:    "fake_reviews",
			Title:       "Potential Incentivized Reviews",
			Description: "Some reviews may have been incentivized or sponsored.",
		})
	}

	complaints := cons
	if len(complaints) > 5 {
		complaints = complaints[:5]
	}

	var overall string
	switch {
	case riskScore >= 5:
		overall = "high"
	case riskScore >= 2:
		overall = "medium"
	default:
		overall = "low"
	}

	var recommendation string
	switch overall {
	case "high":
		recommendation = "⚠️ Proceed with caution. Consider alternatives or ensure good return policy."
	case "medium":
		recommendation = "✅ Generally safe to purchase, but be aware of reported issues."
	default:
		recommendation = "✅ No major red flags detected. Product appears reliable."
	}

	if riskScore > 10 {
		riskScore = 10
	}

	return &models.RedFlagReport{
		ProductName:      productName,
		RedFlags:         flags,
		OverallRiskLevel: overall,
		RiskScore:        riskScore,
		FakeReviewScore:  fakeReviewScore,
		CommonComplaints: complaints,
		Recommendation:   recommendation,
	}
}

func countMatches(text string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			count++
		}
	}
	return count
}
