package analyzers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-intel/pkg/logger"
)

// fakeChatter returns a canned JSON payload or error and counts calls.
type fakeChatter struct {
	response string
	err      error
	calls    int
}

func (f *fakeChatter) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeChatter) CompleteJSON(ctx context.Context, system, user string, out any) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.response), out)
}

func TestDetectCategory(t *testing.T) {
	cases := map[string]string{
		"iPhone 15 Pro Max":        "phone",
		"Lenovo ThinkPad X1":       "laptop",
		"Samsung Galaxy Tab S9":    "phone", // "galaxy" matches before "galaxy tab"
		"LG OLED TV C3":            "tv",
		"Sony WH-1000XM5":          "headphones",
		"Canon EOS R6":             "camera",
		"Apple Watch Series 9":     "smartwatch",
		"JBL Flip 6":               "headphones", // "jbl" is a headphone brand token
		"PlayStation 5":            "gaming",
		"Binatone Blender BLG-450": "",
	}
	for name, want := range cases {
		assert.Equal(t, want, DetectCategory(name), name)
	}
}

func TestCategoryFeaturesIncludesUniversal(t *testing.T) {
	features := CategoryFeatures("phone")
	assert.Contains(t, features, "durability")
	assert.Contains(t, features, "battery")
	assert.Contains(t, features, "camera")

	generic := CategoryFeatures("")
	assert.Contains(t, generic, "value")
	assert.NotContains(t, generic, "battery")
}

func TestCategoryInstructions(t *testing.T) {
	phone := CategoryInstructions("Tecno Spark 20")
	assert.Contains(t, phone, "DURABILITY ASSESSMENT")
	assert.Contains(t, phone, "CRITICAL PHONE FEATURES")

	generic := CategoryInstructions("Binatone Standing Fan")
	assert.Contains(t, generic, "DURABILITY ASSESSMENT")
	assert.NotContains(t, generic, "CRITICAL")
}

func TestRedFlagDetectorHighRisk(t *testing.T) {
	content := "The unit arrived defective, then it stopped working entirely. " +
		"Many buyers requested a replacement after the screen died. " +
		"It is unreliable and keeps overheating under load."
	cons := []string{"Serious overheating is a deal-breaker", "Buggy software"}

	report := RedFlagDetector{}.Analyze("Test Phone", content, nil, cons)

	assert.Equal(t, "high", report.OverallRiskLevel)
	assert.True(t, report.HasCriticalIssues())
	assert.GreaterOrEqual(t, report.RiskScore, 5.0)
	assert.Contains(t, report.Recommendation, "Proceed with caution")

	var titles []string
	for _, flag := range report.RedFlags {
		titles = append(titles, flag.Title)
	}
	assert.Contains(t, titles, "Multiple Defect Reports")
	assert.Contains(t, titles, "Reliability Concerns")
	assert.Contains(t, titles, "Serious Drawbacks Noted")
}

func TestRedFlagDetectorClean(t *testing.T) {
	report := RedFlagDetector{}.Analyze("Test Phone", "Excellent build and battery life.", nil, nil)

	assert.Equal(t, "low", report.OverallRiskLevel)
	assert.False(t, report.HasCriticalIssues())
	assert.Empty(t, report.RedFlags)
	assert.Contains(t, report.Recommendation, "No major red flags")
}

func TestRedFlagDetectorIncentivizedReviews(t *testing.T) {
	content := "I received free product in exchange for my honest review."
	report := RedFlagDetector{}.Analyze("Test Phone", content, nil, nil)

	assert.InDelta(t, 0.45, report.FakeReviewScore, 0.001)
	require.Len(t, report.RedFlags, 1)
	assert.Equal(t, "fake_reviews", report.RedFlags[0].Category)
}

func advisorAt(t *testing.T, at time.Time) *TimingAdvisor {
	t.Helper()
	a := NewTimingAdvisor()
	a.nowFunc = func() time.Time { return at }
	return a
}

func TestTimingAdvisorNewModelExpected(t *testing.T) {
	// August, one month before the usual September iPhone launch.
	a := advisorAt(t, time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC))
	advice := a.Advise("iPhone 16 Pro")

	assert.True(t, advice.NewModelExpected)
	assert.Equal(t, "Q3 2026", advice.ReleaseWindow)
	assert.Equal(t, "mature", advice.LifecycleStage)
	assert.Equal(t, "wait", advice.Recommendation)
	assert.InDelta(t, 0.7, advice.Confidence, 0.001)
}

func TestTimingAdvisorSaleSeason(t *testing.T) {
	a := advisorAt(t, time.Date(2026, time.November, 20, 0, 0, 0, 0, time.UTC))
	advice := a.Advise("Generic Soundbar X200")

	assert.Equal(t, "buy_now", advice.Recommendation)
	assert.Equal(t, "excellent", advice.CurrentDealRating)
	assert.Contains(t, advice.BestSalePeriods, "Black Friday (November)")
}

func TestTimingAdvisorWaitForUpcomingSale(t *testing.T) {
	// March: Easter sales fall inside the four-month lookahead.
	a := advisorAt(t, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC))
	advice := a.Advise("Hisense 55 inch TV 2025")

	assert.Equal(t, "mature", advice.LifecycleStage)
	assert.Equal(t, "wait", advice.Recommendation)
	assert.Contains(t, advice.Reasoning, "Easter Sales (March/April)")
	assert.Equal(t, "normal", advice.CurrentDealRating)
}

func TestTimingAdvisorLifecycleFromYearToken(t *testing.T) {
	a := advisorAt(t, time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "new", a.Advise("Galaxy S26 2026 Edition").LifecycleStage)
	assert.Equal(t, "end_of_life", a.Advise("Galaxy S24 2024 Edition").LifecycleStage)
}

func TestResaleAnalyzerSkipsIneligibleCategory(t *testing.T) {
	chat := &fakeChatter{}
	a := NewResaleAnalyzer(chat, logger.NewNop())

	report := a.Analyze(context.Background(), "LG Washing Machine", nil)

	assert.Equal(t, 0, chat.calls)
	assert.Equal(t, "Unknown", report.Verdict)
	assert.Equal(t, 0, report.InvestmentScore)
}

func TestResaleAnalyzerDecodesResponse(t *testing.T) {
	chat := &fakeChatter{response: `{
		"predicted_value_1yr": "70% (approx ₦840,000)",
		"predicted_value_3yr": "40% (approx ₦480,000)",
		"depreciation_rate": "Slow",
		"investment_score": 8,
		"verdict": "Buy New"
	}`}
	a := NewResaleAnalyzer(chat, logger.NewNop())
	price := 1200000.0

	report := a.Analyze(context.Background(), "iPhone 15 Pro", &price)

	assert.Equal(t, 1, chat.calls)
	assert.Equal(t, 8, report.InvestmentScore)
	assert.Equal(t, "Slow", report.DepreciationRate)
	assert.Equal(t, "Buy New", report.Verdict)
}

func TestResaleAnalyzerNeutralOnError(t *testing.T) {
	chat := &fakeChatter{err: errors.New("rate limited")}
	a := NewResaleAnalyzer(chat, logger.NewNop())

	report := a.Analyze(context.Background(), "iPhone 15 Pro", nil)

	assert.Equal(t, "Unknown", report.PredictedValue1Yr)
	assert.Equal(t, 0, report.InvestmentScore)
}

func TestFakeSpotterNeutralOnError(t *testing.T) {
	chat := &fakeChatter{err: errors.New("boom")}
	f := NewFakeSpotter(chat, logger.NewNop())

	report := f.Analyze(context.Background(), "iPhone 15", "context text")

	assert.Equal(t, "Unknown", report.RiskLevel)
	assert.Empty(t, report.CommonScams)
	assert.Empty(t, report.VerificationSteps)
}

func TestFakeSpotterDecodesResponse(t *testing.T) {
	chat := &fakeChatter{response: `{
		"risk_level": "High",
		"common_scams": ["Cloned IMEI devices sold as new"],
		"verification_steps": [
			{"check_type": "Serial", "instruction": "Dial *#06#", "expected_result": "IMEI matches box", "warning_sign": "Mismatch or blank"}
		]
	}`}
	f := NewFakeSpotter(chat, logger.NewNop())

	report := f.Analyze(context.Background(), "iPhone 15", "scraped")

	assert.Equal(t, "High", report.RiskLevel)
	require.Len(t, report.VerificationSteps, 1)
	assert.Equal(t, "Serial", report.VerificationSteps[0].CheckType)
}

func TestVoxPopuliNeutralOnError(t *testing.T) {
	chat := &fakeChatter{err: errors.New("boom")}
	v := NewVoxPopuli(chat, logger.NewNop())

	report := v.Analyze(context.Background(), "iPhone 15", "text")

	assert.Equal(t, "Data unavailable", report.OwnerVerdict)
	assert.Empty(t, report.ForumConsensus)
}

func TestSmartSwapRequiresPrice(t *testing.T) {
	chat := &fakeChatter{}
	s := NewSmartSwap(chat, logger.NewNop())

	report := s.Analyze(context.Background(), "iPhone 15", 0)

	assert.Equal(t, 0, chat.calls)
	assert.Equal(t, "Keep Original", report.Recommendation)
	assert.Zero(t, report.BasePrice)
}

func TestSmartSwapSkipsIneligibleCategory(t *testing.T) {
	chat := &fakeChatter{}
	s := NewSmartSwap(chat, logger.NewNop())

	report := s.Analyze(context.Background(), "Binatone Blender", 45000)

	assert.Equal(t, 0, chat.calls)
	assert.Equal(t, "Keep Original", report.Recommendation)
	assert.Equal(t, 45000.0, report.BasePrice)
}

func TestSmartSwapDecodesResponse(t *testing.T) {
	chat := &fakeChatter{response: `{
		"recommendation": "Swap Recommended",
		"swaps": [
			{"product_name": "iPhone 14 Pro (Used)", "price": "₦950,000", "condition": "Used",
			 "performance_diff": "+15% better camera", "reason_to_buy": "Pro camera system", "reason_to_avoid": "Worn battery"}
		]
	}`}
	s := NewSmartSwap(chat, logger.NewNop())

	report := s.Analyze(context.Background(), "iPhone 15", 1000000)

	assert.Equal(t, "Swap Recommended", report.Recommendation)
	require.Len(t, report.Swaps, 1)
	assert.Equal(t, "iPhone 14 Pro (Used)", report.Swaps[0].ProductName)
}

func TestNetPriceSkipsIneligibleCategory(t *testing.T) {
	chat := &fakeChatter{}
	n := NewNetPrice(chat, logger.NewNop())

	report := n.Analyze(context.Background(), "Binatone Blender", 45000)

	assert.Equal(t, 0, chat.calls)
	assert.Empty(t, report.UpgradeFrom)
}

func TestNetPriceClampsNegativeNet(t *testing.T) {
	chat := &fakeChatter{response: `{
		"upgrade_from": [
			{"device_name": "iPhone 13", "estimated_value": 400000},
			{"device_name": "iPhone 14 Pro Max", "estimated_value": "1300000"}
		]
	}`}
	n := NewNetPrice(chat, logger.NewNop())

	report := n.Analyze(context.Background(), "iPhone 15", 1200000)

	require.Len(t, report.UpgradeFrom, 2)
	assert.Equal(t, 800000.0, report.UpgradeFrom[0].NetPrice)
	assert.Equal(t, 1300000.0, report.UpgradeFrom[1].EstimatedValue)
	assert.Zero(t, report.UpgradeFrom[1].NetPrice)
}

func TestDisasterAnalyzerDefaultsScore(t *testing.T) {
	chat := &fakeChatter{response: `{"scenarios": [
		{"name": "The Danfo Drop", "scenario": "Dropped in a packed bus.", "outcome": "Cracked Screen",
		 "repair_cost_estimate": "NGN 120,000", "survivability_score": 4}
	]}`}
	d := NewDisasterAnalyzer(chat, logger.NewNop())

	report := d.Analyze(context.Background(), "iPhone 15", "phone")

	assert.Equal(t, 5, report.DisasterScore)
	require.Len(t, report.Scenarios, 1)
	assert.Equal(t, 4, report.Scenarios[0].SurvivabilityScore)
}

func TestDisasterAnalyzerNeutralOnError(t *testing.T) {
	chat := &fakeChatter{err: errors.New("boom")}
	d := NewDisasterAnalyzer(chat, logger.NewNop())

	report := d.Analyze(context.Background(), "iPhone 15", "phone")

	assert.Zero(t, report.DisasterScore)
	assert.Empty(t, report.Scenarios)
}
