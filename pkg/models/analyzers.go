package models

// RedFlag is a single detected issue.
type RedFlag struct {
	Severity           string   `json:"severity"`
	Category           string   `json:"category"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	AffectedPercentage *float64 `json:"affected_percentage,omitempty"`
}

// RedFlagReport summarizes defect, reliability and fake-review signals.
type RedFlagReport struct {
	ProductName      string    `json:"product_name"`
	RedFlags         []RedFlag `json:"red_flags"`
	OverallRiskLevel string    `json:"overall_risk_level"`
	RiskScore        float64   `json:"risk_score"`
	FakeReviewScore  float64   `json:"fake_review_score"`
	CommonComplaints []string  `json:"common_complaints"`
	Recommendation   string    `json:"recommendation"`
}

// HasCriticalIssues reports whether the findings warrant avoiding purchase.
func (r *RedFlagReport) HasCriticalIssues() bool {
	return r != nil && r.OverallRiskLevel == "high"
}

// TimingAdvice recommends when to buy based on lifecycle and sale seasons.
type TimingAdvice struct {
	ProductName       string   `json:"product_name"`
	LifecycleStage    string   `json:"lifecycle_stage"`
	Recommendation    string   `json:"recommendation"`
	Reasoning         string   `json:"reasoning"`
	NewModelExpected  bool     `json:"new_model_expected"`
	ReleaseWindow     string   `json:"expected_release_window,omitempty"`
	BestSalePeriods   []string `json:"best_sale_periods"`
	CurrentDealRating string   `json:"current_deal_quality"`
	PriceTrend        string   `json:"price_trend"`
	Confidence        float64  `json:"confidence"`
}

// ResaleReport estimates value retention on the used market.
type ResaleReport struct {
	PredictedValue1Yr string `json:"predicted_value_1yr"`
	PredictedValue3Yr string `json:"predicted_value_3yr"`
	DepreciationRate  string `json:"depreciation_rate"`
	InvestmentScore   int    `json:"investment_score"`
	Verdict           string `json:"verdict"`
}

// AuthenticityCheck is one verification step in a FakeSpotterReport.
type AuthenticityCheck struct {
	CheckType      string `json:"check_type"`
	Instruction    string `json:"instruction"`
	ExpectedResult string `json:"expected_result"`
	WarningSign    string `json:"warning_sign"`
}

// FakeSpotterReport is a counterfeit-risk guide for the product.
type FakeSpotterReport struct {
	RiskLevel         string              `json:"risk_level"`
	CommonScams       []string            `json:"common_scams"`
	VerificationSteps []AuthenticityCheck `json:"verification_steps"`
}

// ForumOpinion is the consensus digest for one platform.
type ForumOpinion struct {
	Platform    string `json:"platform"`
	Sentiment   string `json:"sentiment"`
	KeyTakeaway string `json:"key_takeaway"`
}

// VoxPopuliReport digests long-term owner sentiment from forums.
type VoxPopuliReport struct {
	OwnerVerdict   string         `json:"owner_verdict"`
	LoveItFor      []string       `json:"love_it_for"`
	HateItFor      []string       `json:"hate_it_for"`
	ForumConsensus []ForumOpinion `json:"forum_consensus"`
}

// SmartSwapOption is one used/refurbished alternative.
type SmartSwapOption struct {
	ProductName     string `json:"product_name"`
	Price           string `json:"price"`
	Condition       string `json:"condition"`
	PerformanceDiff string `json:"performance_diff"`
	ReasonToBuy     string `json:"reason_to_buy"`
	ReasonToAvoid   string `json:"reason_to_avoid"`
}

// SmartSwapReport lists better-value used alternatives at the same budget.
type SmartSwapReport struct {
	BasePrice      float64           `json:"base_price"`
	Recommendation string            `json:"recommendation"`
	Swaps          []SmartSwapOption `json:"swaps"`
}

// TradeInOption is a predecessor device and its trade-in value.
type TradeInOption struct {
	DeviceName     string  `json:"device_name"`
	EstimatedValue float64 `json:"estimated_value"`
	NetPrice       float64 `json:"net_price"`
}

// NetPriceReport estimates the true upgrade cost after a trade-in.
type NetPriceReport struct {
	UpgradeFrom []TradeInOption `json:"upgrade_from"`
}

// DisasterScenario is one simulated hazard and its expected outcome.
type DisasterScenario struct {
	Name               string `json:"name"`
	Scenario           string `json:"scenario"`
	Outcome            string `json:"outcome"`
	RepairCostEstimate string `json:"repair_cost_estimate"`
	SurvivabilityScore int    `json:"survivability_score"`
}

// DisasterReport scores resilience against local operating conditions.
type DisasterReport struct {
	DisasterScore int                `json:"disaster_score"`
	Scenarios     []DisasterScenario `json:"scenarios"`
}

// SentimentScore is the lexicon-based sentiment breakdown of a review.
type SentimentScore struct {
	Overall       string   `json:"overall_sentiment"`
	Compound      float64  `json:"compound_score"`
	PositiveRatio float64  `json:"positive_ratio"`
	NegativeRatio float64  `json:"negative_ratio"`
	NeutralRatio  float64  `json:"neutral_ratio"`
	Confidence    float64  `json:"sentiment_confidence"`
	EmotionalTone string   `json:"emotional_tone"`
	KeyPositives  []string `json:"key_positive_aspects"`
	KeyNegatives  []string `json:"key_negative_aspects"`
}

// AspectSummary is the per-aspect sentiment rollup.
type AspectSummary struct {
	Aspect       string  `json:"aspect"`
	Mentions     int     `json:"mentions"`
	AvgSentiment float64 `json:"avg_sentiment"`
}

// BestForTag scores the product's suitability for one use case.
type BestForTag struct {
	UseCase   string  `json:"use_case"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}
