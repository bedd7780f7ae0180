package analyzers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"product-intel/pkg/models"
)

// salePeriod is a recurring Nigerian sale season.
type salePeriod struct {
	months []int
	name   string
}

var salePeriods = []salePeriod{
	{months: []int{11}, name: "Black Friday (November)"},
	{months: []int{12}, name: "Boxing Day Sales (December)"},
	{months: []int{1}, name: "New Year Sales (January)"},
	{months: []int{10}, name: "Independence Day Sales (October)"},
	{months: []int{3, 4}, name: "Easter Sales (March/April)"},
	{months: []int{8, 9}, name: "Back to School (August/September)"},
}

// releasePattern is the approximate annual release rhythm for a product line.
type releasePattern struct {
	match        string
	typicalMonth int
}

var releasePatterns = []releasePattern{
	{match: "iphone", typicalMonth: 9},
	{match: "samsung galaxy", typicalMonth: 2},
	{match: "pixel", typicalMonth: 10},
	{match: "macbook", typicalMonth: 6},
	{match: "ipad", typicalMonth: 3},
	{match: "playstation", typicalMonth: 11},
	{match: "xbox", typicalMonth: 11},
}

// TimingAdvisor recommends when to buy based on product lifecycle, release
// rhythms and the Nigerian sale calendar. Pure heuristic, no I/O.
type TimingAdvisor struct {
	nowFunc func() time.Time
}

func NewTimingAdvisor() *TimingAdvisor {
	return &TimingAdvisor{nowFunc: time.Now}
}

// Advise produces a purchase timing recommendation for the product.
func (a *TimingAdvisor) Advise(productName string) *models.TimingAdvice {
	now := a.nowFunc().UTC()
	nameLower := strings.ToLower(productName)
	currentMonth := int(now.Month())

	lifecycle := determineLifecycle(nameLower, now.Year())
	upcomingSales := upcomingSalePeriods(currentMonth)
	newModelExpected, releaseWindow := checkNewModel(nameLower, now)
	recommendation, reasoning := timingRecommendation(lifecycle, newModelExpected, currentMonth, upcomingSales)

	confidence := 0.5
	if newModelExpected {
		confidence = 0.7
	}

	return &models.TimingAdvice{
		ProductName:       productName,
		LifecycleStage:    lifecycle,
		Recommendation:    recommendation,
		Reasoning:         reasoning,
		NewModelExpected:  newModelExpected,
		ReleaseWindow:     releaseWindow,
		BestSalePeriods:   upcomingSales,
		CurrentDealRating: dealQualityForMonth(currentMonth),
		PriceTrend:        "stable",
		Confidence:        confidence,
	}
}

func determineLifecycle(nameLower string, currentYear int) string {
	for year := currentYear; year > currentYear-5; year-- {
		if strings.Contains(nameLower, strconv.Itoa(year)) {
			switch currentYear - year {
			case 0:
				return "new"
			case 1:
				return "mature"
			default:
				return "end_of_life"
			}
		}
	}

	for _, word := range []string{"latest", "new"} {
		if strings.Contains(nameLower, word) {
			return "new"
		}
	}
	for _, word := range []string{"previous", "last gen", "older"} {
		if strings.Contains(nameLower, word) {
			return "end_of_life"
		}
	}
	return "mature"
}

// upcomingSalePeriods returns up to three sale seasons within the next
// four months, counting the current month.
func upcomingSalePeriods(currentMonth int) []string {
	window := make(map[int]bool, 4)
	for i := 0; i < 4; i++ {
		window[(currentMonth+i-1)%12+1] = true
	}

	var upcoming []string
	for _, period := range salePeriods {
		for _, month := range period.months {
			if window[month] {
				upcoming = append(upcoming, period.name)
				break
			}
		}
		if len(upcoming) == 3 {
			break
		}
	}
	return upcoming
}

func checkNewModel(nameLower string, now time.Time) (bool, string) {
	currentMonth := int(now.Month())
	for _, pattern := range releasePatterns {
		if !strings.Contains(nameLower, pattern.match) {
			continue
		}
		monthsUntil := (pattern.typicalMonth - currentMonth + 12) % 12
		if monthsUntil <= 3 {
			quarter := (pattern.typicalMonth-1)/3 + 1
			return true, fmt.Sprintf("Q%d %d", quarter, now.Year())
		}
	}
	return false, ""
}

func timingRecommendation(lifecycle string, newModel bool, currentMonth int, upcomingSales []string) (string, string) {
	inSalePeriod := currentMonth == 11 || currentMonth == 12 || currentMonth == 1

	switch {
	case newModel && lifecycle == "mature":
		return "wait", "New model expected soon. Wait for release or price drop on current model."
	case inSalePeriod:
		return "buy_now", "Good time to buy! Current sale season offers best prices."
	case len(upcomingSales) > 0 && lifecycle != "new":
		return "wait", fmt.Sprintf("Consider waiting for %s for better deals.", upcomingSales[0])
	case lifecycle == "new":
		return "buy_now", "New product at peak value. Buy now if you need the latest features."
	case lifecycle == "end_of_life":
		return "consider_alternatives", "Product is aging. Consider newer alternatives unless price is very attractive."
	default:
		return "buy_now", "Product is at a stable point in its lifecycle. Safe to purchase."
	}
}

func dealQualityForMonth(currentMonth int) string {
	switch currentMonth {
	case 11, 12:
		return "excellent"
	case 1, 6, 7:
		return "good"
	default:
		return "normal"
	}
}
