package sentiment

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"product-intel/pkg/models"
)

// Lexicon tuned for product reviews. Terms outside either set count as
// neutral.
var positiveTerms = map[string]struct{}{
	"excellent": {}, "amazing": {}, "outstanding": {}, "superb": {}, "fantastic": {},
	"premium": {}, "durable": {}, "reliable": {}, "innovative": {}, "impressive": {},
	"worth": {}, "recommend": {}, "love": {}, "perfect": {}, "flawless": {},
	"good": {}, "great": {}, "solid": {}, "fast": {}, "responsive": {},
}

var negativeTerms = map[string]struct{}{
	"disappointing": {}, "terrible": {}, "awful": {}, "poor": {}, "defective": {},
	"broken": {}, "overpriced": {}, "waste": {}, "regret": {}, "avoid": {},
	"frustrating": {}, "unreliable": {}, "cheaply": {}, "horrible": {},
	"slow": {}, "bad": {}, "weak": {}, "noisy": {},
}

// aspectKeywords groups review vocabulary into product aspects.
var aspectKeywords = map[string][]string{
	"Quality":     {"quality", "build", "durability", "material", "construction"},
	"Performance": {"performance", "speed", "fast", "slow", "responsive"},
	"Value":       {"price", "value", "worth", "expensive", "cheap", "cost"},
	"Design":      {"design", "look", "aesthetic", "style", "appearance"},
	"Features":    {"features", "functionality", "capability", "options"},
	"Usability":   {"easy", "difficult", "intuitive", "complicated", "user-friendly"},
}

var excitementWords = []string{"amazing", "awesome", "love", "excellent", "fantastic"}
var satisfactionWords = []string{"good", "satisfied", "happy", "pleased", "solid"}
var disappointmentWords = []string{"disappointing", "expected", "unfortunately", "hoped"}
var frustrationWords = []string{"frustrating", "annoying", "terrible", "horrible", "awful"}

var wordPattern = regexp.MustCompile(`[a-z][a-z\-]*`)
var sentenceSplit = regexp.MustCompile(`[.!?]`)

// AnalyzeReview scores the whole review document: specs, pros, cons and
// assessment combined.
func AnalyzeReview(doc *models.ReviewDocument) *models.SentimentScore {
	fullText := buildFullText(doc)
	compound := Compound(fullText)
	pos, neg, neu := ratios(fullText)

	overall := "Mixed"
	switch {
	case compound >= 0.05:
		overall = "Positive"
	case compound <= -0.05:
		overall = "Negative"
	}

	return &models.SentimentScore{
		Overall:       overall,
		Compound:      compound,
		PositiveRatio: pos,
		NegativeRatio: neg,
		NeutralRatio:  neu,
		Confidence:    confidence(compound, pos+neg),
		EmotionalTone: emotionalTone(fullText, compound),
		KeyPositives:  matchAspects(doc.Pros, fullText),
		KeyNegatives:  matchAspects(doc.Cons, fullText),
	}
}

// Compound scores a text in [-1, 1] from the balance of lexicon hits.
func Compound(text string) float64 {
	var pos, neg int
	for _, w := range words(text) {
		if _, ok := positiveTerms[w]; ok {
			pos++
		} else if _, ok := negativeTerms[w]; ok {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	// Normalized difference, damped so a single hit does not saturate.
	raw := float64(pos-neg) / math.Sqrt(float64(pos+neg)*4)
	return math.Max(-1, math.Min(1, raw))
}

// SummarizeAspects scores each product aspect over the sentences that
// mention it, most-discussed aspects first.
func SummarizeAspects(doc *models.ReviewDocument) []models.AspectSummary {
	text := buildFullText(doc)
	var sentences []string
	for _, s := range sentenceSplit.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	var out []models.AspectSummary
	for aspect, keywords := range aspectKeywords {
		var sum float64
		mentions := 0
		for _, sent := range sentences {
			lower := strings.ToLower(sent)
			for _, kw := range keywords {
				if strings.Contains(lower, kw) {
					sum += Compound(sent)
					mentions++
					break
				}
			}
		}
		if mentions > 0 {
			out = append(out, models.AspectSummary{
				Aspect:       aspect,
				Mentions:     mentions,
				AvgSentiment: sum / float64(mentions),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Mentions != out[j].Mentions {
			return out[i].Mentions > out[j].Mentions
		}
		return out[i].Aspect < out[j].Aspect
	})
	return out
}

func buildFullText(doc *models.ReviewDocument) string {
	parts := []string{doc.Specifications}
	parts = append(parts, strings.Join(doc.Pros, " "))
	parts = append(parts, strings.Join(doc.Cons, " "))
	parts = append(parts, doc.Assessment)
	return strings.Join(parts, ". ")
}

func words(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

func ratios(text string) (pos, neg, neu float64) {
	ws := words(text)
	if len(ws) == 0 {
		return 0, 0, 1
	}
	var p, n int
	for _, w := range ws {
		if _, ok := positiveTerms[w]; ok {
			p++
		} else if _, ok := negativeTerms[w]; ok {
			n++
		}
	}
	total := float64(len(ws))
	pos = float64(p) / total
	neg = float64(n) / total
	neu = 1 - pos - neg
	return pos, neg, neu
}

// confidence grows with signal magnitude and density of opinionated words.
func confidence(compound, coverage float64) float64 {
	magnitude := math.Abs(compound)
	c := magnitude*0.6 + math.Min(coverage*10, 1)*0.4
	return math.Round(c*1000) / 1000
}

func emotionalTone(text string, compound float64) string {
	lower := strings.ToLower(text)
	count := func(list []string) int {
		n := 0
		for _, w := range list {
			if strings.Contains(lower, w) {
				n++
			}
		}
		return n
	}
	excitement := count(excitementWords)
	satisfaction := count(satisfactionWords)
	disappointment := count(disappointmentWords)
	frustration := count(frustrationWords)

	switch {
	case compound >= 0.5:
		if excitement > satisfaction {
			return "Enthusiastic"
		}
		return "Satisfied"
	case compound >= 0.1:
		return "Cautiously Optimistic"
	case compound >= -0.1:
		return "Neutral/Balanced"
	case compound >= -0.5:
		if disappointment > frustration {
			return "Disappointed"
		}
		return "Concerned"
	default:
		if frustration > disappointment {
			return "Frustrated"
		}
		return "Very Disappointed"
	}
}

// matchAspects reports which aspects appear both in the overall text and in
// the given pro/con list, capped at five.
func matchAspects(items []string, fullText string) []string {
	textLower := strings.ToLower(fullText)
	seen := map[string]struct{}{}
	var aspects []string

	var names []string
	for name := range aspectKeywords {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, keyword := range aspectKeywords[name] {
			if !strings.Contains(textLower, keyword) {
				continue
			}
			for _, item := range items {
				if strings.Contains(strings.ToLower(item), keyword) {
					if _, ok := seen[name]; !ok {
						seen[name] = struct{}{}
						aspects = append(aspects, name)
					}
					break
				}
			}
		}
	}
	if len(aspects) > 5 {
		aspects = aspects[:5]
	}
	return aspects
}
