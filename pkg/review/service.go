package review

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"product-intel/pkg/analyzers"
	"product-intel/pkg/currency"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
	"product-intel/pkg/sentiment"
)

// ErrInvalidProduct rejects unusable product names before any network work.
var ErrInvalidProduct = errors.New("invalid product name")

const maxProductNameLen = 200

// Options steer a single report build.
type Options struct {
	// IncludeGlobal adds Amazon and multi-platform offers to the comparison.
	IncludeGlobal bool
	// Mode selects the evidence source: "web" (default), "ai", or "hybrid".
	Mode string
}

// Searcher finds web evidence for a product.
type Searcher interface {
	SearchProducts(productName string) ([]models.SearchResult, error)
}

// ContentScraper extracts readable text from search hits.
type ContentScraper interface {
	ScrapeContent(results []models.SearchResult) []models.ScrapedContent
}

// ImageFetcher finds relevant product images.
type ImageFetcher interface {
	FetchImages(productName string) []models.ImageCandidate
}

// PriceService aggregates retailer offers and recommends where to buy.
type PriceService interface {
	GetPriceComparison(productName string, includeGlobal bool) *models.PriceComparison
	RecommendRetailer(pc *models.PriceComparison) *models.RecommendedRetailer
}

// NairaConverter normalizes foreign amounts to NGN.
type NairaConverter interface {
	ToNaira(amount *float64, code string) *float64
}

// Analyzers bundles the optional enrichment analyzers. Nil members are
// skipped.
type Analyzers struct {
	RedFlags  *analyzers.RedFlagDetector
	Timing    *analyzers.TimingAdvisor
	Resale    *analyzers.ResaleAnalyzer
	FakeAlert *analyzers.FakeSpotter
	VoxPopuli *analyzers.VoxPopuli
	SmartSwap *analyzers.SmartSwap
	NetPrice  *analyzers.NetPrice
	Disaster  *analyzers.DisasterAnalyzer
}

// Service orchestrates the full report pipeline: search, scrape, generate,
// enrich, assemble.
type Service struct {
	search    Searcher
	scraper   ContentScraper
	generator *Generator
	images    ImageFetcher
	pricing   PriceService
	converter NairaConverter
	analyzers Analyzers
	log       logger.Logger
	nowFunc   func() time.Time
}

func NewService(searchClient Searcher, scraper ContentScraper, gen *Generator,
	imageFetcher ImageFetcher, priceService PriceService, conv NairaConverter,
	an Analyzers, log logger.Logger) *Service {
	return &Service{
		search:    searchClient,
		scraper:   scraper,
		generator: gen,
		images:    imageFetcher,
		pricing:   priceService,
		converter: conv,
		analyzers: an,
		log:       log,
		nowFunc:   time.Now,
	}
}

// BuildReport runs the whole pipeline for one product. Only validation and
// base-review generation are fatal; every enrichment degrades gracefully.
func (s *Service) BuildReport(ctx context.Context, productName string, opts Options) (*models.IntelligenceReport, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidProduct)
	}
	if len(productName) > maxProductNameLen {
		return nil, fmt.Errorf("%w: name exceeds %d characters", ErrInvalidProduct, maxProductNameLen)
	}

	doc, searchResults, scraped, err := s.baseReview(ctx, productName, opts.Mode)
	if err != nil {
		return nil, err
	}

	report := &models.IntelligenceReport{
		ReviewDocument: *doc,
		GeneratedAt:    s.nowFunc().UTC(),
	}

	if s.images != nil {
		report.Images = s.images.FetchImages(productName)
	}
	if len(report.Images) > 0 {
		report.PrimaryImageURL = report.Images[0].URL
	}

	// Price story: prefer the price the review surfaced (any currency),
	// fall back to the best local offer.
	var globalAmount *float64
	if doc.PriceInfo != "" {
		amount, code := currency.ParsePrice(doc.PriceInfo)
		if amount != nil {
			globalAmount = amount
			report.PriceNaira = s.converter.ToNaira(amount, code)
			report.OriginalPriceDisplay = strings.TrimSpace(doc.PriceInfo)
		}
	}

	var comparison *models.PriceComparison
	if s.pricing != nil {
		comparison = s.pricing.GetPriceComparison(productName, opts.IncludeGlobal)
	}
	if comparison != nil && len(comparison.Offers) == 0 {
		comparison = nil
	}
	report.PriceComparison = comparison
	if report.PriceNaira == nil && comparison != nil && comparison.LowestPrice != nil {
		report.PriceNaira = comparison.LowestPrice
		if comparison.BestDealRetailer != "" {
			report.OriginalPriceDisplay = fmt.Sprintf("%s from %s",
				currency.FormatNaira(comparison.LowestPrice), comparison.BestDealRetailer)
		}
	}

	if comparison != nil {
		report.RecommendedRetailer = s.pricing.RecommendRetailer(comparison)
	}

	report.Sentiment = sentiment.AnalyzeReview(doc)
	report.AspectBreakdown = sentiment.SummarizeAspects(doc)
	s.runAnalyzers(ctx, report, doc, scraped)

	report.DataQuality = assessDataQuality(doc.DataSourceType, searchResults, scraped)
	report.PriceConfidence = computePriceConfidence(globalAmount, comparison, report.PriceNaira)
	report.BestForTags = bestForTags(doc)
	report.BudgetTier = budgetTier(report.PriceNaira)
	report.AuthenticityNote = authenticityNote(doc.DataSourceType, report.DataQuality,
		report.PriceConfidence, len(doc.Sources), offerCount(comparison))
	report.PurchaseRecommendation, report.PurchaseRecommendationReasons =
		purchaseRecommendation(report.Timing, report.RedFlags, comparison, report.DataQuality)

	return report, nil
}

// baseReview gathers evidence and generates the base document according to
// the requested mode.
func (s *Service) baseReview(ctx context.Context, productName, mode string) (*models.ReviewDocument, []models.SearchResult, []models.ScrapedContent, error) {
	switch mode {
	case "ai":
		doc, err := s.generator.GenerateFromKnowledge(ctx, productName)
		return doc, nil, nil, err
	case "hybrid":
		results, err := s.search.SearchProducts(productName)
		if err != nil || len(results) == 0 {
			s.log.Warn("web evidence unavailable, falling back to model knowledge",
				logger.String("product", productName))
			doc, genErr := s.generator.GenerateFromKnowledge(ctx, productName)
			return doc, nil, nil, genErr
		}
		scraped := s.scraper.ScrapeContent(results)
		if len(scraped) == 0 {
			doc, genErr := s.generator.GenerateFromKnowledge(ctx, productName)
			return doc, results, nil, genErr
		}
		doc, genErr := s.generator.Generate(ctx, productName, results, scraped)
		return doc, results, scraped, genErr
	default:
		results, err := s.search.SearchProducts(productName)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%w: %v", ErrGeneration, err)
		}
		if len(results) == 0 {
			return nil, nil, nil, fmt.Errorf("%w: no search results found", ErrGeneration)
		}
		scraped := s.scraper.ScrapeContent(results)
		doc, genErr := s.generator.Generate(ctx, productName, results, scraped)
		return doc, results, scraped, genErr
	}
}

// runAnalyzers executes every configured analyzer. Each runs behind a
// recover so a panicking analyzer costs its own section, not the report.
func (s *Service) runAnalyzers(ctx context.Context, report *models.IntelligenceReport, doc *models.ReviewDocument, scraped []models.ScrapedContent) {
	var contentParts []string
	for _, c := range scraped {
		if c.Content != "" {
			contentParts = append(contentParts, c.Content)
		}
	}
	allContent := strings.Join(contentParts, " ")

	price := 0.0
	if report.PriceNaira != nil {
		price = *report.PriceNaira
	}
	category := analyzers.DetectCategory(doc.ProductName)
	if category == "" {
		category = "general"
	}

	if s.analyzers.RedFlags != nil {
		s.safely("red_flags", func() {
			report.RedFlags = s.analyzers.RedFlags.Analyze(doc.ProductName, allContent, doc.Pros, doc.Cons)
		})
	}
	if s.analyzers.Timing != nil {
		s.safely("timing", func() {
			report.Timing = s.analyzers.Timing.Advise(doc.ProductName)
		})
	}
	if s.analyzers.Resale != nil {
		s.safely("resale", func() {
			report.Resale = s.analyzers.Resale.Analyze(ctx, doc.ProductName, report.PriceNaira)
		})
	}
	if s.analyzers.FakeAlert != nil {
		s.safely("fake_spotter", func() {
			report.FakeAlert = s.analyzers.FakeAlert.Analyze(ctx, doc.ProductName, allContent)
		})
	}
	if s.analyzers.VoxPopuli != nil {
		s.safely("vox_populi", func() {
			report.VoxPopuli = s.analyzers.VoxPopuli.Analyze(ctx, doc.ProductName, allContent)
		})
	}
	if s.analyzers.SmartSwap != nil {
		s.safely("smart_swap", func() {
			report.SmartSwap = s.analyzers.SmartSwap.Analyze(ctx, doc.ProductName, price)
		})
	}
	if s.analyzers.NetPrice != nil {
		s.safely("net_price", func() {
			report.NetPrice = s.analyzers.NetPrice.Analyze(ctx, doc.ProductName, price)
		})
	}
	if s.analyzers.Disaster != nil {
		s.safely("disaster", func() {
			report.WhatIf = s.analyzers.Disaster.Analyze(ctx, doc.ProductName, category)
		})
	}
}

func (s *Service) safely(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("analyzer panicked", logger.String("analyzer", name), logger.Any("panic", r))
		}
	}()
	fn()
}

func assessDataQuality(sourceType string, results []models.SearchResult, scraped []models.ScrapedContent) string {
	if sourceType == "ai_knowledge" {
		return "limited"
	}
	if len(results) == 0 || len(scraped) == 0 {
		return "poor"
	}
	totalChars := 0
	for _, c := range scraped {
		totalChars += len(c.Content)
	}
	if len(results) >= 3 && totalChars > 4000 {
		return "good"
	}
	if totalChars > 1000 {
		return "limited"
	}
	return "poor"
}

func computePriceConfidence(globalAmount *float64, comparison *models.PriceComparison, priceNaira *float64) string {
	hasGlobal := globalAmount != nil
	localCount := offerCount(comparison)

	if hasGlobal && localCount >= 2 && priceNaira != nil {
		return "high"
	}
	if hasGlobal || localCount > 0 {
		return "medium"
	}
	return "low"
}

func offerCount(comparison *models.PriceComparison) int {
	if comparison == nil {
		return 0
	}
	return len(comparison.Offers)
}

// useCase pairs a display label with the keywords that signal it.
type useCase struct {
	label    string
	keywords []string
}

var useCases = []useCase{
	{"Gaming", []string{"gaming", "game", "fps", "graphics", "refresh rate", "latency"}},
	{"Work", []string{"productivity", "business", "professional", "office", "multitasking"}},
	{"Photography", []string{"camera", "photo", "megapixel", "lens", "portrait", "night mode"}},
	{"Travel", []string{"portable", "lightweight", "battery life", "compact", "travel"}},
	{"Students", []string{"affordable", "budget", "student", "school", "education"}},
	{"Content Creation", []string{"video", "editing", "creator", "streaming", "youtube"}},
	{"Fitness", []string{"health", "fitness", "workout", "exercise", "heart rate", "tracking"}},
	{"Music", []string{"audio", "sound", "music", "bass", "noise cancellation", "headphone"}},
	{"Home", []string{"home", "kitchen", "family", "household", "living room", "bedroom", "appliance", "cleaning"}},
	{"Outdoor", []string{"outdoor", "garden", "camping", "patio", "solar", "weather", "waterproof", "rugged"}},
	{"Energy Efficiency", []string{"power", "energy", "saving", "efficient", "bill", "electric", "inverter", "eco"}},
	{"Durability", []string{"durable", "sturdy", "tough", "long-lasting", "reliable", "quality"}},
}

// bestForTags derives use-case suitability tags from the review text. A use
// case needs at least two keyword hits to qualify.
func bestForTags(doc *models.ReviewDocument) []models.BestForTag {
	text := strings.ToLower(doc.Specifications + " " + strings.Join(doc.Pros, " ") + " " + doc.Assessment)

	var tags []models.BestForTag
	for _, uc := range useCases {
		matches := 0
		for _, kw := range uc.keywords {
			if strings.Contains(text, kw) {
				matches++
			}
		}
		if matches < 2 {
			continue
		}
		score := float64(matches) * 0.2
		if score > 1.0 {
			score = 1.0
		}
		tags = append(tags, models.BestForTag{
			UseCase:   uc.label,
			Score:     score,
			Reasoning: fmt.Sprintf("Strong match based on %d relevant features", matches),
		})
	}

	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Score > tags[j].Score })
	if len(tags) > 5 {
		tags = tags[:5]
	}
	return tags
}

// budgetTier places a naira price into the Nigerian market tiers.
func budgetTier(priceNaira *float64) string {
	if priceNaira == nil {
		return "mid-range"
	}
	switch {
	case *priceNaira < 100000:
		return "budget"
	case *priceNaira < 300000:
		return "mid-range"
	case *priceNaira < 800000:
		return "premium"
	default:
		return "flagship"
	}
}

func authenticityNote(sourceType, dataQuality, priceConfidence string, numSources, numRetailers int) string {
	parts := []string{fmt.Sprintf("Data source: %s", sourceType)}
	if dataQuality != "" {
		parts = append(parts, fmt.Sprintf("Data quality: %s", dataQuality))
	}
	if priceConfidence != "" {
		parts = append(parts, fmt.Sprintf("Price confidence: %s", priceConfidence))
	}
	if numSources > 0 {
		parts = append(parts, fmt.Sprintf("Sources used: %d", numSources))
	}
	if numRetailers > 0 {
		parts = append(parts, fmt.Sprintf("Retailers checked: %d", numRetailers))
	}
	return strings.Join(parts, "; ")
}

func purchaseRecommendation(timing *models.TimingAdvice, redFlags *models.RedFlagReport,
	comparison *models.PriceComparison, dataQuality string) (string, []string) {
	if redFlags.HasCriticalIssues() {
		return "avoid", []string{"Critical issues reported in user data or recalls"}
	}

	if timing != nil {
		switch timing.Recommendation {
		case "buy_now":
			return "buy_now", []string{fmt.Sprintf("Timing advice: %s", timing.Reasoning)}
		case "wait":
			return "wait", []string{fmt.Sprintf("Timing advice: %s", timing.Reasoning)}
		}
	}

	if comparison != nil && comparison.LowestPrice != nil {
		if comparison.DealQuality == "" || comparison.DealQuality == "excellent" {
			return "buy_now", []string{"Good local deal available"}
		}
	}

	switch dataQuality {
	case "good":
		return "buy_now", []string{"Sufficient high-quality sources available"}
	case "limited":
		return "consider_alternatives", []string{"Some coverage found; consider waiting for better deals"}
	default:
		return "consider_alternatives", []string{"Insufficient up-to-date data; consider alternatives or wait for more information"}
	}
}
