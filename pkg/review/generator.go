package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"product-intel/pkg/analyzers"
	"product-intel/pkg/llm"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
)

// ErrGeneration marks failures on the fatal path: no base review means no
// report at all.
var ErrGeneration = errors.New("review generation failed")

// Generator turns search results and scraped pages into a structured
// ReviewDocument via the chat-completion collaborator.
type Generator struct {
	llm     llm.Chatter
	log     logger.Logger
	nowFunc func() time.Time
}

func NewGenerator(chat llm.Chatter, log logger.Logger) *Generator {
	return &Generator{llm: chat, log: log, nowFunc: time.Now}
}

const reviewSystemPrompt = `You are an expert product reviewer for the NIGERIAN market. Create a comprehensive review STRICTLY from provided sources.

Critical Rules:
1. Use ONLY information from provided sources
2. Be specific - reference actual features/specs found
3. PRICING IS CRITICAL:
   - Always use Nigerian Naira (₦) prices
   - Prioritize prices from Nigerian retailers (Jumia, Konga, Slot)
   - For older products, use CURRENT resale/market value, NOT original launch price
   - Account for depreciation based on product age
4. Be balanced - mention both strengths and weaknesses
5. Note conflicting information if present
6. NEVER fabricate information
7. Rate fairly based on available information

Output must be valid JSON matching the exact schema.`

// Generate builds the review from web evidence. Any collaborator or decode
// failure is wrapped in ErrGeneration.
func (g *Generator) Generate(ctx context.Context, productName string, results []models.SearchResult, scraped []models.ScrapedContent) (*models.ReviewDocument, error) {
	userPrompt := g.buildWebPrompt(productName, results, scraped)

	var doc models.ReviewDocument
	if err := g.llm.CompleteJSON(ctx, reviewSystemPrompt, userPrompt, &doc); err != nil {
		g.log.Error("review generation failed", logger.String("product", productName), logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	if doc.ProductName == "" {
		doc.ProductName = productName
	}
	if len(doc.Sources) == 0 {
		for _, c := range scraped {
			doc.Sources = append(doc.Sources, c.URL)
		}
	}
	doc.DataSourceType = "free_web_search"

	if doc.Assessment == "" && len(doc.Pros) == 0 && len(doc.Cons) == 0 {
		return nil, fmt.Errorf("%w: empty review document", ErrGeneration)
	}
	return &doc, nil
}

// GenerateFromKnowledge builds the review from model knowledge alone, used
// when web evidence is unavailable or explicitly skipped.
func (g *Generator) GenerateFromKnowledge(ctx context.Context, productName string) (*models.ReviewDocument, error) {
	prompt := fmt.Sprintf(`Create a product review for '%s' for the Nigerian market from your own knowledge.
Clearly calibrated ratings only; if you are unsure about the product, keep claims generic.

%s

Generate JSON with this exact structure:
%s`, productName, analyzers.CategoryInstructions(productName), g.schemaBlock(nil))

	var doc models.ReviewDocument
	if err := g.llm.CompleteJSON(ctx, reviewSystemPrompt, prompt, &doc); err != nil {
		g.log.Error("knowledge review generation failed", logger.String("product", productName), logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if doc.ProductName == "" {
		doc.ProductName = productName
	}
	doc.Sources = nil
	doc.DataSourceType = "ai_knowledge"
	return &doc, nil
}

func (g *Generator) buildWebPrompt(productName string, results []models.SearchResult, scraped []models.ScrapedContent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on this current web information (gathered on %s), create a product review:\n\n",
		g.nowFunc().UTC().Format("January 02, 2006"))

	fmt.Fprintf(&b, "# Product Review Request: %s\n\n## Search Results:\n", productName)
	for i, r := range results {
		fmt.Fprintf(&b, "%d. **%s**\n   Summary: %s\n   URL: %s\n", i+1, r.Title, r.Snippet, r.URL)
	}

	if len(scraped) > 0 {
		b.WriteString("\n## Detailed Content:\n")
		for i, c := range scraped {
			content := c.Content
			if len(content) > 2000 {
				content = content[:2000]
			}
			fmt.Fprintf(&b, "### Source %d: %s\nContent: %s...\n\n", i+1, c.Title, content)
		}
	}

	b.WriteString("\n")
	b.WriteString(analyzers.CategoryInstructions(productName))

	sources := make([]string, 0, len(scraped))
	for _, c := range scraped {
		sources = append(sources, c.URL)
	}

	b.WriteString("\nGenerate JSON with this exact structure:\n")
	b.WriteString(g.schemaBlock(sources))
	b.WriteString(`
PRICE RULES:
- For 1-2 year old products: Use 60-80% of launch price
- For 2-4 year old products: Use 30-50% of launch price
- For 4+ year old products: Use 20-35% of launch price
- Always prefer Nigerian retailer prices (Jumia, Konga, Slot) over USD conversions

Be critical and honest. Include issues mentioned in sources.`)
	return b.String()
}

func (g *Generator) schemaBlock(sources []string) string {
	quoted := make([]string, len(sources))
	for i, s := range sources {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf(`{
"product_name": "Full product name from sources",
"specifications_inferred": "Concise summary of key specs found - INCLUDE critical specs for this product category",
"predicted_rating": "CALCULATED SCORE / 5.0. Logic: Start at 5.0. Deduct 0.5 for each MAJOR flaw (red flag). Deduct 0.2 for each minor complaint. Example: 4.3 / 5.0",
"pros": [
    "SPECIFIC strength with measurable claim (e.g., '4500mAh battery lasts 2 days', '12th Gen i7 handles multitasking')",
    "Focus on CRITICAL FEATURES for this product type as specified above",
    "Real advantage mentioned in reviews - cite specific features, numbers, or comparisons",
    "Maximum 5 pros - only include genuinely notable strengths"
],
"cons": [
    "SPECIFIC weakness with detail (e.g., 'Battery only lasts 4 hours', 'Heating issues during gaming')",
    "Focus on CRITICAL FEATURES for this product type as specified above",
    "Include durability concerns if mentioned (repairs, breakage, lifespan)",
    "Maximum 5 cons - only include genuine problems users report"
],
"expert_assessment": "Comprehensive concluding paragraph",
"price_info": "CRITICAL: Use CURRENT Nigerian market price in Naira (₦). For older products, use depreciated resale value, NOT launch price. Prioritize prices from Jumia, Konga, or Slot Nigeria. Format: ₦XXX,XXX - ₦XXX,XXX",
"sources": [%s]
}
`, strings.Join(quoted, ", "))
}
