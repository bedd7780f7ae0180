package analyzers

import (
	"context"
	"fmt"

	"product-intel/pkg/llm"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
)

// NetPrice estimates the true upgrade cost by valuing the predecessors a
// buyer would typically trade in.
type NetPrice struct {
	llm llm.Chatter
	log logger.Logger
}

func NewNetPrice(chat llm.Chatter, log logger.Logger) *NetPrice {
	return &NetPrice{llm: chat, log: log}
}

const netPriceSystem = "You are a trade-in expert. You are extremely strict about product categories. You NEVER suggest phone trade-ins for non-phone products."

// Analyze identifies predecessor devices and their trade-in values. Only
// categories with an active trade-in market are eligible; everything else
// returns an empty report without a model call. Net prices never go below
// zero.
func (n *NetPrice) Analyze(ctx context.Context, productName string, currentPrice float64) *models.NetPriceReport {
	neutral := &models.NetPriceReport{UpgradeFrom: []models.TradeInOption{}}
	if currentPrice <= 0 {
		return neutral
	}
	if !tradeInEligible[DetectCategory(productName)] {
		return neutral
	}

	prompt := fmt.Sprintf(`The user wants to buy '%s' (Price: NGN %s). We need to identify potential trade-in options, but ONLY if valid for this product category.

Step 1: Identify the exact product category of '%s' (e.g., Smartphone, Blender, Generator, Laptop, Shoe).

Step 2: Check if this category typically has an active 'trade-in' market in Nigeria.
   - Valid Categories: Smartphones, Laptops, Tablets, Gaming Consoles, Smartwatches, High-End Cameras.
   - Invalid Categories: Home Appliances (Blenders, Irons), Fashion, Generators, Furniture, Food, Accessories.

Step 3:
   - IF INVALID: Return an empty 'upgrade_from' list immediately.
   - IF VALID: Identify 3 common OLDER models or PREDECESSORS that users usually upgrade FROM to get '%s'.
     * CRITICAL: The predecessors MUST match the exact product category. (e.g. if Laptop, list Laptops).
     * DO NOT list phones if the product is not a phone.
     * Estimate their current Used/Trade-In value in Nigeria.

Return JSON with key 'upgrade_from' containing array of objects with device_name, estimated_value (number), and net_price (number = %.0f minus estimated_value)`,
		productName, formatAmount(currentPrice), productName, productName, currentPrice)

	var out struct {
		UpgradeFrom []struct {
			DeviceName     string `json:"device_name"`
			EstimatedValue any    `json:"estimated_value"`
		} `json:"upgrade_from"`
	}
	if err := n.llm.CompleteJSON(ctx, netPriceSystem, prompt, &out); err != nil {
		n.log.Warn("net price calculation failed", logger.Err(err))
		return neutral
	}

	opts := make([]models.TradeInOption, 0, len(out.UpgradeFrom))
	for _, o := range out.UpgradeFrom {
		value := asFloat(o.EstimatedValue)
		net := currentPrice - value
		if net < 0 {
			net = 0
		}
		opts = append(opts, models.TradeInOption{
			DeviceName:     o.DeviceName,
			EstimatedValue: value,
			NetPrice:       net,
		})
	}
	return &models.NetPriceReport{UpgradeFrom: opts}
}
