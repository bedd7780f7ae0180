package analyzers

import (
	"context"
	"fmt"

	"product-intel/pkg/llm"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
)

// VoxPopuli digests long-term owner sentiment from Nigerian and
// international forums.
type VoxPopuli struct {
	llm llm.Chatter
	log logger.Logger
}

func NewVoxPopuli(chat llm.Chatter, log logger.Logger) *VoxPopuli {
	return &VoxPopuli{llm: chat, log: log}
}

const voxPopuliSystem = "You are a forum analyst who cuts through marketing hype for any product category."

// Analyze summarizes what owners say after months of use. Failures produce
// a "Data unavailable" verdict with no consensus entries.
func (v *VoxPopuli) Analyze(ctx context.Context, productName, scrapedText string) *models.VoxPopuliReport {
	prompt := fmt.Sprintf(`Act as a forum lurker on Nairaland, Reddit (r/gadgets), and Twitter/X.
What are REAL owners saying about '%s' after using it for months?
Ignore the spec sheet. Focus on the "hidden truths" - bugs, overheating, battery drain, or surprisingly good features.

Context:
%s

Return JSON matching this schema:
{
    "owner_verdict": "e.g. Great camera, but the battery will betray you at 6pm.",
    "love_it_for": ["Feature 1", "Feature 2"],
    "hate_it_for": ["Complaint 1", "Complaint 2"],
    "forum_consensus": [
        {
            "platform": "Nairaland",
            "sentiment": "Positive/Mixed/Negative",
            "key_takeaway": "e.g. Many users complaining about price vs value"
        },
        {
            "platform": "Reddit",
            "sentiment": "Positive/Mixed/Negative",
            "key_takeaway": "e.g. Praised for longevity but hated for slow charging"
        }
    ]
}`, productName, truncate(scrapedText, 3000))

	var out models.VoxPopuliReport
	if err := v.llm.CompleteJSON(ctx, voxPopuliSystem, prompt, &out); err != nil {
		v.log.Warn("vox populi analysis failed", logger.Err(err))
		return &models.VoxPopuliReport{OwnerVerdict: "Data unavailable", LoveItFor: []string{}, HateItFor: []string{}, ForumConsensus: []models.ForumOpinion{}}
	}

	out.OwnerVerdict = orDefault(out.OwnerVerdict, "No widespread consensus yet.")
	if out.LoveItFor == nil {
		out.LoveItFor = []string{}
	}
	if out.HateItFor == nil {
		out.HateItFor = []string{}
	}
	if out.ForumConsensus == nil {
		out.ForumConsensus = []models.ForumOpinion{}
	}
	return &out
}
