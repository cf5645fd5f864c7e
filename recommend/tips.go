package recommend

import (
	"context"
	"strings"
)

// TipWriter produces a short styling blurb for a composed outfit. The
// templated implementation below is the default; a generative one can be
// substituted without touching the rest of the engine.
type TipWriter interface {
	StylingTips(ctx context.Context, occasion string, comp *Composition) (string, error)
}

var occasionTips = map[string][]string{
	OccasionRandom: {
		"A versatile mix-and-match outfit from your wardrobe.",
		"Perfect for experimenting with different styles.",
	},
	"formal": {
		"Perfect for business meetings and formal events.",
		"Consider adding a blazer or dress jacket for extra sophistication.",
	},
	"casual": {
		"Great for everyday wear and relaxed settings.",
		"Layer with a light jacket or cardigan for versatility.",
	},
	"work": {
		"Professional and comfortable for the office.",
		"Add a statement accessory to personalize your look.",
	},
	"date": {
		"Elegant and stylish for a romantic evening.",
		"Consider adding subtle jewelry or a nice watch.",
	},
	"sporty": {
		"Perfect for active lifestyle and athletic activities.",
		"Layer appropriately for weather conditions.",
	},
	"party": {
		"Fun and festive for celebrations.",
		"Add bold accessories to make a statement.",
	},
	"travel": {
		"Comfortable and versatile for travel.",
		"Choose wrinkle-resistant fabrics when possible.",
	},
	"wedding": {
		"Elegant and appropriate for special occasions.",
		"Consider the wedding theme and venue.",
	},
	"meeting": {
		"Professional and confident for important meetings.",
		"Choose colors that convey trust and competence.",
	},
}

var defaultTips = []string{
	"Stylish and appropriate for the occasion.",
	"Accessorize to complete your look.",
}

// TemplateTips writes styling tips from a fixed per-occasion table.
type TemplateTips struct{}

func (TemplateTips) StylingTips(_ context.Context, occasion string, _ *Composition) (string, error) {
	tips, ok := occasionTips[strings.ToLower(strings.TrimSpace(occasion))]
	if !ok {
		tips = defaultTips
	}
	return strings.Join(tips, " "), nil
}
