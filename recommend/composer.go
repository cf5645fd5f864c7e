package recommend

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/styleit-app/styleit-backend/models"
)

// Pools holds the per-slot candidate items after classification and occasion
// filtering.
type Pools struct {
	Tops        []models.WardrobeItem
	Bottoms     []models.WardrobeItem
	Shoes       []models.WardrobeItem
	Outerwear   []models.WardrobeItem
	Accessories []models.WardrobeItem
}

// SlotCounts reports pool sizes back to the client so the UI can explain why
// an outfit could not be composed.
type SlotCounts struct {
	Tops        int `json:"tops"`
	Bottoms     int `json:"bottoms"`
	Shoes       int `json:"shoes"`
	Outerwear   int `json:"outerwear"`
	Accessories int `json:"accessories"`
}

func (p Pools) Counts() SlotCounts {
	return SlotCounts{
		Tops:        len(p.Tops),
		Bottoms:     len(p.Bottoms),
		Shoes:       len(p.Shoes),
		Outerwear:   len(p.Outerwear),
		Accessories: len(p.Accessories),
	}
}

// Composition is one concrete outfit: exactly one item for each required
// slot, at most one outerwear piece and zero to two accessories.
type Composition struct {
	Top         *models.WardrobeItem
	Bottom      *models.WardrobeItem
	Shoes       *models.WardrobeItem
	Outerwear   *models.WardrobeItem
	Accessories []models.WardrobeItem
}

// Items flattens the composition into the selected items, skipping empty
// slots.
func (c *Composition) Items() []models.WardrobeItem {
	var items []models.WardrobeItem
	for _, it := range []*models.WardrobeItem{c.Top, c.Bottom, c.Shoes, c.Outerwear} {
		if it != nil {
			items = append(items, *it)
		}
	}
	items = append(items, c.Accessories...)
	return items
}

// Confidence is the mean confidence of the selected items. An empty slot
// contributes nothing rather than dragging the average down.
func (c *Composition) Confidence() float64 {
	items := c.Items()
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range items {
		sum += it.Confidence
	}
	return sum / float64(len(items))
}

// NoOutfitError reports that a required slot could not be filled even after
// the occasion fallback. It is a domain outcome, not a failure: handlers turn
// it into a "no suitable outfit" response.
type NoOutfitError struct {
	Occasion string
	Counts   SlotCounts
}

func (e *NoOutfitError) Error() string {
	if strings.EqualFold(e.Occasion, OccasionRandom) {
		return "not enough items to create a complete outfit: need at least one top, bottom, and shoes in your wardrobe"
	}
	return fmt.Sprintf("not enough items to create a complete %s outfit: need at least one top, bottom, and shoes", e.Occasion)
}

// Composer picks concrete items from the slot pools. Selection is random on
// purpose: hitting "refresh" for the same occasion should be able to produce
// a different outfit. The random source is injectable so tests can pin
// outcomes.
type Composer struct {
	rng *rand.Rand
}

func NewComposer(rng *rand.Rand) *Composer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Composer{rng: rng}
}

// Compose builds one outfit from the pools. Top, bottom and shoes are
// required; outerwear is included half the time when available; accessories
// follow a 30/40/30 split between zero, one and two pieces.
func (c *Composer) Compose(pools Pools, occasion string) (*Composition, error) {
	if len(pools.Tops) == 0 || len(pools.Bottoms) == 0 || len(pools.Shoes) == 0 {
		return nil, &NoOutfitError{Occasion: occasion, Counts: pools.Counts()}
	}

	comp := &Composition{
		Top:         c.pick(pools.Tops),
		Bottom:      c.pick(pools.Bottoms),
		Shoes:       c.pick(pools.Shoes),
		Outerwear:   c.pickOuterwear(pools.Outerwear),
		Accessories: c.pickAccessories(pools.Accessories),
	}
	return comp, nil
}

func (c *Composer) pick(pool []models.WardrobeItem) *models.WardrobeItem {
	item := pool[c.rng.Intn(len(pool))]
	return &item
}

func (c *Composer) pickOuterwear(pool []models.WardrobeItem) *models.WardrobeItem {
	if len(pool) == 0 || c.rng.Float64() < 0.5 {
		return nil
	}
	return c.pick(pool)
}

// pickAccessories returns 0, 1 or 2 accessories. When two are chosen they are
// drawn from different accessory types so the outfit never carries, say, two
// watches.
func (c *Composer) pickAccessories(pool []models.WardrobeItem) []models.WardrobeItem {
	if len(pool) == 0 {
		return nil
	}

	var count int
	switch r := c.rng.Float64(); {
	case r < 0.3:
		count = 0
	case r < 0.7:
		count = 1
	default:
		count = 2
	}
	if count == 0 {
		return nil
	}

	byType := make(map[string][]models.WardrobeItem)
	var types []string
	for _, item := range pool {
		t := accessoryType(item)
		if _, seen := byType[t]; !seen {
			types = append(types, t)
		}
		byType[t] = append(byType[t], item)
	}

	if count == 1 || len(types) < 2 {
		t := types[c.rng.Intn(len(types))]
		return []models.WardrobeItem{*c.pick(byType[t])}
	}

	c.rng.Shuffle(len(types), func(i, j int) {
		types[i], types[j] = types[j], types[i]
	})
	return []models.WardrobeItem{
		*c.pick(byType[types[0]]),
		*c.pick(byType[types[1]]),
	}
}

var accessoryTypeKeywords = []struct {
	typ      string
	keywords []string
}{
	{"hat", []string{"HAT", "CAP", "BEANIE"}},
	{"watch", []string{"WATCH", "TIMEPIECE"}},
	{"bracelet", []string{"BRACELET", "BANGLE"}},
	{"necklace", []string{"NECKLACE", "PENDANT"}},
	{"ring", []string{"RING"}},
	{"earring", []string{"EARRING"}},
	{"bag", []string{"BAG", "HANDBAG", "PURSE", "BACKPACK"}},
	{"belt", []string{"BELT"}},
	{"sunglasses", []string{"SUNGLASS", "GLASSES", "EYEWEAR"}},
	{"scarf", []string{"SCARF"}},
	{"tie", []string{"TIE", "NECKTIE", "BOW TIE", "BOWTIE"}},
}

// accessoryType buckets an accessory by what it is worn as, so two selected
// accessories never clash. Unrecognized items bucket by name prefix to keep
// them distinct from each other.
func accessoryType(item models.WardrobeItem) string {
	nameUpper := strings.ToUpper(item.Name)
	for _, entry := range accessoryTypeKeywords {
		for _, k := range entry.keywords {
			if strings.Contains(nameUpper, k) {
				return entry.typ
			}
		}
	}
	if len(nameUpper) > 10 {
		nameUpper = nameUpper[:10]
	}
	return "other_" + nameUpper
}
