package learning

type BadgeType string

const (
	BadgeBronze   BadgeType = "BRONZE"
	BadgeSilver   BadgeType = "SILVER"
	BadgeGold     BadgeType = "GOLD"
	BadgePlatinum BadgeType = "PLATINUM"
)

// BadgeTier pairs a badge with the minimum yearly learning hours it needs.
type BadgeTier struct {
	Type     BadgeType
	MinHours float64
}

// BadgeTiers is ordered lowest to highest.
var BadgeTiers = []BadgeTier{
	{Type: BadgeBronze, MinHours: 20},
	{Type: BadgeSilver, MinHours: 40},
	{Type: BadgeGold, MinHours: 60},
	{Type: BadgePlatinum, MinHours: 80},
}

// ResolveBadgeTier returns the highest tier whose threshold hours meets, or
// ok=false below the BRONZE threshold. Both the on-demand award and the
// yearly job go through here.
func ResolveBadgeTier(hours float64) (BadgeType, bool) {
	for i := len(BadgeTiers) - 1; i >= 0; i-- {
		if hours >= BadgeTiers[i].MinHours {
			return BadgeTiers[i].Type, true
		}
	}
	return "", false
}

// NextBadgeTier returns the tier after the one hours currently qualifies for
// and how many hours are missing. ok=false once PLATINUM is reached.
func NextBadgeTier(hours float64) (next BadgeTier, remaining float64, ok bool) {
	for _, tier := range BadgeTiers {
		if hours < tier.MinHours {
			return tier, tier.MinHours - hours, true
		}
	}
	return BadgeTier{}, 0, false
}
