package engine

type CardKind string

const (
	KindBonus   CardKind = "bonus"
	KindPenalty CardKind = "penalty"
	KindNeutral CardKind = "neutral"
)

func (k CardKind) valid() bool {
	switch k {
	case KindBonus, KindPenalty, KindNeutral:
		return true
	}
	return false
}

type Role string

const (
	RoleSniper     Role = "sniper"
	RoleGoalkeeper Role = "goalkeeper"
)

var Roles = []Role{RoleSniper, RoleGoalkeeper}

func (r Role) Valid() bool {
	return r == RoleSniper || r == RoleGoalkeeper
}

func ParseRole(s string) (Role, bool) {
	switch s {
	case "sniper":
		return RoleSniper, true
	case "goalkeeper", "keeper":
		return RoleGoalkeeper, true
	default:
		return "", false
	}
}

// Card is one catalog entry. Values are copied, never shared by pointer
// between the catalog and a deck.
type Card struct {
	Kind CardKind
	Text string
}

type Catalog []Card

// Catalogs holds the static entries each role draws from.
type Catalogs struct {
	Sniper     Catalog
	Goalkeeper Catalog
}

func (c Catalogs) For(role Role) Catalog {
	if role == RoleGoalkeeper {
		return c.Goalkeeper
	}
	return c.Sniper
}

func (c Catalogs) clone() Catalogs {
	return Catalogs{
		Sniper:     append(Catalog(nil), c.Sniper...),
		Goalkeeper: append(Catalog(nil), c.Goalkeeper...),
	}
}

func DefaultCatalogs() Catalogs {
	return Catalogs{
		Sniper: Catalog{
			{Kind: KindBonus, Text: "Free Run: You can freely run or move before your shot!"},
			{Kind: KindBonus, Text: "Second Chance: If you miss, you get one extra kick!"},
			{Kind: KindBonus, Text: "Close Range: Move one large step closer to the goal!"},
			{Kind: KindBonus, Text: "Crossbar Bonus: Hitting the crossbar counts as scoring a goal!"},
			{Kind: KindPenalty, Text: "Dizzy Spin: Spin around 5 times before kicking!"},
			{Kind: KindPenalty, Text: "Weak Foot: You must shoot using your weaker foot!"},
			{Kind: KindPenalty, Text: "Blindfolded Shot: Cover your eyes completely while kicking!"},
			{Kind: KindPenalty, Text: "Sitting Kick: Shoot the ball while sitting on the ground!"},
			{Kind: KindNeutral, Text: "Fair Shot: No bonus, no penalty—normal shot!"},
		},
		Goalkeeper: Catalog{
			{Kind: KindBonus, Text: "Goalie Charge: You can freely run forward to defend!"},
			{Kind: KindBonus, Text: "Long Shot: Shooter moves two large steps back from the spot!"},
			{Kind: KindBonus, Text: "Double Defense: Another player joins to help you defend!"},
			{Kind: KindBonus, Text: "Angled Shot: Sniper must shoot from a difficult angle (side)!"},
			{Kind: KindPenalty, Text: "Oversized Keeper: Wear oversized clothing while defending!"},
			{Kind: KindPenalty, Text: "One-Eyed Keeper: Cover one eye during your defense!"},
			{Kind: KindPenalty, Text: "Empty Net: Start outside the goal when the shooter begins!"},
			{Kind: KindPenalty, Text: "Backward Defender: Face backward until you hear the kick!"},
			{Kind: KindNeutral, Text: "Fair Defense: No bonus, no penalty—normal defense!"},
		},
	}
}
