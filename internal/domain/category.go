package domain

// WorkoutCategory names the training intent of a session. The empty value means
// "no category" (an empty calendar slot or an uncategorized entry).
type WorkoutCategory string

const (
	CategoryRest        WorkoutCategory = "rest"
	CategoryRecovery    WorkoutCategory = "recovery"
	CategoryFlexibility WorkoutCategory = "flexibility"
	CategoryCore        WorkoutCategory = "core"
	CategoryStrength    WorkoutCategory = "strength"
	CategoryEndurance   WorkoutCategory = "endurance"
	CategoryTempo       WorkoutCategory = "tempo"
	CategorySweetSpot   WorkoutCategory = "sweet_spot"
	CategoryThreshold   WorkoutCategory = "threshold"
	CategoryClimbing    WorkoutCategory = "climbing"
	CategoryVO2Max      WorkoutCategory = "vo2max"
	CategoryAnaerobic   WorkoutCategory = "anaerobic"
	CategoryRacing      WorkoutCategory = "racing"
)

var intensityRank = map[WorkoutCategory]int{
	CategoryRest:        0,
	CategoryRecovery:    1,
	CategoryFlexibility: 1,
	CategoryCore:        2,
	CategoryStrength:    2,
	CategoryEndurance:   3,
	CategoryTempo:       4,
	CategorySweetSpot:   5,
	CategoryThreshold:   6,
	CategoryClimbing:    6,
	CategoryVO2Max:      7,
	CategoryAnaerobic:   8,
	CategoryRacing:      9,
}

// hardRank is the lowest rank treated as a hard training day.
const hardRank = 6

// similarCategories is symmetric; see Similar.
var similarCategories = map[WorkoutCategory][]WorkoutCategory{
	CategoryRecovery:    {CategoryEndurance, CategoryFlexibility},
	CategoryFlexibility: {CategoryRecovery},
	CategoryCore:        {CategoryStrength},
	CategoryStrength:    {CategoryCore},
	CategoryEndurance:   {CategoryTempo, CategoryRecovery},
	CategoryTempo:       {CategoryEndurance, CategorySweetSpot},
	CategorySweetSpot:   {CategoryTempo, CategoryThreshold},
	CategoryThreshold:   {CategorySweetSpot, CategoryClimbing},
	CategoryClimbing:    {CategoryThreshold},
	CategoryVO2Max:      {CategoryAnaerobic},
	CategoryAnaerobic:   {CategoryVO2Max},
}

// Valid reports whether c is one of the known categories. The empty category is valid.
func (c WorkoutCategory) Valid() bool {
	if c == "" {
		return true
	}
	_, ok := intensityRank[c]
	return ok
}

// Rank returns the position of c in the intensity table. Unknown and empty
// categories rank as rest.
func (c WorkoutCategory) Rank() int {
	return intensityRank[c]
}

// IsRest reports whether the slot carries no training load.
func (c WorkoutCategory) IsRest() bool {
	return c == "" || c == CategoryRest
}

// IsHard reports whether c is a hard intensity day.
func (c WorkoutCategory) IsHard() bool {
	return c.Rank() >= hardRank
}

// IsLong reports whether c is a long aerobic session eligible for weekend placement.
func (c WorkoutCategory) IsLong() bool {
	return c == CategoryEndurance
}

// SameOrSimilar reports whether two categories describe the same training intent.
func (c WorkoutCategory) SameOrSimilar(other WorkoutCategory) bool {
	if c == other {
		return true
	}
	for _, s := range similarCategories[c] {
		if s == other {
			return true
		}
	}
	return false
}

// DayType buckets categories for placement rules.
type DayType string

const (
	DayTypeRest     DayType = "rest"
	DayTypeEasy     DayType = "easy"
	DayTypeModerate DayType = "moderate"
	DayTypeHard     DayType = "hard"
)

// DayType returns the bucket a day holding a session of category c falls into.
func (c WorkoutCategory) DayType() DayType {
	switch r := c.Rank(); {
	case c.IsRest():
		return DayTypeRest
	case r >= hardRank:
		return DayTypeHard
	case r >= CategoryTempo.Rank():
		return DayTypeModerate
	default:
		return DayTypeEasy
	}
}
