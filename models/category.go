package models

// Category is the age/division bucket of a team or a match.
type Category string

const (
	CategoryU11       Category = "U11"
	CategoryU13       Category = "U13"
	CategoryU15       Category = "U15"
	CategoryU17       Category = "U17"
	CategoryU19       Category = "U19"
	CategorySenior    Category = "Senior"
	CategoryFeminines Category = "Feminines"

	// CategoryFallback buckets records that carry no category at all.
	CategoryFallback Category = "Autre"
)

// categoryOrder is the display order used when grouping by category.
var categoryOrder = []Category{
	CategoryU11,
	CategoryU13,
	CategoryU15,
	CategoryU17,
	CategoryU19,
	CategorySenior,
	CategoryFeminines,
}

func (c Category) IsValid() bool {
	for _, known := range categoryOrder {
		if c == known {
			return true
		}
	}
	return false
}

// Categories returns the known categories in display order, without the fallback.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// CategoryRank gives the position of c in the display order. Unknown values
// sort after the known ones and the fallback bucket always comes last.
func CategoryRank(c Category) int {
	for i, known := range categoryOrder {
		if c == known {
			return i
		}
	}
	if c == CategoryFallback {
		return len(categoryOrder) + 1
	}
	return len(categoryOrder)
}

// ResolveCategory picks the entity's own category, then the owning team's,
// then CategoryFallback. Every grouping path goes through this function.
func ResolveCategory(own *Category, team *Category) Category {
	if own != nil && *own != "" {
		return *own
	}
	if team != nil && *team != "" {
		return *team
	}
	return CategoryFallback
}

// MatchCategory resolves the category of a match using its owning team when
// the match has none.
func MatchCategory(m *MatchRecord, team *Team) Category {
	if m == nil {
		return CategoryFallback
	}
	var teamCategory *Category
	if team != nil {
		teamCategory = &team.Category
	}
	return ResolveCategory(m.Category, teamCategory)
}

// TeamCategory resolves the category of a team.
func TeamCategory(t *Team) Category {
	if t == nil {
		return CategoryFallback
	}
	return ResolveCategory(&t.Category, nil)
}
