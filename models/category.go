package models

// Category selects a curated browse recipe.
type Category string

// CategoryGroup groups categories by how their recipe is built.
type CategoryGroup int

const (
	GroupUnknown CategoryGroup = iota
	GroupTemporal
	GroupPlatform
	GroupGenre
)

// Temporal / ranking categories.
const (
	CategoryTrending   Category = "trending"
	CategoryNewest     Category = "newest"
	CategoryMostViewed Category = "mostViewed"
	CategoryBestRated  Category = "bestRated"
	CategoryInCinemas  Category = "inCinemas"
	CategoryComingSoon Category = "comingSoon"
)

// Platform categories.
const (
	CategoryNetflix     Category = "netflix"
	CategoryPrimeVideo  Category = "primeVideo"
	CategoryDisneyPlus  Category = "disneyPlus"
	CategoryHBOMax      Category = "hboMax"
	CategoryAppleTV     Category = "appleTv"
	CategorySkyShowtime Category = "skyShowtime"
)

// Genre categories.
const (
	CategoryAction      Category = "action"
	CategoryAdventure   Category = "adventure"
	CategoryComedy      Category = "comedy"
	CategoryDrama       Category = "drama"
	CategoryHorror      Category = "horror"
	CategoryThriller    Category = "thriller"
	CategorySciFi       Category = "sciFi"
	CategoryFantasy     Category = "fantasy"
	CategoryRomance     Category = "romance"
	CategoryCrime       Category = "crime"
	CategoryDocumentary Category = "documentary"
	CategoryFamily      Category = "family"
	CategoryMystery     Category = "mystery"
	CategoryWar         Category = "war"
	CategoryHistory     Category = "history"
)

var categoryGroups = map[Category]CategoryGroup{
	CategoryTrending:   GroupTemporal,
	CategoryNewest:     GroupTemporal,
	CategoryMostViewed: GroupTemporal,
	CategoryBestRated:  GroupTemporal,
	CategoryInCinemas:  GroupTemporal,
	CategoryComingSoon: GroupTemporal,

	CategoryNetflix:     GroupPlatform,
	CategoryPrimeVideo:  GroupPlatform,
	CategoryDisneyPlus:  GroupPlatform,
	CategoryHBOMax:      GroupPlatform,
	CategoryAppleTV:     GroupPlatform,
	CategorySkyShowtime: GroupPlatform,

	CategoryAction:      GroupGenre,
	CategoryAdventure:   GroupGenre,
	CategoryComedy:      GroupGenre,
	CategoryDrama:       GroupGenre,
	CategoryHorror:      GroupGenre,
	CategoryThriller:    GroupGenre,
	CategorySciFi:       GroupGenre,
	CategoryFantasy:     GroupGenre,
	CategoryRomance:     GroupGenre,
	CategoryCrime:       GroupGenre,
	CategoryDocumentary: GroupGenre,
	CategoryFamily:      GroupGenre,
	CategoryMystery:     GroupGenre,
	CategoryWar:         GroupGenre,
	CategoryHistory:     GroupGenre,
}

// Group returns GroupUnknown for tags outside the closed set.
func (c Category) Group() CategoryGroup {
	return categoryGroups[c]
}

func (c Category) Valid() bool {
	return c.Group() != GroupUnknown
}

// AllCategories lists every tag in a stable order.
func AllCategories() []Category {
	return []Category{
		CategoryTrending, CategoryNewest, CategoryMostViewed, CategoryBestRated, CategoryInCinemas, CategoryComingSoon,
		CategoryNetflix, CategoryPrimeVideo, CategoryDisneyPlus, CategoryHBOMax, CategoryAppleTV, CategorySkyShowtime,
		CategoryAction, CategoryAdventure, CategoryComedy, CategoryDrama, CategoryHorror, CategoryThriller,
		CategorySciFi, CategoryFantasy, CategoryRomance, CategoryCrime, CategoryDocumentary, CategoryFamily,
		CategoryMystery, CategoryWar, CategoryHistory,
	}
}
