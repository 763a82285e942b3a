package metadata

import (
	"sort"

	"reelyseries/models"
)

// mergeUnique concatenates sources in order, keeping the first occurrence
// of every (type, id).
func mergeUnique(sources ...[]models.MediaItem) []models.MediaItem {
	total := 0
	for _, src := range sources {
		total += len(src)
	}
	seen := make(map[models.ItemKey]struct{}, total)
	merged := make([]models.MediaItem, 0, total)
	for _, src := range sources {
		for _, item := range src {
			key := item.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, item)
		}
	}
	return merged
}

// rankItems orders items by year (newest first, unknown last), then rating
// descending, then title ascending.
func rankItems(items []models.MediaItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return rankLess(items[i], items[j])
	})
}

func rankLess(a, b models.MediaItem) bool {
	ay, aok := a.YearNumber()
	by, bok := b.YearNumber()
	if aok != bok {
		return aok
	}
	if aok && ay != by {
		return ay > by
	}
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	return a.Title < b.Title
}

func truncateItems(items []models.MediaItem, limit int) []models.MediaItem {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
