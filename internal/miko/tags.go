// Package miko derives vibe tags from listings and scores how well a listing
// matches the tags a seeker picked in the vibe quiz.
package miko

import (
	"math"
	"sort"
	"strings"
	"time"

	"rooms-workers/internal/models"
)

const (
	// WalletFriendlyMaxRent is the highest monthly rent still tagged wallet_friendly.
	WalletFriendlyMaxRent = 15000

	asapMaxDays         = 14
	nextFewWeeksMaxDays = 28

	millisPerDay = 86400000
)

// moveInLayouts are tried in order. Date-only values are read as midnight UTC.
var moveInLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// tagSet keeps insertion order so output is stable for a given input,
// although callers must not rely on it.
type tagSet struct {
	order []models.VibeTagID
	index map[models.VibeTagID]struct{}
}

func newTagSet(capacity int) *tagSet {
	return &tagSet{
		order: make([]models.VibeTagID, 0, capacity),
		index: make(map[models.VibeTagID]struct{}, capacity),
	}
}

func (s *tagSet) add(tag models.VibeTagID) {
	if _, ok := s.index[tag]; ok {
		return
	}
	s.index[tag] = struct{}{}
	s.order = append(s.order, tag)
}

func (s *tagSet) has(tag models.VibeTagID) bool {
	_, ok := s.index[tag]
	return ok
}

// DeriveTags computes the vibe tags of a listing relative to now. Tags already
// attached to the listing are kept. The result has no duplicates and no
// guaranteed order; use SortTags when a deterministic order is needed.
func DeriveTags(listing models.Listing, now time.Time) []models.VibeTagID {
	tags := newTagSet(len(listing.MikoTags) + 4)

	for _, tag := range listing.MikoTags {
		tags.add(tag)
	}

	if listing.Rent <= WalletFriendlyMaxRent {
		tags.add(models.VibeWalletFriendly)
	}

	if moveIn, ok := ParseMoveInDate(listing.MoveInDate); ok {
		daysAway := daysBetween(now, moveIn)
		switch {
		case daysAway <= asapMaxDays:
			tags.add(models.VibeASAP)
		case daysAway <= nextFewWeeksMaxDays:
			tags.add(models.VibeNextFewWeeks)
		default:
			tags.add(models.VibeNoRush)
		}
	}

	// A room type naming both "private" and "shared" gets both tags.
	roomType := strings.ToLower(listing.RoomType)
	if strings.Contains(roomType, "private") || strings.Contains(roomType, "master") {
		tags.add(models.VibePrivacyOverAll)
	}
	if strings.Contains(roomType, "shared") {
		tags.add(models.VibeOpenToSharing)
	}
	if !tags.has(models.VibePrivacyOverAll) && !tags.has(models.VibeOpenToSharing) {
		tags.add(models.VibeEitherWorks)
	}

	if IsWellConnected(listing.City, listing.Locality) {
		tags.add(models.VibeWellConnectedArea)
	}

	return tags.order
}

// ParseMoveInDate parses an ISO date or timestamp. Empty or malformed input
// reports false.
func ParseMoveInDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range moveInLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// daysBetween returns whole days from start to end, floored.
func daysBetween(start, end time.Time) int {
	diffMs := end.Sub(start).Milliseconds()
	return int(math.Floor(float64(diffMs) / millisPerDay))
}

// MatchScore is the fraction of seekerTags present in listingTags. Duplicate
// seeker tags each count. Empty seekerTags score 0.
func MatchScore(seekerTags, listingTags []models.VibeTagID) float64 {
	if len(seekerTags) == 0 {
		return 0
	}

	listingSet := make(map[models.VibeTagID]struct{}, len(listingTags))
	for _, tag := range listingTags {
		listingSet[tag] = struct{}{}
	}

	matches := 0
	for _, tag := range seekerTags {
		if _, ok := listingSet[tag]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(seekerTags))
}

// MatchPercent is MatchScore scaled to 0..100 and rounded half away from zero.
func MatchPercent(seekerTags, listingTags []models.VibeTagID) int {
	return int(math.Round(MatchScore(seekerTags, listingTags) * 100))
}

// SortTags returns a copy of tags in lexical order.
func SortTags(tags []models.VibeTagID) []models.VibeTagID {
	sorted := make([]models.VibeTagID, len(tags))
	copy(sorted, tags)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}
