package miko

import "rooms-workers/internal/models"

// DefaultLabelCount is how many pills a listing card shows.
const DefaultLabelCount = 3

// VibeTagLabels maps every vibe tag to its display label. Never mutated.
var VibeTagLabels = map[models.VibeTagID]string{
	models.VibeCalmVibes:          "Calm Vibes",
	models.VibeThoughtfullySocial: "Thoughtfully Social",
	models.VibeLively:             "Lively",
	models.VibeCouchChillRepeat:   "Couch, Chill, Repeat",
	models.VibeRemoteLife:         "Remote Life",
	models.VibeCommunityLiving:    "Community Living",
	models.VibeWalletFriendly:     "Wallet-Friendly",
	models.VibeFeelGoodSpace:      "Feel-Good Space",
	models.VibeWellConnectedArea:  "Well-Connected Area",
	models.VibeASAP:               "ASAP",
	models.VibeNextFewWeeks:       "Next Few Weeks",
	models.VibeNoRush:             "No Rush",
	models.VibePrivacyOverAll:     "Privacy > All",
	models.VibeOpenToSharing:      "Open to Sharing",
	models.VibeEitherWorks:        "Either Works",
	models.VibeSmokeFree:          "Smoke-Free",
	models.VibePeaceOverNoise:     "Peace Over Noise",
	models.VibeNoFurryRoommates:   "No Furry Roommates",
	models.VibeFlexibleOverall:    "Flexible Overall",
}

// Label returns the display label for a tag.
func Label(tag models.VibeTagID) (string, bool) {
	label, ok := VibeTagLabels[tag]
	return label, ok
}

// IsValid reports whether tag belongs to the closed vibe tag set.
func IsValid(tag models.VibeTagID) bool {
	_, ok := VibeTagLabels[tag]
	return ok
}

// LabelsFor de-duplicates tags keeping first occurrence order, keeps the first
// max of them and maps each to its label. Unknown ids map to nothing.
func LabelsFor(tags []models.VibeTagID, max int) []string {
	if max <= 0 {
		return []string{}
	}

	unique := make([]models.VibeTagID, 0, max)
	seen := make(map[models.VibeTagID]struct{}, len(tags))
	for _, tag := range tags {
		if len(unique) == max {
			break
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		unique = append(unique, tag)
	}

	labels := make([]string, 0, len(unique))
	for _, tag := range unique {
		if label, ok := VibeTagLabels[tag]; ok {
			labels = append(labels, label)
		}
	}
	return labels
}
