// internal/models/vibe.go
package models

import "encoding/json"

// VibeTagID identifies one lifestyle, affordability or logistics facet of a
// listing or of a seeker's preferences. The set of ids is closed.
type VibeTagID string

const (
	VibeCalmVibes          VibeTagID = "calm_vibes"
	VibeThoughtfullySocial VibeTagID = "thoughtfully_social"
	VibeLively             VibeTagID = "lively"
	VibeCouchChillRepeat   VibeTagID = "couch_chill_repeat"
	VibeRemoteLife         VibeTagID = "remote_life"
	VibeCommunityLiving    VibeTagID = "community_living"
	VibeWalletFriendly     VibeTagID = "wallet_friendly"
	VibeFeelGoodSpace      VibeTagID = "feel_good_space"
	VibeWellConnectedArea  VibeTagID = "well_connected_area"
	VibeASAP               VibeTagID = "asap"
	VibeNextFewWeeks       VibeTagID = "next_few_weeks"
	VibeNoRush             VibeTagID = "no_rush"
	VibePrivacyOverAll     VibeTagID = "privacy_over_all"
	VibeOpenToSharing      VibeTagID = "open_to_sharing"
	VibeEitherWorks        VibeTagID = "either_works"
	VibeSmokeFree          VibeTagID = "smoke_free"
	VibePeaceOverNoise     VibeTagID = "peace_over_noise"
	VibeNoFurryRoommates   VibeTagID = "no_furry_roommates"
	VibeFlexibleOverall    VibeTagID = "flexible_overall"
)

// VibeTags is the tag list attached to a listing by the backend. Anything
// other than a JSON array decodes as no tags, and non-string items are
// dropped.
type VibeTags []VibeTagID

func (t *VibeTags) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		*t = nil
		return nil
	}
	tags := make(VibeTags, 0, len(items))
	for _, item := range items {
		var tag *string
		if err := json.Unmarshal(item, &tag); err != nil || tag == nil {
			continue
		}
		tags = append(tags, VibeTagID(*tag))
	}
	*t = tags
	return nil
}
