package tasks

import "github.com/desertthunder/pldiff/internal/models"

// Reconcile splits two track sequences into the tracks they share and the tracks unique to each.
//
// Membership is decided by ID alone. Repeated occurrences are kept: every entry of tracks1 lands in
// exactly one of Common or Only1, every entry of tracks2 absent from tracks1 lands in Only2, and each
// output keeps the order of the sequence it came from.
func Reconcile(tracks1, tracks2 []models.Track) models.ReconciliationResult {
	ids1 := idSet(tracks1)
	ids2 := idSet(tracks2)

	result := models.ReconciliationResult{
		Common: []models.Track{},
		Only1:  []models.Track{},
		Only2:  []models.Track{},
	}

	for _, track := range tracks1 {
		if _, ok := ids2[track.ID]; ok {
			result.Common = append(result.Common, track)
		} else {
			result.Only1 = append(result.Only1, track)
		}
	}

	for _, track := range tracks2 {
		if _, ok := ids1[track.ID]; !ok {
			result.Only2 = append(result.Only2, track)
		}
	}

	return result
}

func idSet(tracks []models.Track) map[string]struct{} {
	set := make(map[string]struct{}, len(tracks))
	for _, track := range tracks {
		set[track.ID] = struct{}{}
	}
	return set
}
