package locations

import (
	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
	"github.com/Overland-East-Bay/location-finder-api/internal/geo"
)

// ResultRow is one proximity match joined with its directory record.
type ResultRow struct {
	Member   domain.Member
	Location domain.MemberLocation
	// Distance is in the query unit, unrounded.
	Distance float64
	// Radius is the exclusive search radius; the rounded distance stays below it. Zero disables the cap.
	Radius float64
}

// FormatResults maps rows to result entries in the same order. Distances are
// rounded to one decimal without reaching the row's radius; missing directory
// fields become empty strings.
func FormatResults(rows []ResultRow) []domain.SearchResultEntry {
	out := make([]domain.SearchResultEntry, 0, len(rows))
	for _, r := range rows {
		c, _ := r.Location.Coordinate()
		out = append(out, domain.SearchResultEntry{
			MemberID:         r.Location.MemberID,
			DisplayName:      r.Member.DisplayName,
			LocationParts:    r.Location.Parts(),
			Distance:         geo.Round1Below(r.Distance, r.Radius),
			Coordinate:       c,
			AvatarURL:        r.Member.AvatarURL,
			ProfileURL:       r.Member.ProfileURL,
			ProfileType:      r.Member.ProfileType,
			ProfileTypeLabel: r.Member.ProfileTypeLabel,
		})
	}
	return out
}
