package locations

import (
	"reflect"
	"testing"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
)

func TestFormatResults_RoundsAndKeepsOrder(t *testing.T) {
	t.Parallel()

	lat, lng := 39.0911, -94.4155
	rows := []ResultRow{
		{
			Member:   domain.Member{ID: "b", DisplayName: "Bea", AvatarURL: "a.png", ProfileURL: "/b", ProfileType: "staff", ProfileTypeLabel: "Staff"},
			Location: domain.MemberLocation{MemberID: "b", City: "Independence", Country: "USA", Latitude: &lat, Longitude: &lng},
			Distance: 8.8265,
		},
		{
			Member:   domain.Member{ID: "a"},
			Location: domain.MemberLocation{MemberID: "a", State: "MO"},
			Distance: 9.15,
		},
	}

	got := FormatResults(rows)
	if len(got) != 2 {
		t.Fatalf("len=%d, want 2", len(got))
	}
	if got[0].MemberID != "b" || got[0].Distance != 8.8 || got[0].Coordinate != (domain.Coordinate{Lat: lat, Lng: lng}) {
		t.Fatalf("got[0]=%+v", got[0])
	}
	if !reflect.DeepEqual(got[0].LocationParts, []string{"Independence", "USA"}) {
		t.Fatalf("parts=%v", got[0].LocationParts)
	}
	if got[1].MemberID != "a" || got[1].DisplayName != "" || got[1].AvatarURL != "" || got[1].ProfileType != "" {
		t.Fatalf("got[1]=%+v, want empty directory fields", got[1])
	}
	if !reflect.DeepEqual(got[1].LocationParts, []string{"MO"}) {
		t.Fatalf("parts=%v", got[1].LocationParts)
	}
}

func TestFormatResults_RoundedDistanceStaysInsideRadius(t *testing.T) {
	t.Parallel()

	rows := []ResultRow{
		{Location: domain.MemberLocation{MemberID: "edge", City: "Edge"}, Distance: 49.9700000000182, Radius: 50},
		{Location: domain.MemberLocation{MemberID: "mid", City: "Mid"}, Distance: 24.96, Radius: 50},
	}
	got := FormatResults(rows)
	if got[0].Distance != 49.9 || got[0].Distance >= 50 {
		t.Fatalf("edge distance=%v, want 49.9", got[0].Distance)
	}
	if got[1].Distance != 25 {
		t.Fatalf("mid distance=%v, want 25", got[1].Distance)
	}
}

func TestFormatResults_Empty(t *testing.T) {
	t.Parallel()

	got := FormatResults(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("got=%v, want empty non-nil slice", got)
	}
}
