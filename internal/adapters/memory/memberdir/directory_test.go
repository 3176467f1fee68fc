package memberdir

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
)

func TestDirectory_LoadSeedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "members.json")
	body := `[
		{"id":"m-1","subject":"sub-1","displayName":"  Ann   Lee ","profileType":"staff","profileTypeLabel":"Staff"},
		{"id":"m-2","subject":"sub-2","displayName":"Bob"}
	]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	d := NewDirectory()
	n, err := d.LoadSeedFile(context.Background(), path)
	if err != nil || n != 2 {
		t.Fatalf("LoadSeedFile n=%d err=%v", n, err)
	}
	m, err := d.GetBySubject(context.Background(), domain.SubjectID("sub-1"))
	if err != nil {
		t.Fatalf("GetBySubject err=%v", err)
	}
	if m.DisplayName != "Ann Lee" || m.ProfileTypeLabel != "Staff" {
		t.Fatalf("m=%+v", m)
	}
}

func TestDirectory_Upsert_RejectsSubjectRebind(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	ctx := context.Background()
	if err := d.Upsert(ctx, domain.Member{ID: "m-1", Subject: "sub-1"}); err != nil {
		t.Fatalf("Upsert err=%v", err)
	}
	if err := d.Upsert(ctx, domain.Member{ID: "m-2", Subject: "sub-1"}); err == nil {
		t.Fatalf("expected error binding sub-1 to a second member")
	}
}
