package memberdir

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
	"github.com/Overland-East-Bay/location-finder-api/internal/ports/out/memberdir"
)

// Directory is an in-memory implementation of memberdir.Directory.
// It is safe for concurrent use.
type Directory struct {
	mu sync.RWMutex

	byID    map[domain.MemberID]domain.Member
	idBySub map[domain.SubjectID]domain.MemberID
}

func NewDirectory() *Directory {
	return &Directory{
		byID:    make(map[domain.MemberID]domain.Member),
		idBySub: make(map[domain.SubjectID]domain.MemberID),
	}
}

func (d *Directory) Upsert(ctx context.Context, m domain.Member) error {
	_ = ctx
	if m.ID == "" {
		return fmt.Errorf("member id is required")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.byID[m.ID]; ok && prev.Subject != m.Subject {
		delete(d.idBySub, prev.Subject)
	}
	if m.Subject != "" {
		if other, ok := d.idBySub[m.Subject]; ok && other != m.ID {
			return fmt.Errorf("subject %q already bound to member %s", m.Subject, other)
		}
		d.idBySub[m.Subject] = m.ID
	}
	d.byID[m.ID] = m
	return nil
}

func (d *Directory) GetByID(ctx context.Context, id domain.MemberID) (domain.Member, error) {
	_ = ctx
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.byID[id]
	if !ok {
		return domain.Member{}, memberdir.ErrNotFound
	}
	return m, nil
}

func (d *Directory) GetBySubject(ctx context.Context, subject domain.SubjectID) (domain.Member, error) {
	_ = ctx
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.idBySub[subject]
	if !ok {
		return domain.Member{}, memberdir.ErrNotFound
	}
	m, ok := d.byID[id]
	if !ok {
		return domain.Member{}, memberdir.ErrNotFound
	}
	return m, nil
}

func (d *Directory) List(ctx context.Context) ([]domain.Member, error) {
	_ = ctx
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]domain.Member, 0, len(d.byID))
	for _, m := range d.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		di := strings.ToLower(out[i].DisplayName)
		dj := strings.ToLower(out[j].DisplayName)
		if di == dj {
			return out[i].ID < out[j].ID
		}
		return di < dj
	})
	return out, nil
}

// SeedMember is the JSON shape of one row in a seed file.
type SeedMember struct {
	ID               string `json:"id"`
	Subject          string `json:"subject"`
	DisplayName      string `json:"displayName"`
	AvatarURL        string `json:"avatarUrl"`
	ProfileURL       string `json:"profileUrl"`
	ProfileType      string `json:"profileType"`
	ProfileTypeLabel string `json:"profileTypeLabel"`
}

// LoadSeedFile upserts every member from a JSON array file and returns how many were loaded.
func (d *Directory) LoadSeedFile(ctx context.Context, path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read member seed file: %w", err)
	}
	var rows []SeedMember
	if err := json.Unmarshal(b, &rows); err != nil {
		return 0, fmt.Errorf("parse member seed file %s: %w", path, err)
	}
	for i, r := range rows {
		m := domain.Member{
			ID:               domain.MemberID(strings.TrimSpace(r.ID)),
			Subject:          domain.SubjectID(strings.TrimSpace(r.Subject)),
			DisplayName:      domain.NormalizeHumanName(r.DisplayName),
			AvatarURL:        r.AvatarURL,
			ProfileURL:       r.ProfileURL,
			ProfileType:      r.ProfileType,
			ProfileTypeLabel: r.ProfileTypeLabel,
		}
		if err := d.Upsert(ctx, m); err != nil {
			return i, fmt.Errorf("member seed row %d: %w", i, err)
		}
	}
	return len(rows), nil
}
