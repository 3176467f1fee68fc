package memberdir

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/location-finder-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
	"github.com/Overland-East-Bay/location-finder-api/internal/ports/out/memberdir"
)

// Directory is a Postgres implementation of memberdir.Directory backed by the members table.
type Directory struct {
	pool *pgxpool.Pool
}

func NewDirectory(pool *pgxpool.Pool) *Directory {
	return &Directory{pool: pool}
}

const selectMember = `
	SELECT
		member_id,
		subject,
		display_name,
		avatar_url,
		profile_url,
		profile_type,
		profile_type_label
	FROM members
`

func (d *Directory) Upsert(ctx context.Context, m domain.Member) error {
	if d.pool == nil {
		return errors.New("nil postgres pool")
	}
	if m.ID == "" {
		return errors.New("member id is required")
	}
	var subject *string
	if m.Subject != "" {
		s := string(m.Subject)
		subject = &s
	}
	_, err := d.pool.Exec(ctx, `
		INSERT INTO members (
			member_id,
			subject,
			display_name,
			avatar_url,
			profile_url,
			profile_type,
			profile_type_label,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (member_id) DO UPDATE SET
			subject = EXCLUDED.subject,
			display_name = EXCLUDED.display_name,
			avatar_url = EXCLUDED.avatar_url,
			profile_url = EXCLUDED.profile_url,
			profile_type = EXCLUDED.profile_type,
			profile_type_label = EXCLUDED.profile_type_label,
			updated_at = now()
	`,
		string(m.ID),
		subject,
		m.DisplayName,
		m.AvatarURL,
		m.ProfileURL,
		m.ProfileType,
		m.ProfileTypeLabel,
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode && pe.ConstraintName == "members_subject_unique" {
			return fmt.Errorf("subject %q already bound to another member: %w", m.Subject, err)
		}
		return err
	}
	return nil
}

func (d *Directory) GetByID(ctx context.Context, id domain.MemberID) (domain.Member, error) {
	if d.pool == nil {
		return domain.Member{}, errors.New("nil postgres pool")
	}
	return scanMember(d.pool.QueryRow(ctx, selectMember+` WHERE member_id = $1`, string(id)))
}

func (d *Directory) GetBySubject(ctx context.Context, subject domain.SubjectID) (domain.Member, error) {
	if d.pool == nil {
		return domain.Member{}, errors.New("nil postgres pool")
	}
	if subject == "" {
		return domain.Member{}, memberdir.ErrNotFound
	}
	return scanMember(d.pool.QueryRow(ctx, selectMember+` WHERE subject = $1`, string(subject)))
}

func (d *Directory) List(ctx context.Context) ([]domain.Member, error) {
	if d.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := d.pool.Query(ctx, selectMember+` ORDER BY lower(display_name) ASC, member_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanMember(row interface {
	Scan(dest ...any) error
}) (domain.Member, error) {
	var (
		id      string
		subject *string
		m       domain.Member
	)
	if err := row.Scan(
		&id,
		&subject,
		&m.DisplayName,
		&m.AvatarURL,
		&m.ProfileURL,
		&m.ProfileType,
		&m.ProfileTypeLabel,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, memberdir.ErrNotFound
		}
		return domain.Member{}, err
	}
	m.ID = domain.MemberID(id)
	if subject != nil {
		m.Subject = domain.SubjectID(*subject)
	}
	return m, nil
}
