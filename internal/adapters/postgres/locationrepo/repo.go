package locationrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
	"github.com/Overland-East-Bay/location-finder-api/internal/geo"
	"github.com/Overland-East-Bay/location-finder-api/internal/ports/out/locationrepo"
)

// Repo is a Postgres implementation of locationrepo.Repository.
//
// FindWithinRadius pushes the great-circle computation into SQL: a bounding box
// narrows the rows, then the law-of-cosines distance (acos argument clamped)
// decides membership.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Get(ctx context.Context, id domain.MemberID) (domain.MemberLocation, error) {
	if r.pool == nil {
		return domain.MemberLocation{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT member_id, city, state, country, latitude, longitude, searchable, updated_at
		FROM member_locations
		WHERE member_id = $1
	`, string(id))
	return scanLocation(row)
}

func (r *Repo) Upsert(ctx context.Context, loc domain.MemberLocation) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO member_locations (
			member_id,
			city,
			state,
			country,
			latitude,
			longitude,
			searchable,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (member_id) DO UPDATE SET
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			country = EXCLUDED.country,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			searchable = EXCLUDED.searchable,
			updated_at = EXCLUDED.updated_at
	`,
		string(loc.MemberID),
		loc.City,
		loc.State,
		loc.Country,
		loc.Latitude,
		loc.Longitude,
		loc.Searchable,
		loc.UpdatedAt.UTC(),
	)
	return err
}

func (r *Repo) SetCoordinate(ctx context.Context, id domain.MemberID, c domain.Coordinate, updatedAt time.Time) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE member_locations
		SET latitude = $2,
		    longitude = $3,
		    updated_at = $4
		WHERE member_id = $1
	`, string(id), c.Lat, c.Lng, updatedAt.UTC())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return locationrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) FindWithinRadius(ctx context.Context, q locationrepo.NearbyQuery) ([]locationrepo.Match, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	bb := geo.BoundingBoxFor(q.Center, q.Radius, q.Unit)

	rows, err := r.pool.Query(ctx, `
		SELECT member_id, city, state, country, latitude, longitude, searchable, updated_at, distance
		FROM (
			SELECT
				id,
				member_id,
				city,
				state,
				country,
				latitude,
				longitude,
				searchable,
				updated_at,
				$1::float8 * acos(LEAST(1.0, GREATEST(-1.0,
					cos(radians($2::float8)) * cos(radians(latitude)) * cos(radians(longitude) - radians($3::float8))
					+ sin(radians($2::float8)) * sin(radians(latitude))
				))) AS distance
			FROM member_locations
			WHERE latitude IS NOT NULL
			  AND longitude IS NOT NULL
			  AND (searchable IS NULL OR searchable)
			  AND member_id <> $4
			  AND latitude BETWEEN -90 AND 90
			  AND longitude BETWEEN -180 AND 180
			  AND latitude BETWEEN $5::float8 AND $6::float8
			  AND ($9::boolean OR longitude BETWEEN $7::float8 AND $8::float8)
		) candidates
		WHERE distance < $10::float8
		ORDER BY distance ASC, id ASC
	`,
		geo.EarthRadius(q.Unit),
		q.Center.Lat,
		q.Center.Lng,
		string(q.Exclude),
		bb.MinLat,
		bb.MaxLat,
		bb.MinLng,
		bb.MaxLng,
		bb.WrapsLng,
		q.Radius,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]locationrepo.Match, 0)
	for rows.Next() {
		var (
			m        locationrepo.Match
			memberID string
		)
		if err := rows.Scan(
			&memberID,
			&m.Location.City,
			&m.Location.State,
			&m.Location.Country,
			&m.Location.Latitude,
			&m.Location.Longitude,
			&m.Location.Searchable,
			&m.Location.UpdatedAt,
			&m.Distance,
		); err != nil {
			return nil, err
		}
		m.Location.MemberID = domain.MemberID(memberID)
		m.Location.UpdatedAt = m.Location.UpdatedAt.UTC()
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanLocation(row interface {
	Scan(dest ...any) error
}) (domain.MemberLocation, error) {
	var (
		loc      domain.MemberLocation
		memberID string
	)
	if err := row.Scan(
		&memberID,
		&loc.City,
		&loc.State,
		&loc.Country,
		&loc.Latitude,
		&loc.Longitude,
		&loc.Searchable,
		&loc.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MemberLocation{}, locationrepo.ErrNotFound
		}
		return domain.MemberLocation{}, err
	}
	loc.MemberID = domain.MemberID(memberID)
	loc.UpdatedAt = loc.UpdatedAt.UTC()
	return loc, nil
}
