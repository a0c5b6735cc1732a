package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Deceus/devconnect/internal/domain/profile"
	"github.com/Deceus/devconnect/internal/observability"
	"github.com/Deceus/devconnect/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfilesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

// constructor function

func NewProfilesRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProfilesRepo {
	return &ProfilesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *ProfilesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const profileColumns = `id, user_id, handle, company, website, location, status, skills, bio, github_username, social, created_at, updated_at`

func (r *ProfilesRepo) GetByUserID(ctx context.Context, userID string) (profile.Profile, error) {
	return r.getOne(ctx, "profiles.get_by_user", `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
}

func (r *ProfilesRepo) GetByHandle(ctx context.Context, handle string) (profile.Profile, error) {
	return r.getOne(ctx, "profiles.get_by_handle", `SELECT `+profileColumns+` FROM profiles WHERE handle = $1`, handle)
}

func (r *ProfilesRepo) getOne(ctx context.Context, op, query string, arg any) (profile.Profile, error) {
	var p profile.Profile

	err := r.observe(op, func() error {
		var scanErr error
		p, scanErr = r.scanProfile(r.pool.QueryRow(ctx, query, arg))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrNotFound
		}

		return profile.Profile{}, err
	}

	err = r.attachEntries(ctx, &p)

	if err != nil {
		return profile.Profile{}, err
	}

	return p, nil
}

// ListCursor pages through profiles newest first using a (created_at, id)
// keyset cursor. Entry lists are attached per profile; pages are small.
func (r *ProfilesRepo) ListCursor(ctx context.Context, filters profile.ListProfilesFilter, afterCreatedAt time.Time, afterID string) ([]profile.Profile, *string, bool, error) {
	baseQuery := `SELECT ` + profileColumns + ` FROM profiles`

	var conds []string
	var args []interface{}

	argsPosition := 1

	// first page is signalled with the zero cursor
	if !afterCreatedAt.IsZero() && afterID != "" {
		conds = append(conds, fmt.Sprintf("(created_at, id) < ($%d, $%d)", argsPosition, argsPosition+1))
		args = append(args, afterCreatedAt, afterID)
		argsPosition += 2
	}

	if filters.Status != nil {
		conds = append(conds, fmt.Sprintf("status = $%d", argsPosition))
		args = append(args, *filters.Status)
		argsPosition++
	}

	if filters.Skill != nil {
		conds = append(conds, fmt.Sprintf("$%d = ANY(skills)", argsPosition))
		args = append(args, *filters.Skill)
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// stable ordering for keyset pagination; fetch one extra row to
	// detect whether another page exists.
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", argsPosition)
	args = append(args, filters.Limit+1)

	output := make([]profile.Profile, 0, filters.Limit)

	err := r.observe("profiles.list_cursor", func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			p, err := r.scanProfile(rows)

			if err != nil {
				return err
			}

			output = append(output, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, nil, false, err
	}

	hasMore := len(output) > filters.Limit

	if hasMore {
		output = output[:filters.Limit]
	}

	for i := range output {
		err = r.attachEntries(ctx, &output[i])

		if err != nil {
			return nil, nil, false, err
		}
	}

	var next *string

	if hasMore && len(output) > 0 {
		last := output[len(output)-1]
		cursor, err := utils.EncodeProfileCursor(last.CreatedAt, last.ID)

		if err != nil {
			return nil, nil, false, err
		}
		next = &cursor
	}

	return output, next, hasMore, nil
}

// Upsert creates the caller's profile or overwrites the supplied fields of an
// existing one. Optional fields arrive as nil pointers and keep their stored
// values; social links merge key by key. Handle uniqueness is the constraint's
// job, surfaced as ErrHandleTaken.
func (r *ProfilesRepo) Upsert(ctx context.Context, userID string, req profile.UpsertProfileRequest) (profile.Profile, error) {
	socialPatch := map[string]string{}

	setSocial(socialPatch, "youtube", req.Youtube)
	setSocial(socialPatch, "twitter", req.Twitter)
	setSocial(socialPatch, "facebook", req.Facebook)
	setSocial(socialPatch, "linkedin", req.Linkedin)
	setSocial(socialPatch, "instagram", req.Instagram)

	socialJSON, err := json.Marshal(socialPatch)

	if err != nil {
		return profile.Profile{}, err
	}

	skills := profile.SplitSkills(req.Skills)

	var p profile.Profile

	err = r.observe("profiles.upsert", func() error {
		var scanErr error
		p, scanErr = r.scanProfile(r.pool.QueryRow(
			ctx,
			`INSERT INTO profiles (id, user_id, handle, company, website, location, status, skills, bio, github_username, social, created_at, updated_at)
		 VALUES ($1, $2, $3, COALESCE($4, ''), COALESCE($5, ''), COALESCE($6, ''), $7, $8, COALESCE($9, ''), COALESCE($10, ''), $11::jsonb, now(), now())
		 ON CONFLICT (user_id) DO UPDATE
			SET handle          = EXCLUDED.handle,
					status          = EXCLUDED.status,
					skills          = EXCLUDED.skills,
					company         = COALESCE($4, profiles.company),
					website         = COALESCE($5, profiles.website),
					location        = COALESCE($6, profiles.location),
					bio             = COALESCE($9, profiles.bio),
					github_username = COALESCE($10, profiles.github_username),
					social          = profiles.social || $11::jsonb,
					updated_at      = now()
		 RETURNING `+profileColumns,
			uuid.NewString(),
			userID,
			req.Handle,
			req.Company,
			req.Website,
			req.Location,
			req.Status,
			skills,
			req.Bio,
			req.GithubUsername,
			socialJSON,
		))
		return scanErr
	})

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "profiles_handle_key" {
			return profile.Profile{}, profile.ErrHandleTaken
		}

		return profile.Profile{}, err
	}

	err = r.attachEntries(ctx, &p)

	if err != nil {
		return profile.Profile{}, err
	}

	return p, nil
}

// AddExperience inserts one entry row keyed to the owner's profile in a single
// statement. No load-mutate-save of the whole profile, so concurrent appends
// cannot lose each other.
func (r *ProfilesRepo) AddExperience(ctx context.Context, userID string, e profile.Experience) error {
	return r.observe("profiles.add_experience", func() error {
		res, err := r.pool.Exec(ctx,
			`INSERT INTO experiences (id, profile_id, title, company, location, from_date, to_date, current, description, created_at)
			 SELECT $1, p.id, $2, $3, $4, $5, $6, $7, $8, $9
			 FROM profiles p
			 WHERE p.user_id = $10`,
			e.ID, e.Title, e.Company, e.Location, e.From, e.To, e.Current, e.Description, e.CreatedAt, userID,
		)

		if err != nil {
			return err
		}

		if res.RowsAffected() == 0 {
			return profile.ErrNotFound
		}

		return nil
	})
}

// RemoveExperience deletes by entry id, scoped to the caller's profile. An
// unknown id is reported as ErrEntryNotFound; it never falls back to
// deleting some other entry.
func (r *ProfilesRepo) RemoveExperience(ctx context.Context, userID, entryID string) error {
	return r.observe("profiles.remove_experience", func() error {
		res, err := r.pool.Exec(ctx,
			`DELETE FROM experiences e
			 USING profiles p
			 WHERE e.profile_id = p.id AND p.user_id = $1 AND e.id = $2`,
			userID, entryID,
		)

		if err != nil {
			return err
		}

		if res.RowsAffected() == 0 {
			return profile.ErrEntryNotFound
		}

		return nil
	})
}

func (r *ProfilesRepo) AddEducation(ctx context.Context, userID string, e profile.Education) error {
	return r.observe("profiles.add_education", func() error {
		res, err := r.pool.Exec(ctx,
			`INSERT INTO educations (id, profile_id, school, degree, field_of_study, from_date, to_date, current, description, created_at)
			 SELECT $1, p.id, $2, $3, $4, $5, $6, $7, $8, $9
			 FROM profiles p
			 WHERE p.user_id = $10`,
			e.ID, e.School, e.Degree, e.FieldOfStudy, e.From, e.To, e.Current, e.Description, e.CreatedAt, userID,
		)

		if err != nil {
			return err
		}

		if res.RowsAffected() == 0 {
			return profile.ErrNotFound
		}

		return nil
	})
}

func (r *ProfilesRepo) RemoveEducation(ctx context.Context, userID, entryID string) error {
	return r.observe("profiles.remove_education", func() error {
		res, err := r.pool.Exec(ctx,
			`DELETE FROM educations e
			 USING profiles p
			 WHERE e.profile_id = p.id AND p.user_id = $1 AND e.id = $2`,
			userID, entryID,
		)

		if err != nil {
			return err
		}

		if res.RowsAffected() == 0 {
			return profile.ErrEntryNotFound
		}

		return nil
	})
}

// --- scanning helpers

func (r *ProfilesRepo) scanProfile(row pgx.Row) (profile.Profile, error) {
	var p profile.Profile
	var socialRaw []byte

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Handle,
		&p.Company,
		&p.Website,
		&p.Location,
		&p.Status,
		&p.Skills,
		&p.Bio,
		&p.GithubUsername,
		&socialRaw,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		return profile.Profile{}, err
	}

	if len(socialRaw) > 0 {
		err = json.Unmarshal(socialRaw, &p.Social)

		if err != nil {
			return profile.Profile{}, err
		}
	}

	return p, nil
}

// attachEntries loads experience and education most-recent-first.
func (r *ProfilesRepo) attachEntries(ctx context.Context, p *profile.Profile) error {
	expRows, err := r.pool.Query(ctx,
		`SELECT id, title, company, location, from_date, to_date, current, description, created_at
		 FROM experiences
		 WHERE profile_id = $1
		 ORDER BY from_date DESC, created_at DESC`,
		p.ID,
	)

	if err != nil {
		return err
	}

	defer expRows.Close()

	p.Experience = make([]profile.Experience, 0)

	for expRows.Next() {
		var e profile.Experience

		err = expRows.Scan(&e.ID, &e.Title, &e.Company, &e.Location, &e.From, &e.To, &e.Current, &e.Description, &e.CreatedAt)

		if err != nil {
			return err
		}

		p.Experience = append(p.Experience, e)
	}

	err = expRows.Err()

	if err != nil {
		return err
	}

	eduRows, err := r.pool.Query(ctx,
		`SELECT id, school, degree, field_of_study, from_date, to_date, current, description, created_at
		 FROM educations
		 WHERE profile_id = $1
		 ORDER BY from_date DESC, created_at DESC`,
		p.ID,
	)

	if err != nil {
		return err
	}

	defer eduRows.Close()

	p.Education = make([]profile.Education, 0)

	for eduRows.Next() {
		var e profile.Education

		err = eduRows.Scan(&e.ID, &e.School, &e.Degree, &e.FieldOfStudy, &e.From, &e.To, &e.Current, &e.Description, &e.CreatedAt)

		if err != nil {
			return err
		}

		p.Education = append(p.Education, e)
	}

	return eduRows.Err()
}

func setSocial(patch map[string]string, key string, v *string) {
	if v != nil {
		patch[key] = *v
	}
}
