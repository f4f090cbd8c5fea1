package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/devconnect-api/internal/database"
)

var ErrProfileNotFound = errors.New("profile not found")

// Repository handles profile persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

func selectProfile(db bun.IDB, dbp *database.Profile) *bun.SelectQuery {
	return db.NewSelect().
		Model(dbp).
		Relation("Account", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name")
		})
}

// GetByAccount retrieves the profile owned by accountID
func (r *Repository) GetByAccount(ctx context.Context, accountID uuid.UUID) (*Profile, error) {
	return getByAccount(ctx, r.db, accountID)
}

func getByAccount(ctx context.Context, db bun.IDB, accountID uuid.UUID) (*Profile, error) {
	dbp := new(database.Profile)
	err := selectProfile(db, dbp).
		Where("p.account_id = ?", accountID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return mapDBProfileToModel(dbp), nil
}

// List returns every profile in creation order
func (r *Repository) List(ctx context.Context) ([]*Profile, error) {
	var rows []database.Profile
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Account", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name")
		}).
		Order("p.created_at ASC", "p.id ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]*Profile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, mapDBProfileToModel(&rows[i]))
	}
	return profiles, nil
}

// Upsert creates or updates the profile of accountID in one transaction.
// apply receives the stored profile, or a blank one when none exists yet.
func (r *Repository) Upsert(ctx context.Context, accountID uuid.UUID, apply func(*Profile)) (*Profile, error) {
	var result *Profile

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now().UTC()

		current, err := getByAccount(ctx, tx, accountID)
		switch {
		case errors.Is(err, ErrProfileNotFound):
			current = &Profile{
				ID:        uuid.New(),
				AccountID: accountID,
				CreatedAt: now,
			}
		case err != nil:
			return err
		}

		apply(current)
		current.UpdatedAt = now

		dbp := mapModelToDBProfile(current)
		_, err = tx.NewInsert().
			Model(dbp).
			On("CONFLICT (account_id) DO UPDATE").
			Set("status = EXCLUDED.status").
			Set("skills = EXCLUDED.skills").
			Set("website = EXCLUDED.website").
			Set("social = EXCLUDED.social").
			Set("extra = EXCLUDED.extra").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert profile: %w", err)
		}

		result, err = getByAccount(ctx, tx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// SaveExperience overwrites the whole experience list of a profile
func (r *Repository) SaveExperience(ctx context.Context, p *Profile) error {
	dbp := &database.Profile{
		ID:         p.ID,
		Experience: mapExperienceToDB(p.Experience),
		UpdatedAt:  p.UpdatedAt,
	}
	return r.saveColumn(ctx, dbp, "experience")
}

// SaveEducation overwrites the whole education list of a profile
func (r *Repository) SaveEducation(ctx context.Context, p *Profile) error {
	dbp := &database.Profile{
		ID:        p.ID,
		Education: mapEducationToDB(p.Education),
		UpdatedAt: p.UpdatedAt,
	}
	return r.saveColumn(ctx, dbp, "education")
}

func (r *Repository) saveColumn(ctx context.Context, dbp *database.Profile, column string) error {
	result, err := r.db.NewUpdate().
		Model(dbp).
		Column(column, "updated_at").
		WherePK().
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update profile %s: %w", column, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// DeleteByAccount removes the profile owned by accountID, if any
func (r *Repository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*database.Profile)(nil)).
		Where("account_id = ?", accountID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	return nil
}

// mapDBProfileToModel converts database model to domain model
func mapDBProfileToModel(dbp *database.Profile) *Profile {
	p := &Profile{
		ID:         dbp.ID,
		AccountID:  dbp.AccountID,
		Status:     dbp.Status,
		Skills:     dbp.Skills,
		Website:    dbp.Website,
		Social:     socialFromMap(dbp.Social),
		Experience: make([]Experience, 0, len(dbp.Experience)),
		Education:  make([]Education, 0, len(dbp.Education)),
		Extra:      dbp.Extra,
		CreatedAt:  dbp.CreatedAt,
		UpdatedAt:  dbp.UpdatedAt,
	}

	if dbp.Account != nil && dbp.Account.ID != uuid.Nil {
		p.Owner = &Owner{ID: dbp.Account.ID, Name: dbp.Account.Name}
	}

	for _, e := range dbp.Experience {
		p.Experience = append(p.Experience, Experience(e))
	}
	for _, e := range dbp.Education {
		p.Education = append(p.Education, Education(e))
	}

	return p
}

func mapModelToDBProfile(p *Profile) *database.Profile {
	extra := p.Extra
	if extra == nil {
		extra = map[string]any{}
	}

	return &database.Profile{
		ID:         p.ID,
		AccountID:  p.AccountID,
		Status:     p.Status,
		Skills:     nonNil(p.Skills),
		Website:    p.Website,
		Social:     p.Social.toMap(),
		Experience: mapExperienceToDB(p.Experience),
		Education:  mapEducationToDB(p.Education),
		Extra:      extra,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func mapExperienceToDB(entries []Experience) []database.Experience {
	out := make([]database.Experience, 0, len(entries))
	for _, e := range entries {
		out = append(out, database.Experience(e))
	}
	return out
}

func mapEducationToDB(entries []Education) []database.Education {
	out := make([]database.Education, 0, len(entries))
	for _, e := range entries {
		out = append(out, database.Education(e))
	}
	return out
}
