package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/devconnect-api/internal/account"
	"github.com/redmonkez12/devconnect-api/internal/database/dbtest"
	"github.com/redmonkez12/devconnect-api/internal/httputil"
	"github.com/redmonkez12/devconnect-api/internal/logging"
)

type fixture struct {
	svc      *Service
	repo     *Repository
	accounts *account.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	repo := NewRepository(db)
	accounts := account.NewRepository(db)
	return &fixture{
		svc:      NewService(repo, accounts, logging.NewLogger(true)),
		repo:     repo,
		accounts: accounts,
	}
}

func (f *fixture) newAccount(t *testing.T, name string) uuid.UUID {
	t.Helper()
	acc, err := f.accounts.Create(context.Background(), name, name+"@example.com", "hash")
	require.NoError(t, err)
	return acc.ID
}

func decodeInput(t *testing.T, body string) ProfileInput {
	t.Helper()
	var in ProfileInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func TestService_UpsertCreatesThenMerges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newAccount(t, "ada")

	created, err := f.svc.Upsert(ctx, id, decodeInput(t, `{
		"status": "Developer", "skills": "Go, SQL",
		"website": "ada.dev", "github": "http://github.com/ada/", "company": "Acme"
	}`))
	require.NoError(t, err)

	assert.Equal(t, id, created.AccountID)
	require.NotNil(t, created.Owner)
	assert.Equal(t, "ada", created.Owner.Name)
	assert.Equal(t, []string{"Go", "SQL"}, created.Skills)
	assert.Equal(t, "https://ada.dev", created.Website)
	assert.Equal(t, "https://github.com/ada", created.Social.GitHub)
	assert.Equal(t, "Acme", created.Extra["company"])

	updated, err := f.svc.Upsert(ctx, id, decodeInput(t, `{
		"status": "Senior Developer", "skills": ["Go"], "twitter": "twitter.com/ada"
	}`))
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Senior Developer", updated.Status)
	assert.Equal(t, []string{"Go"}, updated.Skills)
	// not submitted, left alone
	assert.Equal(t, "https://ada.dev", updated.Website)
	assert.Equal(t, "https://github.com/ada", updated.Social.GitHub)
	assert.Equal(t, "Acme", updated.Extra["company"])
	assert.Equal(t, "https://twitter.com/ada", updated.Social.Twitter)
}

func TestService_UpsertIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newAccount(t, "ada")

	body := `{"status": "Dev", "skills": "a, b ,c", "website": "example.com", "bio": "hi", "years": 3}`

	first, err := f.svc.Upsert(ctx, id, decodeInput(t, body))
	require.NoError(t, err)
	second, err := f.svc.Upsert(ctx, id, decodeInput(t, body))
	require.NoError(t, err)

	// updated_at is bookkeeping, everything else must match
	second.UpdatedAt = first.UpdatedAt
	assert.Equal(t, first, second)

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestService_UpsertValidation(t *testing.T) {
	f := newFixture(t)
	id := f.newAccount(t, "ada")

	_, err := f.svc.Upsert(context.Background(), id, decodeInput(t, `{"status": "Dev"}`))
	fields, ok := httputil.FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, []httputil.FieldError{{Msg: "Skills is required", Field: "skills"}}, fields)

	_, err = f.svc.GetOwn(context.Background(), id)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestService_GetAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetByAccount(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		id := f.newAccount(t, fmt.Sprintf("user%d", i))
		_, err := f.svc.Upsert(ctx, id, decodeInput(t, `{"status": "Dev", "skills": "go"}`))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	var got []uuid.UUID
	for _, p := range all {
		got = append(got, p.AccountID)
		require.NotNil(t, p.Owner)
		assert.Contains(t, []string{"user0", "user1", "user2"}, p.Owner.Name)
	}
	assert.ElementsMatch(t, ids, got)

	own, err := f.svc.GetOwn(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, ids[1], own.AccountID)
}

func TestService_ExperienceIsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newAccount(t, "ada")

	_, err := f.svc.Upsert(ctx, id, decodeInput(t, `{"status": "Dev", "skills": "go"}`))
	require.NoError(t, err)

	titles := []string{"first", "second", "third", "fourth"}
	for _, title := range titles {
		p, err := f.svc.AddExperience(ctx, id, ExperienceInput{Title: title, Company: "Acme", From: "2020-01-01"})
		require.NoError(t, err)
		assert.Equal(t, title, p.Experience[0].Title)
		assert.NotEqual(t, uuid.Nil, p.Experience[0].ID)
	}

	stored, err := f.svc.GetOwn(ctx, id)
	require.NoError(t, err)

	var got []string
	for _, e := range stored.Experience {
		got = append(got, e.Title)
	}
	assert.Equal(t, []string{"fourth", "third", "second", "first"}, got)

	// upsert never touches the list
	_, err = f.svc.Upsert(ctx, id, decodeInput(t, `{"status": "Lead", "skills": "go", "experience": []}`))
	require.NoError(t, err)
	stored, err = f.svc.GetOwn(ctx, id)
	require.NoError(t, err)
	assert.Len(t, stored.Experience, 4)
}

func TestService_RemoveExperience(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newAccount(t, "ada")

	_, err := f.svc.Upsert(ctx, id, decodeInput(t, `{"status": "Dev", "skills": "go"}`))
	require.NoError(t, err)
	_, err = f.svc.AddExperience(ctx, id, ExperienceInput{Title: "old", Company: "A", From: "2018-01-01", To: "2019-01-01"})
	require.NoError(t, err)
	p, err := f.svc.AddExperience(ctx, id, ExperienceInput{Title: "new", Company: "B", From: "2019-02-01", Current: true})
	require.NoError(t, err)
	before := p.Experience

	unchanged, err := f.svc.RemoveExperience(ctx, id, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, before, unchanged.Experience)

	unchanged, err = f.svc.RemoveExperience(ctx, id, "not-a-uuid")
	require.NoError(t, err)
	assert.Equal(t, before, unchanged.Experience)

	after, err := f.svc.RemoveExperience(ctx, id, before[1].ID.String())
	require.NoError(t, err)
	require.Len(t, after.Experience, 1)
	assert.Equal(t, "new", after.Experience[0].Title)

	stored, err := f.svc.GetOwn(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, after.Experience, stored.Experience)
}

func TestService_Education(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newAccount(t, "ada")

	_, err := f.svc.AddEducation(ctx, id, EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2010-09-01"})
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = f.svc.Upsert(ctx, id, decodeInput(t, `{"status": "Dev", "skills": "go"}`))
	require.NoError(t, err)

	_, err = f.svc.AddEducation(ctx, id, EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2010-09-01", To: "2014-06-01"})
	require.NoError(t, err)
	p, err := f.svc.AddEducation(ctx, id, EducationInput{School: "Stanford", Degree: "MSc", FieldOfStudy: "CS", From: "2014-09-01"})
	require.NoError(t, err)

	require.Len(t, p.Education, 2)
	assert.Equal(t, "Stanford", p.Education[0].School)
	assert.Equal(t, "MIT", p.Education[1].School)

	p, err = f.svc.RemoveEducation(ctx, id, p.Education[0].ID.String())
	require.NoError(t, err)
	require.Len(t, p.Education, 1)
	assert.Equal(t, "MIT", p.Education[0].School)

	_, err = f.svc.AddEducation(ctx, id, EducationInput{School: "X", Degree: "Y", FieldOfStudy: "Z", From: "2020-01-01", To: "2010-01-01"})
	_, ok := httputil.FieldErrors(err)
	assert.True(t, ok)
}

func TestService_AddExperienceWithoutProfile(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddExperience(context.Background(), f.newAccount(t, "ada"),
		ExperienceInput{Title: "Dev", Company: "Acme", From: "2020-01-01"})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestRepository_DeleteByAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newAccount(t, "ada")

	_, err := f.svc.Upsert(ctx, id, decodeInput(t, `{"status": "Dev", "skills": "go"}`))
	require.NoError(t, err)

	require.NoError(t, f.repo.DeleteByAccount(ctx, id))
	_, err = f.svc.GetByAccount(ctx, id)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	assert.NoError(t, f.repo.DeleteByAccount(ctx, id))
}

func TestService_UpsertRejectsDeletedAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newAccount(t, "ada")

	require.NoError(t, f.accounts.Delete(ctx, id))

	_, err := f.svc.Upsert(ctx, id, decodeInput(t, `{"status":"dev","skills":"go"}`))
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = f.repo.GetByAccount(ctx, id)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
