package profile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_MarshalJSONFlattensExtra(t *testing.T) {
	accountID := uuid.New()
	p := Profile{
		ID:        uuid.New(),
		AccountID: accountID,
		Owner:     &Owner{ID: accountID, Name: "Ada"},
		Status:    "Dev",
		Skills:    []string{"go"},
		Social:    Social{GitHub: "https://github.com/ada"},
		Extra:     map[string]any{"company": "Acme", "status": "shadowed"},
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, "Acme", out["company"])
	assert.Equal(t, "Dev", out["status"])
	assert.Equal(t, map[string]any{"id": accountID.String(), "name": "Ada"}, out["user"])
	assert.Equal(t, map[string]any{"github": "https://github.com/ada"}, out["social"])
	assert.Equal(t, []any{}, out["experience"])
	assert.NotContains(t, out, "website")
}

func TestProfile_MarshalJSONWithoutOwner(t *testing.T) {
	accountID := uuid.New()

	raw, err := json.Marshal(Profile{AccountID: accountID})
	require.NoError(t, err)

	var out struct {
		User Owner `json:"user"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, accountID, out.User.ID)
}

func TestSocial_SetIgnoresUnknownPlatforms(t *testing.T) {
	var s Social
	s.Set("github", "https://github.com/ada")
	s.Set("myspace", "https://myspace.com/ada")

	assert.Equal(t, map[string]string{"github": "https://github.com/ada"}, s.toMap())
	assert.Equal(t, s, socialFromMap(s.toMap()))
}
