package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is the accounts table
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	Name         string    `bun:"name,notnull"`
	Email        string    `bun:"email,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Profile is the profiles table. Nested collections live in JSON columns
// and are always written as a whole.
type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:p"`

	ID         uuid.UUID         `bun:"id,pk,type:uuid"`
	AccountID  uuid.UUID         `bun:"account_id,notnull,type:uuid"`
	Status     string            `bun:"status,notnull"`
	Skills     []string          `bun:"skills,type:jsonb,notnull"`
	Website    string            `bun:"website,notnull"`
	Social     map[string]string `bun:"social,type:jsonb,notnull"`
	Experience []Experience      `bun:"experience,type:jsonb,notnull"`
	Education  []Education       `bun:"education,type:jsonb,notnull"`
	Extra      map[string]any    `bun:"extra,type:jsonb,notnull"`
	CreatedAt  time.Time         `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  time.Time         `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	Account *Account `bun:"rel:belongs-to,join:account_id=id"`
}

// Experience is one element of profiles.experience
type Experience struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is one element of profiles.education
type Education struct {
	ID           uuid.UUID  `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Post is the posts table
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:po"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	AccountID uuid.UUID `bun:"account_id,notnull,type:uuid"`
	Text      string    `bun:"text,notnull"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
