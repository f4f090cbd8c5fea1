package profile

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SocialPlatforms is the fixed set of social links a profile can carry
var SocialPlatforms = []string{"youtube", "twitter", "facebook", "linkedin", "instagram", "github"}

// Owner is the account a profile belongs to, as shown on reads
type Owner struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// Social holds one canonical URL (or nothing) per platform
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	GitHub    string `json:"github,omitempty"`
}

func (s *Social) field(platform string) *string {
	switch platform {
	case "youtube":
		return &s.YouTube
	case "twitter":
		return &s.Twitter
	case "facebook":
		return &s.Facebook
	case "linkedin":
		return &s.LinkedIn
	case "instagram":
		return &s.Instagram
	case "github":
		return &s.GitHub
	}
	return nil
}

// Set stores url for platform. Unknown platforms are ignored.
func (s *Social) Set(platform, url string) {
	if f := s.field(platform); f != nil {
		*f = url
	}
}

// Get returns the URL stored for platform
func (s Social) Get(platform string) string {
	if f := s.field(platform); f != nil {
		return *f
	}
	return ""
}

func (s Social) toMap() map[string]string {
	m := make(map[string]string, len(SocialPlatforms))
	for _, p := range SocialPlatforms {
		if v := s.Get(p); v != "" {
			m[p] = v
		}
	}
	return m
}

func socialFromMap(m map[string]string) Social {
	var s Social
	for k, v := range m {
		s.Set(k, v)
	}
	return s
}

// Experience is one job in a profile's history
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

// Education is one school in a profile's history
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

// Profile is one account's profile document. Experience and Education are
// newest first.
type Profile struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	Owner      *Owner
	Status     string
	Skills     []string
	Website    string
	Social     Social
	Experience []Experience
	Education  []Education
	// Extra holds any other submitted top-level fields (company, bio, ...)
	Extra     map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MarshalJSON flattens Extra into the top level next to the fixed fields.
func (p Profile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+10)
	for k, v := range p.Extra {
		out[k] = v
	}

	owner := Owner{ID: p.AccountID}
	if p.Owner != nil {
		owner = *p.Owner
	}

	out["id"] = p.ID
	out["user"] = owner
	out["status"] = p.Status
	out["skills"] = nonNil(p.Skills)
	out["social"] = p.Social
	out["experience"] = nonNil(p.Experience)
	out["education"] = nonNil(p.Education)
	out["created_at"] = p.CreatedAt
	out["updated_at"] = p.UpdatedAt
	if p.Website != "" {
		out["website"] = p.Website
	}

	return json.Marshal(out)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
