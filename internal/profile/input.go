package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Skills decodes from either a JSON array of strings or one comma-separated
// string. Both forms end up trimmed with empty entries dropped.
type Skills []string

func (s *Skills) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*s = ParseSkills(joined)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.New("skills must be a string or an array of strings")
	}
	*s = cleanSkills(list)
	return nil
}

// ParseSkills splits a comma-separated skill list: "a, b ,c" -> [a b c]
func ParseSkills(joined string) Skills {
	return cleanSkills(strings.Split(joined, ","))
}

func cleanSkills(in []string) Skills {
	out := make(Skills, 0, len(in))
	for _, skill := range in {
		if trimmed := strings.TrimSpace(skill); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// reserved keys are never stored as extra fields
var reserved = map[string]bool{
	"id": true, "_id": true, "user": true, "status": true, "skills": true,
	"website": true, "social": true, "experience": true, "education": true,
	"created_at": true, "updated_at": true, "date": true,
}

// ProfileInput is a create-or-update submission. Nil pointers and missing
// map keys mean "not submitted" and leave the stored value alone.
type ProfileInput struct {
	Status  *string           `json:"status"`
	Skills  *Skills           `json:"skills"`
	Website *string           `json:"website"`
	Social  map[string]string `json:"social"`
	Extra   map[string]any    `json:"-"`
}

// UnmarshalJSON accepts social links either at the top level (github, twitter, ...)
// or inside a "social" object. Everything not recognized lands in Extra.
func (in *ProfileInput) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*in = ProfileInput{}

	if v, ok := raw["status"]; ok {
		var status string
		if err := json.Unmarshal(v, &status); err != nil {
			return errors.New("status must be a string")
		}
		in.Status = &status
	}

	if v, ok := raw["skills"]; ok {
		var skills Skills
		if err := json.Unmarshal(v, &skills); err != nil {
			return err
		}
		in.Skills = &skills
	}

	if v, ok := raw["website"]; ok {
		var website string
		if err := json.Unmarshal(v, &website); err != nil {
			return errors.New("website must be a string")
		}
		in.Website = &website
	}

	if v, ok := raw["social"]; ok {
		var nested map[string]string
		if err := json.Unmarshal(v, &nested); err != nil {
			return errors.New("social must be an object of strings")
		}
		for platform, link := range nested {
			in.setSocial(platform, link)
		}
	}

	for _, platform := range SocialPlatforms {
		v, ok := raw[platform]
		if !ok {
			continue
		}
		var link string
		if err := json.Unmarshal(v, &link); err != nil {
			return fmt.Errorf("%s must be a string", platform)
		}
		in.setSocial(platform, link)
	}

	for key, v := range raw {
		if reserved[key] || isSocialPlatform(key) {
			continue
		}
		var value any
		if err := json.Unmarshal(v, &value); err != nil {
			return err
		}
		if in.Extra == nil {
			in.Extra = make(map[string]any)
		}
		in.Extra[key] = value
	}

	return nil
}

func (in *ProfileInput) setSocial(platform, link string) {
	if !isSocialPlatform(platform) {
		return
	}
	if in.Social == nil {
		in.Social = make(map[string]string)
	}
	in.Social[platform] = link
}

func isSocialPlatform(key string) bool {
	for _, p := range SocialPlatforms {
		if p == key {
			return true
		}
	}
	return false
}

// Validate checks required fields and canonicalizes every submitted link in place.
func (in *ProfileInput) Validate() error {
	if in.Status != nil {
		trimmed := strings.TrimSpace(*in.Status)
		in.Status = &trimmed
	}

	err := validation.ValidateStruct(in,
		validation.Field(&in.Status, validation.Required.Error("Status is required")),
		validation.Field(&in.Skills, validation.Required.Error("Skills is required")),
	)

	errs := validation.Errors{}
	if err != nil {
		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			return err
		}
		errs = verrs
	}

	if in.Website != nil {
		normalized, nerr := NormalizeURL(*in.Website)
		if nerr != nil {
			errs["website"] = nerr
		} else {
			in.Website = &normalized
		}
	}

	for platform, link := range in.Social {
		normalized, nerr := NormalizeURL(link)
		if nerr != nil {
			errs[platform] = nerr
			continue
		}
		in.Social[platform] = normalized
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// apply merges the submission into p. Only submitted fields change.
func (in *ProfileInput) apply(p *Profile) {
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Skills != nil {
		p.Skills = []string(*in.Skills)
	}
	if in.Website != nil {
		p.Website = *in.Website
	}
	for platform, link := range in.Social {
		p.Social.Set(platform, link)
	}
	for key, value := range in.Extra {
		if value == nil {
			delete(p.Extra, key)
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[key] = value
	}
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// dateRange parses from and the optional to, requiring from to come first.
func dateRange(from, to string) (time.Time, *time.Time, validation.Errors) {
	errs := validation.Errors{}

	start, err := parseDate(from)
	if err != nil {
		errs["from"] = errors.New("From date must be a valid date")
	}

	var end *time.Time
	if strings.TrimSpace(to) != "" {
		t, err := parseDate(to)
		switch {
		case err != nil:
			errs["to"] = errors.New("To date must be a valid date")
		case errs["from"] == nil && !start.Before(t):
			errs["to"] = errors.New("To date must be after from date")
		default:
			end = &t
		}
	}

	return start, end, errs
}

// ExperienceInput is the body of an add-experience request
type ExperienceInput struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// Entry validates the input and builds an entry without an ID.
func (in ExperienceInput) Entry() (Experience, error) {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required.Error("Title is required")),
		validation.Field(&in.Company, validation.Required.Error("Company is required")),
		validation.Field(&in.From, validation.Required.Error("From date is required")),
	)
	if err != nil {
		return Experience{}, err
	}

	from, to, errs := dateRange(in.From, in.To)
	if len(errs) > 0 {
		return Experience{}, errs
	}

	return Experience{
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}, nil
}

// EducationInput is the body of an add-education request
type EducationInput struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// Entry validates the input and builds an entry without an ID.
func (in EducationInput) Entry() (Education, error) {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.School, validation.Required.Error("School is required")),
		validation.Field(&in.Degree, validation.Required.Error("Degree is required")),
		validation.Field(&in.FieldOfStudy, validation.Required.Error("Field of study is required")),
		validation.Field(&in.From, validation.Required.Error("From date is required")),
	)
	if err != nil {
		return Education{}, err
	}

	from, to, errs := dateRange(in.From, in.To)
	if len(errs) > 0 {
		return Education{}, errs
	}

	return Education{
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}, nil
}
