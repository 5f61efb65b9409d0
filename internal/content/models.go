package content

import (
	"strings"
	"time"
)

// Kind identifies a content subtype. Each portfolio section edits one kind.
type Kind string

const (
	KindEducation     Kind = "education"
	KindExperience    Kind = "experience"
	KindService       Kind = "service"
	KindSkill         Kind = "skill"
	KindProject       Kind = "project"
	KindCertification Kind = "certification"
	KindMessage       Kind = "message"
)

// Record is the common shape shared by every editable portfolio entity.
// It carries the union of subtype fields; a record read from the store is
// always fully normalized (missing fields substituted with zero defaults).
// An empty ID marks an unsaved draft.
type Record struct {
	ID          string `json:"id" bson:"id"`
	Title       string `json:"title" bson:"title"`
	Institution string `json:"institution,omitempty" bson:"institution,omitempty"`
	Company     string `json:"company,omitempty" bson:"company,omitempty"`
	Period      string `json:"period,omitempty" bson:"period,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`

	// services
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Color       string `json:"color,omitempty" bson:"color,omitempty"`
	Icon        string `json:"icon,omitempty" bson:"icon,omitempty"`

	// skills
	Level int `json:"level" bson:"level"`

	// projects
	Details      string   `json:"details,omitempty" bson:"details,omitempty"`
	Technologies []string `json:"technologies" bson:"technologies"`
	Link         string   `json:"link,omitempty" bson:"link,omitempty"`

	// certifications
	Date string `json:"date,omitempty" bson:"date,omitempty"`

	// contact messages
	Name     string `json:"name,omitempty" bson:"name,omitempty"`
	Email    string `json:"email,omitempty" bson:"email,omitempty"`
	Location string `json:"location,omitempty" bson:"location,omitempty"`
	Budget   string `json:"budget,omitempty" bson:"budget,omitempty"`
	Message  string `json:"message,omitempty" bson:"message,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Draft reports whether the record has not been persisted yet.
func (r *Record) Draft() bool { return r.ID == "" }

// Normalize substitutes read-time defaults so consumers never see nil
// sequences or missing fields.
func (r *Record) Normalize() {
	if r.Technologies == nil {
		r.Technologies = []string{}
	}
	if r.Level < 0 {
		r.Level = 0
	}
	if r.Level > 100 {
		r.Level = 100
	}
}

// Collection describes a named bucket of records and the editing rules for
// its kind: which fields a submit requires and where uploaded images land.
// ReadRestricted collections may be written by anyone but read only by the
// owner (contact messages).
type Collection struct {
	Name           string
	Kind           Kind
	Required       []string
	ImageFolder    string
	ReadRestricted bool
}

var collections = map[string]Collection{
	"education": {
		Name: "education", Kind: KindEducation,
		Required:    []string{"title", "period"},
		ImageFolder: "education",
	},
	"experience": {
		Name: "experience", Kind: KindExperience,
		Required:    []string{"title", "period"},
		ImageFolder: "experience",
	},
	"services": {
		Name: "services", Kind: KindService,
		Required:    []string{"title", "description"},
		ImageFolder: "services",
	},
	"skills": {
		Name: "skills", Kind: KindSkill,
		Required:    []string{"title"},
		ImageFolder: "skills",
	},
	"projects": {
		Name: "projects", Kind: KindProject,
		Required:    []string{"title", "description", "link"},
		ImageFolder: "projects",
	},
	"certifications": {
		Name: "certifications", Kind: KindCertification,
		Required:    []string{"title", "link"},
		ImageFolder: "certifications",
	},
	"messages": {
		Name: "messages", Kind: KindMessage,
		Required:       []string{"title"},
		ImageFolder:    "messages",
		ReadRestricted: true,
	},
}

// Lookup returns the collection descriptor for name.
func Lookup(name string) (Collection, bool) {
	col, ok := collections[name]
	return col, ok
}

// Collections lists the known collection names.
func Collections() []string {
	out := make([]string, 0, len(collections))
	for name := range collections {
		out = append(out, name)
	}
	return out
}

// field returns the value of a required-field name on the record.
func (r *Record) field(name string) string {
	switch name {
	case "title":
		return r.Title
	case "period":
		return r.Period
	case "description":
		return r.Description
	case "link":
		return r.Link
	}
	return ""
}

// MissingFields returns the required fields of col that are empty on r.
func (col Collection) MissingFields(r *Record) []string {
	var missing []string
	for _, name := range col.Required {
		if strings.TrimSpace(r.field(name)) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
