package admin

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSeed matches every seed document validation failure via errors.Is.
var ErrInvalidSeed = errors.New("admin: invalid seed")

const (
	seedVersionV1 = "1"
	// SeedVersion exposes the current seed format version for tooling.
	SeedVersion = seedVersionV1
)

// SeedDocument is the YAML/JSON fixture set loaded into the stores.
type SeedDocument struct {
	Version     string       `json:"version" yaml:"version"`
	Widgets     []Widget     `json:"widgets,omitempty" yaml:"widgets,omitempty"`
	Models      []AIModel    `json:"models,omitempty" yaml:"models,omitempty"`
	Users       []User       `json:"users,omitempty" yaml:"users,omitempty"`
	Roles       []Role       `json:"roles,omitempty" yaml:"roles,omitempty"`
	Permissions []Permission `json:"permissions,omitempty" yaml:"permissions,omitempty"`
	Source      string       `json:"-" yaml:"-"`
}

// ReadSeed loads and validates a seed file.
func ReadSeed(path string) (*SeedDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("admin: open seed %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeSeed(f)
	if err != nil {
		return nil, fmt.Errorf("admin: decode seed %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeSeed reads a seed document from any reader. Unknown fields are rejected.
func DecodeSeed(r io.Reader) (*SeedDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc SeedDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("admin: seed is empty")
		}
		return nil, fmt.Errorf("admin: parse seed: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeSeed writes doc as YAML.
func EncodeSeed(w io.Writer, doc SeedDocument) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("admin: encode seed: %w", err)
	}
	return encoder.Close()
}

// Validate checks the version, id uniqueness and that every role and
// permission reference resolves. All problems are reported together.
func (doc *SeedDocument) Validate() error {
	if doc.Version != seedVersionV1 {
		return fmt.Errorf("%w: unsupported seed version %q", ErrInvalidSeed, doc.Version)
	}
	var errs []error
	errs = append(errs, checkIDs(EntityWidget, doc.Widgets)...)
	errs = append(errs, checkIDs(EntityModel, doc.Models)...)
	errs = append(errs, checkIDs(EntityUser, doc.Users)...)
	roles := checkIDsIndex(EntityRole, doc.Roles, &errs)
	permissions := checkIDsIndex(EntityPermission, doc.Permissions, &errs)
	for _, u := range doc.Users {
		for _, id := range u.RoleIDs {
			if _, ok := roles[id]; !ok {
				errs = append(errs, fmt.Errorf("admin: seed user %q references unknown role %q", u.ID, id))
			}
		}
	}
	for _, r := range doc.Roles {
		for _, id := range r.PermissionIDs {
			if _, ok := permissions[id]; !ok {
				errs = append(errs, fmt.Errorf("admin: seed role %q references unknown permission %q", r.ID, id))
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSeed, errors.Join(errs...))
}

func (doc *SeedDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = seedVersionV1
	}
	users := make([]User, len(doc.Users))
	for i, u := range doc.Users {
		if u.Avatar == "" {
			u.Avatar = AvatarURL(u.Name)
		}
		users[i] = u
	}
	if len(users) > 0 {
		doc.Users = users
	}
}

func checkIDs[T Record](entity Entity, records []T) []error {
	var errs []error
	checkIDsIndex(entity, records, &errs)
	return errs
}

func checkIDsIndex[T Record](entity Entity, records []T, errs *[]error) map[string]struct{} {
	seen := make(map[string]struct{}, len(records))
	for idx, rec := range records {
		id := rec.RecordID()
		if id == "" {
			*errs = append(*errs, fmt.Errorf("admin: seed %s at index %d is missing an id", entity, idx))
			continue
		}
		if _, ok := seen[id]; ok {
			*errs = append(*errs, fmt.Errorf("admin: seed %s %q: %w", entity, id, ErrDuplicateID))
			continue
		}
		seen[id] = struct{}{}
	}
	return seen
}

func seedTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func seedWidgetSettings(modelID string) WidgetSettings {
	settings := DefaultWidgetSettings()
	settings.Model.ModelID = modelID
	return settings
}

// DefaultSeed returns the built-in demo fixtures.
func DefaultSeed() SeedDocument {
	return SeedDocument{
		Version: seedVersionV1,
		Widgets: []Widget{
			{ID: "1", Name: "Customer Support Chat", Status: WidgetActive, CreatedAt: "2023-06-15", AIModel: "GPT-4", Settings: seedWidgetSettings("gpt-4")},
			{ID: "2", Name: "Product Recommendation", Status: WidgetActive, CreatedAt: "2023-07-22", AIModel: "Claude-2", Settings: seedWidgetSettings("claude-2")},
			{ID: "3", Name: "FAQ Assistant", Status: WidgetInactive, CreatedAt: "2023-08-10", AIModel: "GPT-3.5", Settings: seedWidgetSettings("gpt-3.5")},
			{ID: "4", Name: "Onboarding Guide", Status: WidgetActive, CreatedAt: "2023-09-05", AIModel: "GPT-4", Settings: seedWidgetSettings("gpt-4")},
		},
		Models: []AIModel{
			{
				ID:            "1",
				Name:          "GPT-4",
				Provider:      "OpenAI",
				Version:       "0613",
				Description:   "Large multimodal model for complex reasoning and support conversations.",
				Capabilities:  []string{"text", "code", "reasoning"},
				Parameters:    ModelParameters{Temperature: 0.7, TopP: 1},
				ContextLength: 8192,
				Status:        ModelActive,
				CreatedAt:     seedTime("2023-05-10T09:00:00Z"),
				UpdatedAt:     seedTime("2023-09-01T12:30:00Z"),
				Prompts: []Prompt{
					{
						ID:          "p-1",
						Name:        "Support greeting",
						Description: "Opens a customer support conversation.",
						Content:     "You are a helpful customer support assistant for {{company}}.",
						Category:    "support",
					},
				},
			},
			{
				ID:            "2",
				Name:          "Claude-2",
				Provider:      "Anthropic",
				Version:       "2.0",
				Description:   "Assistant model with long context for document heavy tasks.",
				Capabilities:  []string{"text", "summarization"},
				Parameters:    ModelParameters{Temperature: 0.5, TopP: 0.9},
				ContextLength: 100000,
				Status:        ModelDeprecated,
				CreatedAt:     seedTime("2023-06-02T10:00:00Z"),
				UpdatedAt:     seedTime("2023-11-20T08:15:00Z"),
			},
			{
				ID:            "3",
				Name:          "GPT-3.5 Turbo",
				Provider:      "OpenAI",
				Version:       "turbo-0613",
				Description:   "Fast and inexpensive model for FAQ style answers.",
				Capabilities:  []string{"text"},
				Parameters:    ModelParameters{Temperature: 0.7, TopP: 1, FrequencyPenalty: 0.2},
				ContextLength: 4096,
				Status:        ModelInactive,
				CreatedAt:     seedTime("2023-03-15T14:45:00Z"),
				UpdatedAt:     seedTime("2023-08-10T16:00:00Z"),
			},
		},
		Permissions: []Permission{
			{ID: "perm-1", Name: "widgets:read", Description: "View chat widgets", Category: "widgets", CreatedAt: seedTime("2023-01-01T00:00:00Z"), UpdatedAt: seedTime("2023-01-01T00:00:00Z")},
			{ID: "perm-2", Name: "widgets:write", Description: "Create and edit chat widgets", Category: "widgets", CreatedAt: seedTime("2023-01-01T00:00:00Z"), UpdatedAt: seedTime("2023-01-01T00:00:00Z")},
			{ID: "perm-3", Name: "models:manage", Description: "Configure AI models and prompts", Category: "models", CreatedAt: seedTime("2023-01-01T00:00:00Z"), UpdatedAt: seedTime("2023-01-01T00:00:00Z")},
			{ID: "perm-4", Name: "users:manage", Description: "Manage users and roles", Category: "users", CreatedAt: seedTime("2023-01-01T00:00:00Z"), UpdatedAt: seedTime("2023-01-01T00:00:00Z")},
		},
		Roles: []Role{
			{ID: "role-1", Name: "Administrator", Description: "Full access to the admin console", PermissionIDs: []string{"perm-1", "perm-2", "perm-3", "perm-4"}, CreatedAt: seedTime("2023-01-02T00:00:00Z"), UpdatedAt: seedTime("2023-01-02T00:00:00Z")},
			{ID: "role-2", Name: "Editor", Description: "Maintains widgets and models", PermissionIDs: []string{"perm-1", "perm-2", "perm-3"}, CreatedAt: seedTime("2023-01-02T00:00:00Z"), UpdatedAt: seedTime("2023-01-02T00:00:00Z")},
			{ID: "role-3", Name: "Viewer", Description: "Read only access", PermissionIDs: []string{"perm-1"}, CreatedAt: seedTime("2023-01-02T00:00:00Z"), UpdatedAt: seedTime("2023-01-02T00:00:00Z")},
		},
		Users: []User{
			{ID: "user-1", Name: "John Doe", Email: "john@example.com", Avatar: AvatarURL("John Doe"), RoleIDs: []string{"role-1"}, Status: UserActive, CreatedAt: seedTime("2023-01-10T09:00:00Z"), UpdatedAt: seedTime("2023-06-01T09:00:00Z")},
			{ID: "user-2", Name: "Jane Smith", Email: "jane@example.com", Avatar: AvatarURL("Jane Smith"), RoleIDs: []string{"role-2", "role-3"}, Status: UserActive, CreatedAt: seedTime("2023-02-14T11:30:00Z"), UpdatedAt: seedTime("2023-07-12T15:20:00Z")},
			{ID: "user-3", Name: "Bob Johnson", Email: "bob@example.com", Avatar: AvatarURL("Bob Johnson"), RoleIDs: []string{"role-3"}, Status: UserPending, CreatedAt: seedTime("2023-08-21T08:45:00Z"), UpdatedAt: seedTime("2023-08-21T08:45:00Z")},
		},
	}
}
