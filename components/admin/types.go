package admin

import (
	"context"
	"time"
)

// Entity names a record type managed by the admin core.
type Entity string

const (
	EntityWidget     Entity = "widget"
	EntityModel      Entity = "ai_model"
	EntityUser       Entity = "user"
	EntityRole       Entity = "role"
	EntityPermission Entity = "permission"
	// EntityPrompt is not stored on its own; prompts live inside AIModel.
	EntityPrompt Entity = "prompt"
)

// WidgetStatus is the lifecycle state of a chat widget.
type WidgetStatus string

const (
	WidgetActive   WidgetStatus = "active"
	WidgetInactive WidgetStatus = "inactive"
)

// ModelStatus is the lifecycle state of an AI model configuration.
type ModelStatus string

const (
	ModelActive     ModelStatus = "active"
	ModelInactive   ModelStatus = "inactive"
	ModelDeprecated ModelStatus = "deprecated"
)

// UserStatus is the account state of a directory user.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	UserPending  UserStatus = "pending"
)

// Record is implemented by every entity held in a Store.
type Record interface {
	RecordID() string
}

// Widget is a chat widget embedded on a customer site. AIModel is a display
// label, not a reference to an AIModel record.
type Widget struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Status    WidgetStatus   `json:"status" yaml:"status"`
	CreatedAt string         `json:"created_at" yaml:"created_at"`
	AIModel   string         `json:"ai_model" yaml:"ai_model"`
	Settings  WidgetSettings `json:"settings" yaml:"settings,omitempty"`
}

func (w Widget) RecordID() string { return w.ID }

// WidgetSettings groups the builder options for a widget.
type WidgetSettings struct {
	Appearance WidgetAppearance    `json:"appearance" yaml:"appearance,omitempty"`
	Behavior   WidgetBehavior      `json:"behavior" yaml:"behavior,omitempty"`
	Model      WidgetModelSettings `json:"model" yaml:"model,omitempty"`
}

// WidgetAppearance controls how the widget renders on the host page.
type WidgetAppearance struct {
	PrimaryColor   string `json:"primary_color" yaml:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color" yaml:"secondary_color,omitempty"`
	TextColor      string `json:"text_color" yaml:"text_color,omitempty"`
	BorderRadius   int    `json:"border_radius" yaml:"border_radius,omitempty"`
	Position       string `json:"position" yaml:"position,omitempty"`
	Width          int    `json:"width" yaml:"width,omitempty"`
	Height         int    `json:"height" yaml:"height,omitempty"`
	FontFamily     string `json:"font_family" yaml:"font_family,omitempty"`
	IconType       string `json:"icon_type" yaml:"icon_type,omitempty"`
}

// WidgetBehavior controls conversation behavior.
type WidgetBehavior struct {
	AutoOpen            bool   `json:"auto_open" yaml:"auto_open,omitempty"`
	Greeting            string `json:"greeting" yaml:"greeting,omitempty"`
	Placeholder         string `json:"placeholder" yaml:"placeholder,omitempty"`
	ResponseDelayMS     int    `json:"response_delay_ms" yaml:"response_delay_ms,omitempty"`
	ShowTimestamp       bool   `json:"show_timestamp" yaml:"show_timestamp,omitempty"`
	PersistConversation bool   `json:"persist_conversation" yaml:"persist_conversation,omitempty"`
	CollectUserInfo     bool   `json:"collect_user_info" yaml:"collect_user_info,omitempty"`
}

// WidgetModelSettings selects the model backing the widget conversation.
type WidgetModelSettings struct {
	ModelID       string  `json:"model_id" yaml:"model_id,omitempty"`
	Temperature   float64 `json:"temperature" yaml:"temperature,omitempty"`
	MaxTokens     int     `json:"max_tokens" yaml:"max_tokens,omitempty"`
	ContextPrompt string  `json:"context_prompt" yaml:"context_prompt,omitempty"`
}

// AIModel is a model configuration with tunable parameters and prompts.
type AIModel struct {
	ID            string          `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"`
	Provider      string          `json:"provider" yaml:"provider"`
	Version       string          `json:"version" yaml:"version"`
	Description   string          `json:"description" yaml:"description"`
	Capabilities  []string        `json:"capabilities" yaml:"capabilities"`
	Parameters    ModelParameters `json:"parameters" yaml:"parameters"`
	ContextLength int             `json:"context_length" yaml:"context_length"`
	Status        ModelStatus     `json:"status" yaml:"status"`
	CreatedAt     time.Time       `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" yaml:"updated_at"`
	Prompts       []Prompt        `json:"prompts" yaml:"prompts"`
}

func (m AIModel) RecordID() string { return m.ID }

// ModelParameters are the sampling parameters of a model.
type ModelParameters struct {
	Temperature      float64 `json:"temperature" yaml:"temperature"`
	TopP             float64 `json:"top_p" yaml:"top_p"`
	FrequencyPenalty float64 `json:"frequency_penalty" yaml:"frequency_penalty"`
	PresencePenalty  float64 `json:"presence_penalty" yaml:"presence_penalty"`
}

// Prompt is a named prompt template attached to a model.
type Prompt struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Content     string `json:"content" yaml:"content"`
	Category    string `json:"category" yaml:"category"`
}

// User is a directory account. Roles are referenced by id and materialized
// through UserView at read time.
type User struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Email     string     `json:"email" yaml:"email"`
	Avatar    string     `json:"avatar" yaml:"avatar,omitempty"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" yaml:"updated_at"`
	RoleIDs   []string   `json:"role_ids" yaml:"role_ids"`
	Status    UserStatus `json:"status" yaml:"status"`
}

func (u User) RecordID() string { return u.ID }

// Role groups permissions by reference.
type Role struct {
	ID            string    `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	Description   string    `json:"description" yaml:"description"`
	PermissionIDs []string  `json:"permission_ids" yaml:"permission_ids"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

func (r Role) RecordID() string { return r.ID }

// Permission is a named capability tag. It is displayed, never enforced.
type Permission struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Category    string    `json:"category" yaml:"category"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

func (p Permission) RecordID() string { return p.ID }

// UserView is a user with its roles resolved at read time.
type UserView struct {
	User
	Roles []RoleView `json:"roles"`
}

// RoleView is a role with its permissions resolved at read time.
type RoleView struct {
	Role
	Permissions []Permission `json:"permissions"`
}

// ChangeAction describes the kind of mutation applied to a collection.
type ChangeAction string

const (
	ChangeCreate ChangeAction = "create"
	ChangeUpdate ChangeAction = "update"
	ChangeDelete ChangeAction = "delete"
	ChangeReset  ChangeAction = "reset"
)

// ChangeEvent describes a collection mutation that transports might care about.
type ChangeEvent struct {
	Entity   Entity       `json:"entity"`
	Action   ChangeAction `json:"action"`
	ID       string       `json:"id,omitempty"`
	Version  uint64       `json:"version"`
	Cascaded bool         `json:"cascaded,omitempty"`
}

// RefreshHook notifies transports (REST/WebSocket/SSE) about collection changes.
type RefreshHook interface {
	EntityChanged(ctx context.Context, event ChangeEvent) error
}

type noopRefreshHook struct{}

func (noopRefreshHook) EntityChanged(context.Context, ChangeEvent) error { return nil }
