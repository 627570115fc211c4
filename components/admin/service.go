package admin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-chatadmin/pkg/activity"
)

// Options configures the admin Service. Every collaborator is optional and
// replaced by a safe default.
type Options struct {
	// Seed is loaded into the stores on construction. Nil starts empty.
	Seed *SeedDocument
	// IDs returns the generator for an entity. Defaults to UUIDs.
	IDs            func(Entity) IDGenerator
	Clock          func() time.Time
	Validator      Validator
	RefreshHook    RefreshHook
	Telemetry      Telemetry
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
	ChartCache     RenderCache
	ChartOptions   ChartOptions
}

// SequenceIDFactory gives every entity its own counter, e.g. "widget-1".
func SequenceIDFactory() func(Entity) IDGenerator {
	var mu sync.Mutex
	gens := map[Entity]IDGenerator{}
	return func(entity Entity) IDGenerator {
		mu.Lock()
		defer mu.Unlock()
		gen, ok := gens[entity]
		if !ok {
			gen = NewSequenceIDs(string(entity))
			gens[entity] = gen
		}
		return gen
	}
}

// Service owns the entity stores and applies validated mutations to them.
// Mutations hold mu exclusively so cascades spanning two stores are observed
// together; readers that join stores hold it shared.
type Service struct {
	opts     Options
	mu       sync.RWMutex
	activity *activity.Emitter
	promptID IDGenerator

	widgets     *Store[Widget]
	models      *Store[AIModel]
	users       *Store[User]
	roles       *Store[Role]
	permissions *Store[Permission]
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) (*Service, error) {
	if opts.IDs == nil {
		opts.IDs = func(Entity) IDGenerator { return UUIDGenerator{} }
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.ChartCache == nil {
		opts.ChartCache = NewChartCache(5 * time.Minute)
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)

	s := &Service{
		opts:     opts,
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
		promptID: opts.IDs(EntityPrompt),
	}
	var err error
	if s.widgets, err = NewStore(widgetStoreConfig(opts.IDs(EntityWidget), opts.Clock)); err != nil {
		return nil, err
	}
	if s.models, err = NewStore(modelStoreConfig(opts.IDs(EntityModel), opts.Clock)); err != nil {
		return nil, err
	}
	if s.users, err = NewStore(userStoreConfig(opts.IDs(EntityUser), opts.Clock)); err != nil {
		return nil, err
	}
	if s.roles, err = NewStore(roleStoreConfig(opts.IDs(EntityRole), opts.Clock)); err != nil {
		return nil, err
	}
	if s.permissions, err = NewStore(permissionStoreConfig(opts.IDs(EntityPermission), opts.Clock)); err != nil {
		return nil, err
	}
	if opts.Seed != nil {
		doc := *opts.Seed
		doc.applyDefaults()
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		if err := s.load(doc); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// WidgetStore exposes the widget collection for views.
func (s *Service) WidgetStore() *Store[Widget] { return s.widgets }

// ModelStore exposes the AI model collection for views.
func (s *Service) ModelStore() *Store[AIModel] { return s.models }

// UserStore exposes the user collection for views.
func (s *Service) UserStore() *Store[User] { return s.users }

// RoleStore exposes the role collection for views.
func (s *Service) RoleStore() *Store[Role] { return s.roles }

// PermissionStore exposes the permission collection for views.
func (s *Service) PermissionStore() *Store[Permission] { return s.permissions }

// Seed replaces every collection with doc after validating it.
func (s *Service) Seed(ctx context.Context, doc SeedDocument) error {
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	err := s.load(doc)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	for _, entity := range []Entity{EntityWidget, EntityModel, EntityUser, EntityRole, EntityPermission} {
		if err := s.opts.RefreshHook.EntityChanged(ctx, ChangeEvent{
			Entity:  entity,
			Action:  ChangeReset,
			Version: s.version(entity),
		}); err != nil {
			return err
		}
	}
	s.recordTelemetry(ctx, "admin.seed", map[string]any{
		"widgets":     len(doc.Widgets),
		"models":      len(doc.Models),
		"users":       len(doc.Users),
		"roles":       len(doc.Roles),
		"permissions": len(doc.Permissions),
		"source":      doc.Source,
	})
	return nil
}

// Export snapshots every collection as a seed document.
func (s *Service) Export() SeedDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SeedDocument{
		Version:     SeedVersion,
		Widgets:     s.widgets.List(),
		Models:      s.models.List(),
		Users:       s.users.List(),
		Roles:       s.roles.List(),
		Permissions: s.permissions.List(),
	}
}

func (s *Service) load(doc SeedDocument) error {
	if err := s.widgets.Reset(doc.Widgets); err != nil {
		return err
	}
	if err := s.models.Reset(doc.Models); err != nil {
		return err
	}
	if err := s.users.Reset(doc.Users); err != nil {
		return err
	}
	if err := s.roles.Reset(doc.Roles); err != nil {
		return err
	}
	return s.permissions.Reset(doc.Permissions)
}

func (s *Service) version(entity Entity) uint64 {
	switch entity {
	case EntityWidget:
		return s.widgets.Version()
	case EntityModel:
		return s.models.Version()
	case EntityUser:
		return s.users.Version()
	case EntityRole:
		return s.roles.Version()
	case EntityPermission:
		return s.permissions.Version()
	}
	return 0
}

func (s *Service) validate(form FormSchema, input any) error {
	if err := ValidateInput(s.opts.Validator, form, input); err != nil {
		s.recordTelemetry(context.Background(), "admin.validation.failed", map[string]any{"form": form.Code})
		return err
	}
	return nil
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

// changed notifies transports, records telemetry and emits activity for a
// committed mutation.
func (s *Service) changed(ctx context.Context, event ChangeEvent, meta map[string]any) error {
	if event.Version == 0 {
		event.Version = s.version(event.Entity)
	}
	if err := s.opts.RefreshHook.EntityChanged(ctx, event); err != nil {
		return err
	}
	verb := fmt.Sprintf("admin.%s.%s", event.Entity, event.Action)
	payload := map[string]any{"id": event.ID, "version": event.Version}
	if event.Cascaded {
		payload["cascaded"] = true
	}
	for k, v := range meta {
		payload[k] = v
	}
	s.recordTelemetry(ctx, verb, payload)
	s.emitActivity(ctx, verb, event, meta)
	return nil
}

func (s *Service) emitActivity(ctx context.Context, verb string, event ChangeEvent, meta map[string]any) {
	if !s.activity.Enabled() {
		return
	}
	actor := activityContextFrom(ctx)
	err := s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ActorID:    actor.ActorID,
		UserID:     actor.UserID,
		TenantID:   actor.TenantID,
		ObjectType: string(event.Entity),
		ObjectID:   event.ID,
		Metadata:   meta,
		OccurredAt: s.opts.Clock(),
	})
	if err != nil {
		s.recordTelemetry(ctx, "admin.activity.error", map[string]any{
			"verb":  verb,
			"error": err.Error(),
		})
	}
}
