package admin

import (
	"context"
	"fmt"
	"strings"
)

// DefaultWidgetSettings are the widget builder defaults.
func DefaultWidgetSettings() WidgetSettings {
	return WidgetSettings{
		Appearance: WidgetAppearance{
			PrimaryColor:   "#3b82f6",
			SecondaryColor: "#f3f4f6",
			TextColor:      "#111827",
			BorderRadius:   8,
			Position:       "bottom-right",
			Width:          350,
			Height:         500,
			FontFamily:     "Inter",
			IconType:       "chat",
		},
		Behavior: WidgetBehavior{
			Greeting:            "Hello! How can I help you today?",
			Placeholder:         "Type your message here...",
			ResponseDelayMS:     500,
			ShowTimestamp:       true,
			PersistConversation: true,
		},
		Model: WidgetModelSettings{
			ModelID:       "gpt-3.5",
			Temperature:   0.7,
			MaxTokens:     150,
			ContextPrompt: "You are a helpful customer support assistant.",
		},
	}
}

// WidgetInput is the create form payload of a widget.
type WidgetInput struct {
	Name     string          `json:"name"`
	Status   WidgetStatus    `json:"status,omitempty"`
	AIModel  string          `json:"ai_model,omitempty"`
	Settings *WidgetSettings `json:"settings,omitempty"`
}

// DefaultWidgetInput is staged by the widget create form.
func DefaultWidgetInput() WidgetInput {
	settings := DefaultWidgetSettings()
	return WidgetInput{Status: WidgetInactive, Settings: &settings}
}

func (in *WidgetInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	if in.Status == "" {
		in.Status = WidgetInactive
	}
	if in.Settings == nil {
		settings := DefaultWidgetSettings()
		in.Settings = &settings
	}
	in.AIModel = strings.TrimSpace(in.AIModel)
	if in.AIModel == "" {
		in.AIModel = ModelLabel(in.Settings.Model.ModelID)
	}
}

// WidgetPatch carries the fields to change on a widget. Nil fields are kept.
type WidgetPatch struct {
	Name     *string         `json:"name,omitempty"`
	Status   *WidgetStatus   `json:"status,omitempty"`
	AIModel  *string         `json:"ai_model,omitempty"`
	Settings *WidgetSettings `json:"settings,omitempty"`
}

func (p WidgetPatch) apply(w *Widget) {
	if p.Name != nil {
		w.Name = strings.TrimSpace(*p.Name)
	}
	if p.Status != nil {
		w.Status = *p.Status
	}
	if p.Settings != nil {
		w.Settings = *p.Settings
		if p.AIModel == nil {
			w.AIModel = ModelLabel(p.Settings.Model.ModelID)
		}
	}
	if p.AIModel != nil {
		w.AIModel = strings.TrimSpace(*p.AIModel)
	}
}

// widgetInputOf rebuilds the form payload of w. Widgets seeded without
// builder settings skip settings validation.
func widgetInputOf(w Widget) WidgetInput {
	in := WidgetInput{Name: w.Name, Status: w.Status, AIModel: w.AIModel}
	if w.Settings != (WidgetSettings{}) {
		settings := w.Settings
		in.Settings = &settings
	}
	return in
}

// CreateWidget validates in and appends a new widget. Status defaults to
// inactive and the creation date is today.
func (s *Service) CreateWidget(ctx context.Context, in WidgetInput) (Widget, error) {
	in.normalize()
	if err := s.validate(WidgetForm, in); err != nil {
		return Widget{}, err
	}
	s.mu.Lock()
	widget, err := s.widgets.Create(ctx, Widget{
		Name:     in.Name,
		Status:   in.Status,
		AIModel:  in.AIModel,
		Settings: *in.Settings,
	})
	s.mu.Unlock()
	if err != nil {
		return Widget{}, err
	}
	return widget, s.changed(ctx, ChangeEvent{Entity: EntityWidget, Action: ChangeCreate, ID: widget.ID}, map[string]any{
		"name":     widget.Name,
		"ai_model": widget.AIModel,
	})
}

// UpdateWidget merges patch into the widget and validates the result before
// committing it.
func (s *Service) UpdateWidget(ctx context.Context, id string, patch WidgetPatch) (Widget, error) {
	s.mu.Lock()
	current, ok := s.widgets.Get(id)
	if !ok {
		s.mu.Unlock()
		return Widget{}, notFound(EntityWidget, id)
	}
	patch.apply(&current)
	if err := s.validate(WidgetForm, widgetInputOf(current)); err != nil {
		s.mu.Unlock()
		return Widget{}, err
	}
	widget, err := s.widgets.Update(ctx, id, patch.apply)
	s.mu.Unlock()
	if err != nil {
		return Widget{}, err
	}
	return widget, s.changed(ctx, ChangeEvent{Entity: EntityWidget, Action: ChangeUpdate, ID: id}, map[string]any{
		"status": string(widget.Status),
	})
}

// SetWidgetStatus activates or deactivates a widget.
func (s *Service) SetWidgetStatus(ctx context.Context, id string, status WidgetStatus) (Widget, error) {
	return s.UpdateWidget(ctx, id, WidgetPatch{Status: &status})
}

// DeleteWidget removes a widget.
func (s *Service) DeleteWidget(ctx context.Context, id string) error {
	s.mu.Lock()
	err := s.widgets.Delete(ctx, id)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.changed(ctx, ChangeEvent{Entity: EntityWidget, Action: ChangeDelete, ID: id}, nil)
}

// Widget returns one widget.
func (s *Service) Widget(id string) (Widget, error) {
	w, ok := s.widgets.Get(id)
	if !ok {
		return Widget{}, notFound(EntityWidget, id)
	}
	return w, nil
}

// Widgets returns the widgets visible under query.
func (s *Service) Widgets(query Query) []Widget {
	return ApplyQuery(s.widgets.List(), WidgetQuerySpec, query)
}

// WidgetStats summarizes the widget collection.
func (s *Service) WidgetStats() WidgetStats {
	return ComputeWidgetStats(s.widgets.List())
}

// WidgetStatsChart renders the widgets-per-model chart, cached per collection version.
func (s *Service) WidgetStatsChart(ctx context.Context) (string, error) {
	records, version := s.widgets.Snapshot()
	options := s.opts.ChartOptions.withDefaults()
	key := fmt.Sprintf("widgets:%d:%s:%s", version, options.Theme, options.Title)
	html, err := s.opts.ChartCache.GetOrRender(key, func() (string, error) {
		s.recordTelemetry(ctx, "admin.widget.chart.render", map[string]any{"version": version})
		return RenderWidgetChart(records, options)
	})
	if err != nil {
		return "", err
	}
	return html, nil
}

// IntegrationSnippet renders embed code for a widget.
func (s *Service) IntegrationSnippet(ctx context.Context, id string, format SnippetFormat) (Snippet, error) {
	w, err := s.Widget(id)
	if err != nil {
		return Snippet{}, err
	}
	snippet, err := RenderSnippet(w, format)
	if err != nil {
		return Snippet{}, err
	}
	s.recordTelemetry(ctx, "admin.widget.snippet", map[string]any{"id": id, "format": string(format)})
	return snippet, nil
}
