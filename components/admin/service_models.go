package admin

import (
	"context"
	"slices"
	"strings"
)

// DefaultContextLength is used when a model is created without one.
const DefaultContextLength = 4096

// DefaultModelParameters are staged by the model create form.
func DefaultModelParameters() ModelParameters {
	return ModelParameters{Temperature: 0.7, TopP: 1}
}

// ModelInput is the create form payload of an AI model.
type ModelInput struct {
	Name          string           `json:"name"`
	Provider      string           `json:"provider"`
	Version       string           `json:"version"`
	Description   string           `json:"description"`
	Capabilities  []string         `json:"capabilities"`
	Parameters    *ModelParameters `json:"parameters,omitempty"`
	ContextLength int              `json:"context_length,omitempty"`
	Status        ModelStatus      `json:"status,omitempty"`
	Prompts       []Prompt         `json:"prompts,omitempty"`
}

// DefaultModelInput is staged by the model create form.
func DefaultModelInput() ModelInput {
	params := DefaultModelParameters()
	return ModelInput{
		Capabilities:  []string{},
		Parameters:    &params,
		ContextLength: DefaultContextLength,
		Status:        ModelActive,
	}
}

func (in *ModelInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Provider = strings.TrimSpace(in.Provider)
	in.Version = strings.TrimSpace(in.Version)
	in.Description = strings.TrimSpace(in.Description)
	in.Capabilities = normalizeTags(in.Capabilities)
	if in.Parameters == nil {
		params := DefaultModelParameters()
		in.Parameters = &params
	}
	if in.ContextLength == 0 {
		in.ContextLength = DefaultContextLength
	}
	if in.Status == "" {
		in.Status = ModelActive
	}
}

// ModelPatch carries the fields to change on a model. Nil fields are kept.
type ModelPatch struct {
	Name          *string          `json:"name,omitempty"`
	Provider      *string          `json:"provider,omitempty"`
	Version       *string          `json:"version,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Capabilities  *[]string        `json:"capabilities,omitempty"`
	Parameters    *ModelParameters `json:"parameters,omitempty"`
	ContextLength *int             `json:"context_length,omitempty"`
	Status        *ModelStatus     `json:"status,omitempty"`
}

func (p ModelPatch) apply(m *AIModel) {
	if p.Name != nil {
		m.Name = strings.TrimSpace(*p.Name)
	}
	if p.Provider != nil {
		m.Provider = strings.TrimSpace(*p.Provider)
	}
	if p.Version != nil {
		m.Version = strings.TrimSpace(*p.Version)
	}
	if p.Description != nil {
		m.Description = strings.TrimSpace(*p.Description)
	}
	if p.Capabilities != nil {
		m.Capabilities = normalizeTags(*p.Capabilities)
	}
	if p.Parameters != nil {
		m.Parameters = *p.Parameters
	}
	if p.ContextLength != nil {
		m.ContextLength = *p.ContextLength
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
}

func modelInputOf(m AIModel) ModelInput {
	params := m.Parameters
	return ModelInput{
		Name:          m.Name,
		Provider:      m.Provider,
		Version:       m.Version,
		Description:   m.Description,
		Capabilities:  normalizeTags(m.Capabilities),
		Parameters:    &params,
		ContextLength: m.ContextLength,
		Status:        m.Status,
	}
}

// PromptsInput is the payload of the prompt configuration form.
type PromptsInput struct {
	Prompts []Prompt `json:"prompts"`
}

// CreateModel validates in and appends a new model.
func (s *Service) CreateModel(ctx context.Context, in ModelInput) (AIModel, error) {
	in.normalize()
	if err := s.validate(ModelForm, in); err != nil {
		return AIModel{}, err
	}
	prompts, err := s.preparePrompts(in.Prompts)
	if err != nil {
		return AIModel{}, err
	}
	s.mu.Lock()
	model, err := s.models.Create(ctx, AIModel{
		Name:          in.Name,
		Provider:      in.Provider,
		Version:       in.Version,
		Description:   in.Description,
		Capabilities:  in.Capabilities,
		Parameters:    *in.Parameters,
		ContextLength: in.ContextLength,
		Status:        in.Status,
		Prompts:       prompts,
	})
	s.mu.Unlock()
	if err != nil {
		return AIModel{}, err
	}
	return model, s.changed(ctx, ChangeEvent{Entity: EntityModel, Action: ChangeCreate, ID: model.ID}, map[string]any{
		"name":     model.Name,
		"provider": model.Provider,
	})
}

// UpdateModel merges patch into the model and validates the result before
// committing it. Prompts are left untouched.
func (s *Service) UpdateModel(ctx context.Context, id string, patch ModelPatch) (AIModel, error) {
	s.mu.Lock()
	current, ok := s.models.Get(id)
	if !ok {
		s.mu.Unlock()
		return AIModel{}, notFound(EntityModel, id)
	}
	patch.apply(&current)
	if err := s.validate(ModelForm, modelInputOf(current)); err != nil {
		s.mu.Unlock()
		return AIModel{}, err
	}
	model, err := s.models.Update(ctx, id, patch.apply)
	s.mu.Unlock()
	if err != nil {
		return AIModel{}, err
	}
	return model, s.changed(ctx, ChangeEvent{Entity: EntityModel, Action: ChangeUpdate, ID: id}, map[string]any{
		"status": string(model.Status),
	})
}

// SavePrompts replaces the ordered prompt list of a model. Prompts without an
// id get one.
func (s *Service) SavePrompts(ctx context.Context, id string, prompts []Prompt) (AIModel, error) {
	prepared, err := s.preparePrompts(prompts)
	if err != nil {
		return AIModel{}, err
	}
	s.mu.Lock()
	model, err := s.models.Update(ctx, id, func(m *AIModel) {
		m.Prompts = prepared
	})
	s.mu.Unlock()
	if err != nil {
		return AIModel{}, err
	}
	return model, s.changed(ctx, ChangeEvent{Entity: EntityModel, Action: ChangeUpdate, ID: id}, map[string]any{
		"prompts": len(prepared),
	})
}

// DeleteModel removes a model. Widgets keep their model label.
func (s *Service) DeleteModel(ctx context.Context, id string) error {
	s.mu.Lock()
	err := s.models.Delete(ctx, id)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.changed(ctx, ChangeEvent{Entity: EntityModel, Action: ChangeDelete, ID: id}, nil)
}

// Model returns one model.
func (s *Service) Model(id string) (AIModel, error) {
	m, ok := s.models.Get(id)
	if !ok {
		return AIModel{}, notFound(EntityModel, id)
	}
	return m, nil
}

// Models returns the models visible under query.
func (s *Service) Models(query Query) []AIModel {
	return ApplyQuery(s.models.List(), ModelQuerySpec, query)
}

func (s *Service) preparePrompts(prompts []Prompt) ([]Prompt, error) {
	out := make([]Prompt, len(prompts))
	for i, p := range prompts {
		p.Name = strings.TrimSpace(p.Name)
		p.Category = strings.TrimSpace(p.Category)
		out[i] = p
	}
	if err := s.validate(PromptsForm, PromptsInput{Prompts: out}); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = s.promptID.NewID()
		}
	}
	return out, nil
}

// normalizeTags trims, drops empty entries and removes duplicates keeping
// first occurrence order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}
