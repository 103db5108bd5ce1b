package journals

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"paragraph-backend/internal/llm"
	"paragraph-backend/internal/shared/telemetry"
)

var (
	ErrNotFound     = errors.New("journal not found")
	ErrInvalidInput = errors.New("invalid journal input")
)

// Service owns journal registration, lookup, and import/export.
type Service struct {
	repo   Repo
	client llm.Client
}

func NewService(repo Repo, client llm.Client) *Service {
	return &Service{repo: repo, client: client}
}

func (s *Service) List(ctx context.Context) ([]Profile, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, name string) (Profile, error) {
	p, ok, err := s.repo.Get(ctx, name)
	if err != nil {
		return Profile{}, err
	}
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

// Resolve returns the profile for a journal name, or (zero, false) when
// the name is blank or unknown. Analysis falls back to default prompts
// in that case instead of failing.
func (s *Service) Resolve(ctx context.Context, name string) (Profile, bool) {
	if strings.TrimSpace(name) == "" {
		return Profile{}, false
	}
	p, ok, err := s.repo.Get(ctx, name)
	if err != nil {
		telemetry.Error("journal.resolve_failed", map[string]any{"journal_name": name, "error": err.Error()})
		return Profile{}, false
	}
	return p, ok
}

// Register generates the journal's prompt set from its aims and scope,
// then persists the profile. An existing journal with the same name is
// replaced.
func (s *Service) Register(ctx context.Context, name, fullName, aimsScope, customMethodology string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(aimsScope) == "" {
		return Profile{}, fmt.Errorf("%w: name and aims_scope are required", ErrInvalidInput)
	}

	generated, err := GeneratePrompts(ctx, s.client, name, aimsScope, customMethodology)
	if err != nil {
		return Profile{}, err
	}

	profile := Profile{
		Name:              name,
		FullName:          fullName,
		AimsScope:         aimsScope,
		CustomMethodology: customMethodology,
		Prompts:           generated.Prompts,
		Keywords:          generated.Keywords,
		Audience:          generated.Audience,
		Style:             generated.Style,
		Criteria:          generated.Criteria,
	}
	if err := s.repo.Save(ctx, profile); err != nil {
		return Profile{}, fmt.Errorf("save journal %s: %w", name, err)
	}
	telemetry.Info("journal.registered", map[string]any{"journal_name": name, "prompts": len(profile.Prompts)})
	return profile, nil
}

func (s *Service) Delete(ctx context.Context, name string) error {
	if _, err := s.Get(ctx, name); err != nil {
		return err
	}
	return s.repo.Delete(ctx, name)
}

// Export returns every stored profile for backup or transfer.
func (s *Service) Export(ctx context.Context) ([]Profile, error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []Profile{}
	}
	return profiles, nil
}

// Import loads profiles from an export. With merge set, incoming
// profiles are added only when the name is new; otherwise the whole
// collection is replaced.
func (s *Service) Import(ctx context.Context, incoming []Profile, merge bool) (int, error) {
	for _, p := range incoming {
		if strings.TrimSpace(p.Name) == "" {
			return 0, fmt.Errorf("%w: imported journal without a name", ErrInvalidInput)
		}
	}

	if !merge {
		if err := s.repo.ReplaceAll(ctx, incoming); err != nil {
			return 0, err
		}
		return len(incoming), nil
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	known := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		known[p.Name] = struct{}{}
	}

	added := 0
	for _, p := range incoming {
		if _, ok := known[p.Name]; ok {
			continue
		}
		if err := s.repo.Save(ctx, p); err != nil {
			return added, err
		}
		known[p.Name] = struct{}{}
		added++
	}
	return added, nil
}
