package settings

import (
	"context"
	"strings"
)

// Service resolves effective settings, layering saved values over
// environment-provided fallbacks for the API keys.
type Service struct {
	repo             Repo
	envGeminiAPIKey  string
	envScholarAPIKey string
}

func NewService(repo Repo, envGeminiAPIKey, envScholarAPIKey string) *Service {
	return &Service{
		repo:             repo,
		envGeminiAPIKey:  envGeminiAPIKey,
		envScholarAPIKey: envScholarAPIKey,
	}
}

// Get returns the effective settings. A key saved through the API wins
// over one from the environment.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	saved, ok, err := s.repo.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	if !ok {
		saved = Defaults()
	}
	saved = saved.Normalize()
	if strings.TrimSpace(saved.GeminiAPIKey) == "" {
		saved.GeminiAPIKey = s.envGeminiAPIKey
	}
	if strings.TrimSpace(saved.ScholarAPIKey) == "" {
		saved.ScholarAPIKey = s.envScholarAPIKey
	}
	return saved, nil
}

// Update applies a partial patch and persists the result.
func (s *Service) Update(ctx context.Context, patch Patch) (Settings, error) {
	saved, ok, err := s.repo.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	if !ok {
		saved = Defaults()
	}
	next := patch.Apply(saved)
	if err := s.repo.Save(ctx, next); err != nil {
		return Settings{}, err
	}
	return next, nil
}

// GeminiKey resolves the model credential for the llm gateway.
func (s *Service) GeminiKey(ctx context.Context) (string, error) {
	eff, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	return eff.GeminiAPIKey, nil
}

// ScholarKey resolves the reference search credential. Errors degrade
// to keyless access since the search itself is best effort.
func (s *Service) ScholarKey(ctx context.Context) string {
	eff, err := s.Get(ctx)
	if err != nil {
		return ""
	}
	return eff.ScholarAPIKey
}
