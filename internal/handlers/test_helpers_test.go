package handlers

import (
	"context"
	"sync"

	"mathgames/internal/models"
	"mathgames/internal/services"
)

// fakeGenerator records the specs it was asked to narrate
type fakeGenerator struct {
	mu      sync.Mutex
	specs   []models.ProblemSpec
	payload *models.StoryPayload
	outcome services.Outcome
	panics  bool
}

func (f *fakeGenerator) Generate(_ context.Context, spec models.ProblemSpec) (*models.StoryPayload, services.Outcome) {
	f.mu.Lock()
	f.specs = append(f.specs, spec)
	f.mu.Unlock()

	if f.panics {
		panic("generator exploded")
	}
	if f.payload == nil {
		return services.FallbackStory(spec), services.OutcomeNoCredential
	}
	return f.payload.Clone(), f.outcome
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.specs)
}
