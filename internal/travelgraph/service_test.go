package travelgraph

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/visitroute/visitroute/internal/catalog"
	"github.com/visitroute/visitroute/pkg/geo"
)

type stubProvider struct {
	minutes float64
	err     error
}

func (p *stubProvider) Duration(_ context.Context, _, _ geo.Coordinate) (float64, error) {
	return p.minutes, p.err
}

func (p *stubProvider) Name() string { return "stub" }

func serviceActivities() []catalog.Activity {
	return []catalog.Activity{
		{ID: "1", Name: "A", ClosingTime: 60},
		{ID: "2", Name: "B", ClosingTime: 60},
	}
}

func TestService_SnapshotBeforeRebuild(t *testing.T) {
	svc := NewService(ServiceConfig{Provider: &stubProvider{}, Logger: zerolog.Nop()})

	if _, err := svc.Snapshot(); !errors.Is(err, ErrGraphNotReady) {
		t.Errorf("expected ErrGraphNotReady, got %v", err)
	}
}

func TestService_RebuildAndSnapshot(t *testing.T) {
	svc := NewService(ServiceConfig{Provider: &stubProvider{minutes: 4}, Logger: zerolog.Nop()})

	if err := svc.Rebuild(context.Background(), serviceActivities()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g, err := svc.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes := g.LookupDefault("A", "B"); minutes != 4 {
		t.Errorf("expected 4 minutes, got %f", minutes)
	}
	if svc.BuiltAt().IsZero() {
		t.Error("expected BuiltAt to be set after rebuild")
	}
}

func TestService_RebuildFailureKeepsSnapshot(t *testing.T) {
	provider := &stubProvider{minutes: 4}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	if err := svc.Rebuild(context.Background(), serviceActivities()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	provider.err = errors.New("provider down")
	if err := svc.Rebuild(context.Background(), serviceActivities()); err == nil {
		t.Fatal("expected rebuild to fail")
	}

	// The previous snapshot stays usable.
	g, err := svc.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes := g.LookupDefault("A", "B"); minutes != 4 {
		t.Errorf("expected previous snapshot intact, got %f", minutes)
	}
}
