package domain

import (
	"testing"
	"time"
)

func TestEffectiveProjectStatus(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		stored   ProjectStatus
		deadline *time.Time
		want     ProjectStatus
	}{
		{"published with future deadline stays published", ProjectStatusPublished, &tomorrow, ProjectStatusPublished},
		{"published with past deadline reads closed", ProjectStatusPublished, &yesterday, ProjectStatusClosed},
		{"published without deadline stays published", ProjectStatusPublished, nil, ProjectStatusPublished},
		{"draft ignores past deadline", ProjectStatusDraft, &yesterday, ProjectStatusDraft},
		{"draft ignores future deadline", ProjectStatusDraft, &tomorrow, ProjectStatusDraft},
		{"closed stays closed", ProjectStatusClosed, &tomorrow, ProjectStatusClosed},
		{"closed without deadline stays closed", ProjectStatusClosed, nil, ProjectStatusClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveProjectStatus(tt.stored, tt.deadline, now)
			if got != tt.want {
				t.Fatalf("EffectiveProjectStatus(%s, %v, %s) = %s, want %s", tt.stored, tt.deadline, now, got, tt.want)
			}
		})
	}
}

func TestEffectiveProjectStatusIsPure(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(-time.Hour)
	p := &Project{Status: ProjectStatusPublished, Deadline: &deadline}

	first := p.EffectiveStatus(now)
	second := p.EffectiveStatus(now)
	if first != second {
		t.Fatalf("derivation not deterministic: %s then %s", first, second)
	}
	// The stored fields must be untouched by the derivation.
	if p.Status != ProjectStatusPublished {
		t.Fatalf("stored status mutated to %s", p.Status)
	}
	if !p.Deadline.Equal(deadline) {
		t.Fatalf("stored deadline mutated to %v", p.Deadline)
	}
}

func TestCanAcceptApplications(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tomorrow := now.Add(24 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	open := &Project{Status: ProjectStatusPublished, Deadline: &tomorrow}
	if !open.CanAcceptApplications(now) {
		t.Fatal("published project with future deadline should accept applications")
	}

	expired := &Project{Status: ProjectStatusPublished, Deadline: &yesterday}
	if expired.CanAcceptApplications(now) {
		t.Fatal("published project with past deadline should not accept applications")
	}

	draft := &Project{Status: ProjectStatusDraft}
	if draft.CanAcceptApplications(now) {
		t.Fatal("draft project should not accept applications")
	}
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to ProjectStatus
		want     bool
	}{
		{ProjectStatusDraft, ProjectStatusPublished, true},
		{ProjectStatusPublished, ProjectStatusClosed, true},
		{ProjectStatusDraft, ProjectStatusClosed, false},
		{ProjectStatusPublished, ProjectStatusDraft, false},
		{ProjectStatusClosed, ProjectStatusPublished, false},
		{ProjectStatusClosed, ProjectStatusDraft, false},
		{ProjectStatusDraft, ProjectStatusDraft, false},
	}

	for _, tt := range tests {
		p := &Project{Status: tt.from}
		if got := p.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
