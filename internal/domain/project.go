// internal/domain/project.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectStatus is the stored lifecycle status of a project listing.
type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "draft"
	ProjectStatusPublished ProjectStatus = "published"
	ProjectStatusClosed    ProjectStatus = "closed"
)

// Campus enumerates the physical locations a project can be hosted at.
type Campus string

const (
	CampusMain           Campus = "main"
	CampusDowntown       Campus = "downtown"
	CampusHealthSciences Campus = "health_sciences"
)

// ValidCampus reports whether the given value is a known campus.
func ValidCampus(c Campus) bool {
	switch c {
	case CampusMain, CampusDowntown, CampusHealthSciences:
		return true
	}
	return false
}

// Project represents a research project listing posted by a professor.
type Project struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProfessorID  primitive.ObjectID `bson:"professorId" json:"professorId"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Campus       Campus             `bson:"campus" json:"campus"`
	Categories   []string           `bson:"categories,omitempty" json:"categories,omitempty"`
	Requirements []string           `bson:"requirements,omitempty" json:"requirements,omitempty"`

	// Status is the stored status. Consumers should present EffectiveStatus,
	// which additionally accounts for deadline expiry at read time.
	Status    ProjectStatus `bson:"status" json:"status"`
	Positions int           `bson:"positions" json:"positions"`
	Deadline  *time.Time    `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Visible   bool          `bson:"visible" json:"visible"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// EffectiveProjectStatus derives the status presented to consumers from the
// stored status, the optional application deadline, and the current time.
// A PUBLISHED project whose deadline has passed reads as CLOSED; storage is
// never mutated by this derivation. Pure function of its three inputs.
func EffectiveProjectStatus(stored ProjectStatus, deadline *time.Time, now time.Time) ProjectStatus {
	if stored == ProjectStatusClosed {
		return ProjectStatusClosed
	}
	if stored == ProjectStatusPublished && deadline != nil && deadline.Before(now) {
		return ProjectStatusClosed
	}
	return stored
}

// EffectiveStatus is the read-time projection for this project. See
// EffectiveProjectStatus.
func (p *Project) EffectiveStatus(now time.Time) ProjectStatus {
	return EffectiveProjectStatus(p.Status, p.Deadline, now)
}

// CanAcceptApplications reports whether a student submission against this
// project should be admitted right now.
func (p *Project) CanAcceptApplications(now time.Time) bool {
	return p.EffectiveStatus(now) == ProjectStatusPublished
}

// CanTransitionTo reports whether the stored status may legally move to
// target. Legal edges: DRAFT -> PUBLISHED and PUBLISHED -> CLOSED (delist).
// Everything else, including reopening a closed project, is rejected.
func (p *Project) CanTransitionTo(target ProjectStatus) bool {
	switch p.Status {
	case ProjectStatusDraft:
		return target == ProjectStatusPublished
	case ProjectStatusPublished:
		return target == ProjectStatusClosed
	default:
		return false
	}
}
