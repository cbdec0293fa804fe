// internal/domain/application.go
package domain

import (
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplicationStatus is the lifecycle status of a student application.
// PENDING is the initial state; CLOSED is terminal (no reopening).
type ApplicationStatus string

const (
	ApplicationStatusPending ApplicationStatus = "pending"
	ApplicationStatusClosed  ApplicationStatus = "closed"
)

// Citizenship enumerates the accepted citizenship declarations.
type Citizenship string

const (
	CitizenshipUSCitizen         Citizenship = "us_citizen"
	CitizenshipPermanentResident Citizenship = "permanent_resident"
	CitizenshipInternational     Citizenship = "international"
	CitizenshipOther             Citizenship = "other"
)

// AcademicStanding enumerates class standings.
type AcademicStanding string

const (
	StandingFreshman  AcademicStanding = "freshman"
	StandingSophomore AcademicStanding = "sophomore"
	StandingJunior    AcademicStanding = "junior"
	StandingSenior    AcademicStanding = "senior"
	StandingGraduate  AcademicStanding = "graduate"
)

// WeeklyHours enumerates the weekly time commitment buckets.
type WeeklyHours string

const (
	Hours0To5   WeeklyHours = "0-5"
	Hours6To10  WeeklyHours = "6-10"
	Hours11To15 WeeklyHours = "11-15"
	Hours16Plus WeeklyHours = "16+"
)

// ProjectLength enumerates the desired engagement length buckets.
type ProjectLength string

const (
	LengthOneQuarter  ProjectLength = "one_quarter"
	LengthTwoQuarters ProjectLength = "two_quarters"
	LengthFullYear    ProjectLength = "full_year"
	LengthFlexible    ProjectLength = "flexible"
)

// StudentInfo is the identity/academics block of an application.
type StudentInfo struct {
	Name        string           `bson:"name" json:"name"`
	Email       string           `bson:"email" json:"email"`
	Phone       string           `bson:"phone,omitempty" json:"phone,omitempty"`
	Citizenship Citizenship      `bson:"citizenship" json:"citizenship"`
	Standing    AcademicStanding `bson:"standing" json:"standing"`
	Majors      []string         `bson:"majors" json:"majors"`
	GPA         float64          `bson:"gpa" json:"gpa"`
}

// Availability is the scheduling block of an application. Per-weekday entries
// are free text ("after 2pm", "all day"); the buckets are enumerated.
type Availability struct {
	Monday        string        `bson:"monday,omitempty" json:"monday,omitempty"`
	Tuesday       string        `bson:"tuesday,omitempty" json:"tuesday,omitempty"`
	Wednesday     string        `bson:"wednesday,omitempty" json:"wednesday,omitempty"`
	Thursday      string        `bson:"thursday,omitempty" json:"thursday,omitempty"`
	Friday        string        `bson:"friday,omitempty" json:"friday,omitempty"`
	HoursPerWeek  WeeklyHours   `bson:"hoursPerWeek" json:"hoursPerWeek"`
	ProjectLength ProjectLength `bson:"projectLength" json:"projectLength"`
}

// AdditionalInfo is the free-form supplement block of an application.
type AdditionalInfo struct {
	PriorResearch          string   `bson:"priorResearch,omitempty" json:"priorResearch,omitempty"`
	FederalWorkStudy       bool     `bson:"federalWorkStudy" json:"federalWorkStudy"`
	Languages              []string `bson:"languages,omitempty" json:"languages,omitempty"`
	ComfortableWithAnimals bool     `bson:"comfortableWithAnimals" json:"comfortableWithAnimals"`
}

// Application is a student's submission against a project. The resume object
// key is set once at creation and never changes afterwards; the referenced
// object is written to the store before this record exists.
type Application struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID `bson:"projectId" json:"projectId"`
	StudentID primitive.ObjectID `bson:"studentId" json:"studentId"`

	Student    StudentInfo    `bson:"student" json:"student"`
	Schedule   Availability   `bson:"schedule" json:"schedule"`
	Additional AdditionalInfo `bson:"additional" json:"additional"`

	Status          ApplicationStatus `bson:"status" json:"status"`
	ResumeObjectKey string            `bson:"resumeObjectKey" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// FieldErrors maps an offending field path to a description of the problem.
// Validation is batch: every violation is collected before reporting, so the
// caller sees all problems at once rather than the first one per attempt.
type FieldErrors map[string]string

// Fields returns the offending field paths in sorted order.
func (f FieldErrors) Fields() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func validCitizenship(c Citizenship) bool {
	switch c {
	case CitizenshipUSCitizen, CitizenshipPermanentResident, CitizenshipInternational, CitizenshipOther:
		return true
	}
	return false
}

func validStanding(s AcademicStanding) bool {
	switch s {
	case StandingFreshman, StandingSophomore, StandingJunior, StandingSenior, StandingGraduate:
		return true
	}
	return false
}

func validWeeklyHours(h WeeklyHours) bool {
	switch h {
	case Hours0To5, Hours6To10, Hours11To15, Hours16Plus:
		return true
	}
	return false
}

func validProjectLength(l ProjectLength) bool {
	switch l {
	case LengthOneQuarter, LengthTwoQuarters, LengthFullYear, LengthFlexible:
		return true
	}
	return false
}

// Validate checks every required field of the three submission blocks and
// returns the full set of violations, or nil when the application is valid.
func (a *Application) Validate() FieldErrors {
	errs := FieldErrors{}

	if a.Student.Name == "" {
		errs["student.name"] = "name is required"
	}
	if a.Student.Email == "" {
		errs["student.email"] = "email is required"
	}
	if !validCitizenship(a.Student.Citizenship) {
		errs["student.citizenship"] = fmt.Sprintf("must be one of: %s, %s, %s, %s",
			CitizenshipUSCitizen, CitizenshipPermanentResident, CitizenshipInternational, CitizenshipOther)
	}
	if !validStanding(a.Student.Standing) {
		errs["student.standing"] = fmt.Sprintf("must be one of: %s, %s, %s, %s, %s",
			StandingFreshman, StandingSophomore, StandingJunior, StandingSenior, StandingGraduate)
	}
	if len(a.Student.Majors) == 0 {
		errs["student.majors"] = "at least one major is required"
	}
	if a.Student.GPA < 0 || a.Student.GPA > 4.0 {
		errs["student.gpa"] = "must be between 0.0 and 4.0"
	}

	if !validWeeklyHours(a.Schedule.HoursPerWeek) {
		errs["schedule.hoursPerWeek"] = fmt.Sprintf("must be one of: %s, %s, %s, %s",
			Hours0To5, Hours6To10, Hours11To15, Hours16Plus)
	}
	if !validProjectLength(a.Schedule.ProjectLength) {
		errs["schedule.projectLength"] = fmt.Sprintf("must be one of: %s, %s, %s, %s",
			LengthOneQuarter, LengthTwoQuarters, LengthFullYear, LengthFlexible)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
