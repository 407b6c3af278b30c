// internal/models/application.go
package models

import "time"

// TimelineEvent is one entry in an application's append-only history.
// Events are never mutated or removed once appended.
type TimelineEvent struct {
	Event       string                 `json:"event"`
	Timestamp   time.Time              `json:"timestamp"`
	Actor       string                 `json:"actor,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Description string                 `json:"description"`
}

// Document is an uploaded supporting document.
type Document struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	FileName   string    `json:"fileName"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Evaluation is the payload of a completed assessment
// (eligibility, spiritual, or academic).
type Evaluation struct {
	Outcome     string    `json:"outcome"`
	Score       int       `json:"score,omitempty"`
	EvaluatorID string    `json:"evaluatorId,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
}

// InterviewRecord tracks one scheduled interview and its completion.
type InterviewRecord struct {
	ID            string    `json:"id"`
	InterviewerID string    `json:"interviewerId,omitempty"`
	ScheduledAt   time.Time `json:"scheduledAt"`
	Completed     bool      `json:"completed"`
	Result        string    `json:"result,omitempty"`
}

// Reference is a character reference supplied by the applicant.
type Reference struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// AcademicRecord is one entry of the applicant's academic history.
type AcademicRecord struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Year        int    `json:"year,omitempty"`
}

// Application is the admissions application under automation. The store owns
// persistence; Version is an optimistic counter bumped on every write so a
// concurrent sweep observing stale state fails its update instead of
// clobbering a newer one.
type Application struct {
	ID        string            `json:"id"`
	Status    ApplicationStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Version   int64             `json:"version"`

	Timeline []TimelineEvent `json:"timeline"`

	ApplicantName  string `json:"applicantName,omitempty"`
	ApplicantEmail string `json:"applicantEmail,omitempty"`
	ApplicantPhone string `json:"applicantPhone,omitempty"`

	PersonalStatement   string           `json:"personalStatement,omitempty"`
	AcademicHistory     []AcademicRecord `json:"academicHistory,omitempty"`
	SpiritualTestimony  string           `json:"spiritualTestimony,omitempty"`
	CharacterReferences []Reference      `json:"characterReferences,omitempty"`
	Documents           []Document       `json:"documents,omitempty"`

	EligibilityResult   *Evaluation       `json:"eligibilityResult,omitempty"`
	SpiritualEvaluation *Evaluation       `json:"spiritualEvaluation,omitempty"`
	AcademicEvaluation  *Evaluation       `json:"academicEvaluation,omitempty"`
	InterviewRecords    []InterviewRecord `json:"interviewRecords,omitempty"`
}

// CompletedInterviews returns how many interview records are marked completed.
func (a *Application) CompletedInterviews() int {
	n := 0
	for _, rec := range a.InterviewRecords {
		if rec.Completed {
			n++
		}
	}
	return n
}

// Completeness is the percentage of the five required application fields
// that are populated: personal statement, academic history, spiritual
// testimony, character references, and documents.
func (a *Application) Completeness() int {
	filled := 0
	if a.PersonalStatement != "" {
		filled++
	}
	if len(a.AcademicHistory) > 0 {
		filled++
	}
	if a.SpiritualTestimony != "" {
		filled++
	}
	if len(a.CharacterReferences) > 0 {
		filled++
	}
	if len(a.Documents) > 0 {
		filled++
	}
	return filled * 100 / 5
}
