package domain

import (
	"context"
	"errors"
	"time"
)

var ErrApplicationNotFound = errors.New("application not found")

// Profile attribute names, as sent by the form
const (
	FieldFullName        = "fullName"
	FieldAge             = "age"
	FieldDNI             = "dni"
	FieldPhone           = "phone"
	FieldAddress         = "address"
	FieldSocialMedia     = "socialMedia"
	FieldCurrentActivity = "currentActivity"
)

// ApplicantProfile holds the applicant's personal data. Age is numeric text.
type ApplicantProfile struct {
	FullName        string `json:"fullName"`
	Age             string `json:"age"`
	DNI             string `json:"dni"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	SocialMedia     string `json:"socialMedia"`
	CurrentActivity string `json:"currentActivity"`
}

// Category identifies one of the two interview question lists
type Category string

const (
	CategoryCustomerService Category = "customerService"
	CategorySalesAptitude   Category = "salesAptitude"
)

// QuestionSet is immutable once fetched; its lengths define the answer shape.
type QuestionSet struct {
	CustomerService []string `json:"customerService"`
	SalesAptitude   []string `json:"salesAptitude"`
}

// Questions returns the list for a category (nil for unknown categories)
func (q QuestionSet) Questions(c Category) []string {
	switch c {
	case CategoryCustomerService:
		return q.CustomerService
	case CategorySalesAptitude:
		return q.SalesAptitude
	}
	return nil
}

// AnswerState is positionally aligned with the QuestionSet
type AnswerState struct {
	CustomerService []string `json:"customerService"`
	SalesAptitude   []string `json:"salesAptitude"`
	Motivation      string   `json:"motivation"`
}

// Attachment is the selected résumé file
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

// Section names for the collapsible parts of the form
type Section string

const (
	SectionCustomerService Section = "customerService"
	SectionSalesAptitude   Section = "salesAptitude"
	SectionMotivation      Section = "motivation"
	SectionCV              Section = "cv"
)

// Submission status constants
const (
	SubmissionIdle      = "idle"
	SubmissionInFlight  = "in_flight"
	SubmissionSucceeded = "succeeded"
	SubmissionFailed    = "failed"
)

// SubmissionResult: idle → in_flight → succeeded | failed(message); failed → idle
type SubmissionResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`

	// StartedAt is set while in_flight
	StartedAt time.Time `json:"startedAt,omitzero"`
}

// Application is one applicant session. It is never persisted beyond its TTL.
type Application struct {
	ID         string    `json:"id"`
	CVRequired bool      `json:"cvRequired"`
	State      FormState `json:"state"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ApplicationRepository stores sessions. GetByID returns (nil, nil) when
// missing; Update returns ErrApplicationNotFound for expired sessions.
type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	Update(ctx context.Context, app *Application) error
	Delete(ctx context.Context, id string) error
}

// QuestionProvider always resolves to a usable QuestionSet
type QuestionProvider interface {
	Fetch(ctx context.Context) QuestionSet
}

// Submitter sends a completed application to the external submission endpoint.
// cv may be nil, in which case the record is sent as a JSON body.
type Submitter interface {
	Submit(ctx context.Context, record SubmissionRecord, cv *Attachment) error
}

// Clipboard copies text for the applicant (share link)
type Clipboard interface {
	WriteText(text string) error
}

// ApplicationUsecase drives one applicant session from start to confirmation
type ApplicationUsecase interface {
	Start(ctx context.Context) (*Application, error)
	Get(ctx context.Context, id string) (*Application, error)

	// Form state operations
	SetField(ctx context.Context, id, name, value string) (*Application, error)
	SetAnswer(ctx context.Context, id string, category Category, index int, value string) (*Application, error)
	SetMotivation(ctx context.Context, id, value string) (*Application, error)
	SetAttachment(ctx context.Context, id string, file Attachment) (*Application, error)
	ClearAttachment(ctx context.Context, id string) (*Application, error)
	ToggleSection(ctx context.Context, id string, section Section) (*Application, error)

	// Submission and post-submission
	Submit(ctx context.Context, id string) (*Application, error)
	DismissError(ctx context.Context, id string) (*Application, error)
	Confirmation(ctx context.Context, id string) (*Confirmation, error)
	Reset(ctx context.Context, id string) (*Application, error)
	Discard(ctx context.Context, id string) error
}
