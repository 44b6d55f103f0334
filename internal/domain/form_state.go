package domain

import (
	"errors"
	"time"
)

var (
	ErrUnknownField       = errors.New("unknown profile field")
	ErrUnknownCategory    = errors.New("unknown question category")
	ErrAnswerOutOfRange   = errors.New("answer index out of range")
	ErrUnknownSection     = errors.New("unknown section")
	ErrQuestionsNotLoaded = errors.New("questions not loaded")
	ErrAlreadySubmitted   = errors.New("application already submitted")
	ErrSubmitInFlight     = errors.New("submission already in progress")
	ErrNothingToDismiss   = errors.New("no failed submission to dismiss")
	ErrNotSubmitted       = errors.New("application not submitted")
)

// FormState is an immutable snapshot of one session's form. Every operation
// returns a new snapshot; slices and maps are never shared between snapshots.
type FormState struct {
	Profile    ApplicantProfile `json:"profile"`
	Questions  *QuestionSet     `json:"questions,omitempty"`
	Answers    AnswerState      `json:"answers"`
	Attachment *Attachment      `json:"attachment,omitempty"`
	Sections   map[Section]bool `json:"sections"`
	Result     SubmissionResult `json:"result"`
}

// NewFormState returns the initial, empty form. The cv section only exists
// in the résumé variant.
func NewFormState(cvRequired bool) FormState {
	sections := map[Section]bool{
		SectionCustomerService: false,
		SectionSalesAptitude:   false,
		SectionMotivation:      false,
	}
	if cvRequired {
		sections[SectionCV] = false
	}
	return FormState{
		Answers: AnswerState{
			CustomerService: []string{},
			SalesAptitude:   []string{},
		},
		Sections: sections,
		Result:   SubmissionResult{Status: SubmissionIdle},
	}
}

func (s FormState) clone() FormState {
	out := s
	out.Answers.CustomerService = append([]string(nil), s.Answers.CustomerService...)
	out.Answers.SalesAptitude = append([]string(nil), s.Answers.SalesAptitude...)
	out.Sections = make(map[Section]bool, len(s.Sections))
	for k, v := range s.Sections {
		out.Sections[k] = v
	}
	if s.Questions != nil {
		q := QuestionSet{
			CustomerService: append([]string(nil), s.Questions.CustomerService...),
			SalesAptitude:   append([]string(nil), s.Questions.SalesAptitude...),
		}
		out.Questions = &q
	}
	if s.Attachment != nil {
		a := *s.Attachment
		a.Data = append([]byte(nil), s.Attachment.Data...)
		out.Attachment = &a
	}
	return out
}

func (s FormState) editable() error {
	if s.Result.Status == SubmissionSucceeded {
		return ErrAlreadySubmitted
	}
	return nil
}

// SetField replaces one scalar profile attribute
func (s FormState) SetField(name, value string) (FormState, error) {
	if err := s.editable(); err != nil {
		return s, err
	}
	out := s.clone()
	switch name {
	case FieldFullName:
		out.Profile.FullName = value
	case FieldAge:
		out.Profile.Age = value
	case FieldDNI:
		out.Profile.DNI = value
	case FieldPhone:
		out.Profile.Phone = value
	case FieldAddress:
		out.Profile.Address = value
	case FieldSocialMedia:
		out.Profile.SocialMedia = value
	case FieldCurrentActivity:
		out.Profile.CurrentActivity = value
	default:
		return s, ErrUnknownField
	}
	return out, nil
}

// SetAnswer replaces one answer. The index must address an existing slot.
func (s FormState) SetAnswer(category Category, index int, value string) (FormState, error) {
	if err := s.editable(); err != nil {
		return s, err
	}
	if s.Questions == nil {
		return s, ErrQuestionsNotLoaded
	}
	out := s.clone()
	var answers []string
	switch category {
	case CategoryCustomerService:
		answers = out.Answers.CustomerService
	case CategorySalesAptitude:
		answers = out.Answers.SalesAptitude
	default:
		return s, ErrUnknownCategory
	}
	if index < 0 || index >= len(answers) {
		return s, ErrAnswerOutOfRange
	}
	answers[index] = value
	return out, nil
}

// SetMotivation replaces the motivation text
func (s FormState) SetMotivation(value string) (FormState, error) {
	if err := s.editable(); err != nil {
		return s, err
	}
	out := s.clone()
	out.Answers.Motivation = value
	return out, nil
}

// SetAttachment replaces the selected résumé (last write wins)
func (s FormState) SetAttachment(file Attachment) (FormState, error) {
	if err := s.editable(); err != nil {
		return s, err
	}
	out := s.clone()
	file.Data = append([]byte(nil), file.Data...)
	out.Attachment = &file
	return out, nil
}

// ClearAttachment removes the selected résumé
func (s FormState) ClearAttachment() (FormState, error) {
	if err := s.editable(); err != nil {
		return s, err
	}
	out := s.clone()
	out.Attachment = nil
	return out, nil
}

// ToggleSection flips one section's open flag
func (s FormState) ToggleSection(section Section) (FormState, error) {
	if _, ok := s.Sections[section]; !ok {
		return s, ErrUnknownSection
	}
	out := s.clone()
	out.Sections[section] = !out.Sections[section]
	return out, nil
}

// SeedAnswers stores the question set and re-derives both answer lists from
// its lengths, filled with empty strings. Motivation is preserved.
func (s FormState) SeedAnswers(q QuestionSet) FormState {
	out := s.clone()
	out.Questions = &QuestionSet{
		CustomerService: append([]string(nil), q.CustomerService...),
		SalesAptitude:   append([]string(nil), q.SalesAptitude...),
	}
	out.Answers.CustomerService = make([]string, len(q.CustomerService))
	out.Answers.SalesAptitude = make([]string, len(q.SalesAptitude))
	return out
}

// BeginSubmission moves idle or failed to in_flight, stamped with now
func (s FormState) BeginSubmission(now time.Time) (FormState, error) {
	switch s.Result.Status {
	case SubmissionInFlight:
		return s, ErrSubmitInFlight
	case SubmissionSucceeded:
		return s, ErrAlreadySubmitted
	}
	out := s.clone()
	out.Result = SubmissionResult{Status: SubmissionInFlight, StartedAt: now}
	return out, nil
}

// CompleteSubmission records the outcome of an in-flight submission.
// An empty message means success.
func (s FormState) CompleteSubmission(failure string) FormState {
	out := s.clone()
	if failure == "" {
		out.Result = SubmissionResult{Status: SubmissionSucceeded}
	} else {
		out.Result = SubmissionResult{Status: SubmissionFailed, Message: failure}
	}
	return out
}

// ExpireInFlight turns an in_flight result older than maxAge into failed.
// An outcome that was never recorded must not lock the session for good.
func (s FormState) ExpireInFlight(now time.Time, maxAge time.Duration, failure string) FormState {
	if s.Result.Status != SubmissionInFlight || now.Sub(s.Result.StartedAt) < maxAge {
		return s
	}
	out := s.clone()
	out.Result = SubmissionResult{Status: SubmissionFailed, Message: failure}
	return out
}

// DismissFailure moves failed back to idle so the user can retry
func (s FormState) DismissFailure() (FormState, error) {
	if s.Result.Status != SubmissionFailed {
		return s, ErrNothingToDismiss
	}
	out := s.clone()
	out.Result = SubmissionResult{Status: SubmissionIdle}
	return out, nil
}
