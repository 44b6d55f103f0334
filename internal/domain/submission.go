package domain

// QuestionAnswer joins one question with the applicant's answer
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AnsweredQuestions groups the joined records per category
type AnsweredQuestions struct {
	CustomerService []QuestionAnswer `json:"customerService"`
	SalesAptitude   []QuestionAnswer `json:"salesAptitude"`
}

// SubmissionRecord is the structured payload sent to the submission endpoint.
// Profile fields are flattened at the top level.
type SubmissionRecord struct {
	ApplicantProfile
	Answers   AnswerState       `json:"answers"`
	Questions AnsweredQuestions `json:"questions"`
}

// BuildSubmissionRecord joins every question positionally with its answer
func BuildSubmissionRecord(state FormState) SubmissionRecord {
	record := SubmissionRecord{
		ApplicantProfile: state.Profile,
		Answers: AnswerState{
			CustomerService: append([]string{}, state.Answers.CustomerService...),
			SalesAptitude:   append([]string{}, state.Answers.SalesAptitude...),
			Motivation:      state.Answers.Motivation,
		},
		Questions: AnsweredQuestions{
			CustomerService: []QuestionAnswer{},
			SalesAptitude:   []QuestionAnswer{},
		},
	}
	if state.Questions == nil {
		return record
	}
	record.Questions.CustomerService = joinAnswers(state.Questions.CustomerService, state.Answers.CustomerService)
	record.Questions.SalesAptitude = joinAnswers(state.Questions.SalesAptitude, state.Answers.SalesAptitude)
	return record
}

func joinAnswers(questions, answers []string) []QuestionAnswer {
	out := make([]QuestionAnswer, len(questions))
	for i, q := range questions {
		out[i].Question = q
		if i < len(answers) {
			out[i].Answer = answers[i]
		}
	}
	return out
}

// Confirmation variants
const (
	ConfirmationEmailCV = "email_cv"
	ConfirmationUpload  = "upload"
)

// Confirmation is the view shown once a submission succeeded
type Confirmation struct {
	Variant        string `json:"variant"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	ContactEmail   string `json:"contactEmail,omitempty"`
	EmailSubject   string `json:"emailSubject,omitempty"`
	MailtoLink     string `json:"mailtoLink,omitempty"`
	ShareURL       string `json:"shareUrl,omitempty"`
	CopyLinkResult string `json:"copyLinkResult,omitempty"`
	CanSubmitAgain bool   `json:"canSubmitAgain"`
}
