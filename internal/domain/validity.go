package domain

import (
	"fmt"
	"strings"
)

// Missing item keys reported by MissingItems
const (
	MissingQuestions  = "questions"
	MissingMotivation = "motivation"
	MissingCV         = "cv"
)

// IsReady reports whether the form may be submitted. It is a pure function
// of its inputs.
func IsReady(state FormState, cvRequired bool) bool {
	return len(MissingItems(state, cvRequired)) == 0
}

// MissingItems lists what keeps the form from being ready: required profile
// field names, "cv", "questions", "{category}[{index}]" for blank answers,
// and "motivation". Profile fields only need to be non-empty; answers and
// motivation must be non-blank after trimming.
func MissingItems(state FormState, cvRequired bool) []string {
	var missing []string

	p := state.Profile
	required := []struct {
		name  string
		value string
	}{
		{FieldFullName, p.FullName},
		{FieldAge, p.Age},
		{FieldDNI, p.DNI},
		{FieldPhone, p.Phone},
		{FieldAddress, p.Address},
	}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}

	if cvRequired && state.Attachment == nil {
		missing = append(missing, MissingCV)
	}

	if state.Questions == nil {
		missing = append(missing, MissingQuestions)
	} else {
		missing = append(missing, blankAnswers(CategoryCustomerService, state.Questions.CustomerService, state.Answers.CustomerService)...)
		missing = append(missing, blankAnswers(CategorySalesAptitude, state.Questions.SalesAptitude, state.Answers.SalesAptitude)...)
	}

	if strings.TrimSpace(state.Answers.Motivation) == "" {
		missing = append(missing, MissingMotivation)
	}

	return missing
}

// blankAnswers walks the question list so a short answer list counts as absent
func blankAnswers(category Category, questions, answers []string) []string {
	var out []string
	for i := range questions {
		if i >= len(answers) || strings.TrimSpace(answers[i]) == "" {
			out = append(out, fmt.Sprintf("%s[%d]", category, i))
		}
	}
	return out
}
