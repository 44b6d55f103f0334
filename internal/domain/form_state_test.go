package domain_test

import (
	"testing"
	"time"

	"muzza-postulaciones/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestions() domain.QuestionSet {
	return domain.QuestionSet{
		CustomerService: []string{"Q1", "Q2"},
		SalesAptitude:   []string{"Q3"},
	}
}

func TestSeedAnswers(t *testing.T) {
	t.Run("Should size answers to the question counts", func(t *testing.T) {
		for _, tc := range []struct{ c, s int }{{0, 0}, {1, 0}, {3, 3}, {5, 2}} {
			q := domain.QuestionSet{
				CustomerService: make([]string, tc.c),
				SalesAptitude:   make([]string, tc.s),
			}
			state := domain.NewFormState(false).SeedAnswers(q)
			require.Len(t, state.Answers.CustomerService, tc.c)
			require.Len(t, state.Answers.SalesAptitude, tc.s)
			for _, a := range append(state.Answers.CustomerService, state.Answers.SalesAptitude...) {
				assert.Equal(t, "", a)
			}
		}
	})

	t.Run("Should preserve motivation and reset previous answers", func(t *testing.T) {
		state := domain.NewFormState(false).SeedAnswers(sampleQuestions())
		state, err := state.SetAnswer(domain.CategoryCustomerService, 0, "old")
		require.NoError(t, err)
		state, err = state.SetMotivation("because")
		require.NoError(t, err)

		reseeded := state.SeedAnswers(domain.QuestionSet{CustomerService: []string{"A"}, SalesAptitude: []string{"B", "C"}})
		assert.Equal(t, []string{""}, reseeded.Answers.CustomerService)
		assert.Equal(t, []string{"", ""}, reseeded.Answers.SalesAptitude)
		assert.Equal(t, "because", reseeded.Answers.Motivation)
	})
}

func TestFormStateImmutability(t *testing.T) {
	base := domain.NewFormState(true).SeedAnswers(sampleQuestions())

	t.Run("Should leave the previous snapshot untouched", func(t *testing.T) {
		next, err := base.SetAnswer(domain.CategorySalesAptitude, 0, "c")
		require.NoError(t, err)
		next, err = next.SetField(domain.FieldDNI, "12345678")
		require.NoError(t, err)
		next, err = next.ToggleSection(domain.SectionCV)
		require.NoError(t, err)

		assert.Equal(t, "", base.Answers.SalesAptitude[0])
		assert.Equal(t, "", base.Profile.DNI)
		assert.False(t, base.Sections[domain.SectionCV])
		assert.Equal(t, "c", next.Answers.SalesAptitude[0])
		assert.True(t, next.Sections[domain.SectionCV])
	})

	t.Run("Should copy attachment bytes", func(t *testing.T) {
		data := []byte("%PDF-1.4")
		next, err := base.SetAttachment(domain.Attachment{Filename: "cv.pdf", Data: data})
		require.NoError(t, err)
		data[0] = 'X'
		assert.Equal(t, byte('%'), next.Attachment.Data[0])
	})
}

func TestFormStateOperations(t *testing.T) {
	state := domain.NewFormState(false).SeedAnswers(sampleQuestions())

	t.Run("Should set every profile field", func(t *testing.T) {
		fields := map[string]string{
			domain.FieldFullName:        "Ana Pérez",
			domain.FieldAge:             "25",
			domain.FieldDNI:             "12345678",
			domain.FieldPhone:           "999888777",
			domain.FieldAddress:         "Jesús María",
			domain.FieldSocialMedia:     "https://instagram.com/ana",
			domain.FieldCurrentActivity: "Estudiante",
		}
		s := state
		var err error
		for k, v := range fields {
			s, err = s.SetField(k, v)
			require.NoError(t, err)
		}
		assert.Equal(t, domain.ApplicantProfile{
			FullName:        "Ana Pérez",
			Age:             "25",
			DNI:             "12345678",
			Phone:           "999888777",
			Address:         "Jesús María",
			SocialMedia:     "https://instagram.com/ana",
			CurrentActivity: "Estudiante",
		}, s.Profile)
	})

	t.Run("Should reject unknown field", func(t *testing.T) {
		_, err := state.SetField("salary", "1000")
		assert.ErrorIs(t, err, domain.ErrUnknownField)
	})

	t.Run("Should reject out of range answer index", func(t *testing.T) {
		_, err := state.SetAnswer(domain.CategorySalesAptitude, 1, "x")
		assert.ErrorIs(t, err, domain.ErrAnswerOutOfRange)
		_, err = state.SetAnswer(domain.CategoryCustomerService, -1, "x")
		assert.ErrorIs(t, err, domain.ErrAnswerOutOfRange)
	})

	t.Run("Should reject unknown category", func(t *testing.T) {
		_, err := state.SetAnswer(domain.Category("other"), 0, "x")
		assert.ErrorIs(t, err, domain.ErrUnknownCategory)
	})

	t.Run("Should reject answers before questions are loaded", func(t *testing.T) {
		_, err := domain.NewFormState(false).SetAnswer(domain.CategoryCustomerService, 0, "x")
		assert.ErrorIs(t, err, domain.ErrQuestionsNotLoaded)
	})

	t.Run("Should not know the cv section outside the resume variant", func(t *testing.T) {
		_, err := state.ToggleSection(domain.SectionCV)
		assert.ErrorIs(t, err, domain.ErrUnknownSection)
	})

	t.Run("Should toggle sections independently", func(t *testing.T) {
		s, err := state.ToggleSection(domain.SectionMotivation)
		require.NoError(t, err)
		s, err = s.ToggleSection(domain.SectionCustomerService)
		require.NoError(t, err)
		s, err = s.ToggleSection(domain.SectionMotivation)
		require.NoError(t, err)
		assert.False(t, s.Sections[domain.SectionMotivation])
		assert.True(t, s.Sections[domain.SectionCustomerService])
		assert.False(t, s.Sections[domain.SectionSalesAptitude])
	})

	t.Run("Should replace and clear the attachment", func(t *testing.T) {
		s, err := state.SetAttachment(domain.Attachment{Filename: "a.pdf"})
		require.NoError(t, err)
		s, err = s.SetAttachment(domain.Attachment{Filename: "b.pdf"})
		require.NoError(t, err)
		assert.Equal(t, "b.pdf", s.Attachment.Filename)
		s, err = s.ClearAttachment()
		require.NoError(t, err)
		assert.Nil(t, s.Attachment)
	})
}

func TestSubmissionTransitions(t *testing.T) {
	state := domain.NewFormState(false)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Should allow only one in-flight submission", func(t *testing.T) {
		inFlight, err := state.BeginSubmission(now)
		require.NoError(t, err)
		assert.Equal(t, domain.SubmissionInFlight, inFlight.Result.Status)

		assert.Equal(t, now, inFlight.Result.StartedAt)

		_, err = inFlight.BeginSubmission(now)
		assert.ErrorIs(t, err, domain.ErrSubmitInFlight)
	})

	t.Run("Should expire a stale in-flight submission into failed", func(t *testing.T) {
		inFlight, _ := state.BeginSubmission(now)

		fresh := inFlight.ExpireInFlight(now.Add(time.Minute), 2*time.Minute, "lost")
		assert.Equal(t, domain.SubmissionInFlight, fresh.Result.Status)

		stale := inFlight.ExpireInFlight(now.Add(2*time.Minute), 2*time.Minute, "lost")
		assert.Equal(t, domain.SubmissionResult{Status: domain.SubmissionFailed, Message: "lost"}, stale.Result)
		assert.Equal(t, domain.SubmissionInFlight, inFlight.Result.Status)

		retry, err := stale.BeginSubmission(now.Add(3 * time.Minute))
		require.NoError(t, err)
		assert.Equal(t, domain.SubmissionInFlight, retry.Result.Status)

		idle := state.ExpireInFlight(now.Add(time.Hour), time.Minute, "lost")
		assert.Equal(t, domain.SubmissionIdle, idle.Result.Status)
	})

	t.Run("Should make success terminal", func(t *testing.T) {
		inFlight, _ := state.BeginSubmission(now)
		done := inFlight.CompleteSubmission("")
		assert.Equal(t, domain.SubmissionSucceeded, done.Result.Status)

		_, err := done.BeginSubmission(now)
		assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
		_, err = done.SetField(domain.FieldDNI, "1")
		assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	})

	t.Run("Should allow retry and dismiss after failure", func(t *testing.T) {
		inFlight, _ := state.BeginSubmission(now)
		failed := inFlight.CompleteSubmission("boom")
		assert.Equal(t, domain.SubmissionResult{Status: domain.SubmissionFailed, Message: "boom"}, failed.Result)

		retry, err := failed.BeginSubmission(now)
		require.NoError(t, err)
		assert.Equal(t, domain.SubmissionInFlight, retry.Result.Status)

		idle, err := failed.DismissFailure()
		require.NoError(t, err)
		assert.Equal(t, domain.SubmissionIdle, idle.Result.Status)

		_, err = idle.DismissFailure()
		assert.ErrorIs(t, err, domain.ErrNothingToDismiss)
	})
}

func TestBuildSubmissionRecord(t *testing.T) {
	state := domain.NewFormState(false).SeedAnswers(sampleQuestions())
	state, _ = state.SetField(domain.FieldFullName, "Ana")
	state, _ = state.SetAnswer(domain.CategoryCustomerService, 0, "a")
	state, _ = state.SetAnswer(domain.CategoryCustomerService, 1, "b")
	state, _ = state.SetAnswer(domain.CategorySalesAptitude, 0, "c")
	state, _ = state.SetMotivation("because")

	record := domain.BuildSubmissionRecord(state)

	assert.Equal(t, "Ana", record.FullName)
	assert.Equal(t, "because", record.Answers.Motivation)
	assert.Equal(t, []domain.QuestionAnswer{{Question: "Q1", Answer: "a"}, {Question: "Q2", Answer: "b"}}, record.Questions.CustomerService)
	assert.Equal(t, []domain.QuestionAnswer{{Question: "Q3", Answer: "c"}}, record.Questions.SalesAptitude)
}
