package domain_test

import (
	"testing"

	"muzza-postulaciones/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeState(t *testing.T, cvRequired bool) domain.FormState {
	t.Helper()
	s := domain.NewFormState(cvRequired).SeedAnswers(sampleQuestions())
	var err error
	for name, value := range map[string]string{
		domain.FieldFullName: "Ana Pérez",
		domain.FieldAge:      "25",
		domain.FieldDNI:      "12345678",
		domain.FieldPhone:    "999888777",
		domain.FieldAddress:  "Lince",
	} {
		s, err = s.SetField(name, value)
		require.NoError(t, err)
	}
	s, err = s.SetAnswer(domain.CategoryCustomerService, 0, "a")
	require.NoError(t, err)
	s, err = s.SetAnswer(domain.CategoryCustomerService, 1, "b")
	require.NoError(t, err)
	s, err = s.SetAnswer(domain.CategorySalesAptitude, 0, "c")
	require.NoError(t, err)
	s, err = s.SetMotivation("because")
	require.NoError(t, err)
	return s
}

func TestIsReady(t *testing.T) {
	t.Run("Should be ready when everything is filled", func(t *testing.T) {
		s := completeState(t, false)
		assert.True(t, domain.IsReady(s, false))
		assert.Empty(t, domain.MissingItems(s, false))
	})

	t.Run("Should not be ready with any required field empty", func(t *testing.T) {
		for _, field := range []string{domain.FieldFullName, domain.FieldAge, domain.FieldDNI, domain.FieldPhone, domain.FieldAddress} {
			s, err := completeState(t, false).SetField(field, "")
			require.NoError(t, err)
			assert.False(t, domain.IsReady(s, false), field)
			assert.Equal(t, []string{field}, domain.MissingItems(s, false))
		}
	})

	t.Run("Should ignore optional profile fields", func(t *testing.T) {
		s, _ := completeState(t, false).SetField(domain.FieldSocialMedia, "")
		s, _ = s.SetField(domain.FieldCurrentActivity, "")
		assert.True(t, domain.IsReady(s, false))
	})

	t.Run("Should reject whitespace-only answers", func(t *testing.T) {
		s, _ := completeState(t, false).SetAnswer(domain.CategorySalesAptitude, 0, "   ")
		assert.False(t, domain.IsReady(s, false))
		assert.Equal(t, []string{"salesAptitude[0]"}, domain.MissingItems(s, false))
	})

	t.Run("Should reject blank motivation", func(t *testing.T) {
		s, _ := completeState(t, false).SetMotivation("\n\t ")
		assert.False(t, domain.IsReady(s, false))
		assert.Equal(t, []string{domain.MissingMotivation}, domain.MissingItems(s, false))
	})

	t.Run("Should not be ready before questions are loaded", func(t *testing.T) {
		s := completeState(t, false)
		s.Questions = nil
		assert.False(t, domain.IsReady(s, false))
		assert.Contains(t, domain.MissingItems(s, false), domain.MissingQuestions)
	})

	t.Run("Should treat a missing answer slot as absent", func(t *testing.T) {
		s := completeState(t, false)
		s.Answers.CustomerService = s.Answers.CustomerService[:1]
		assert.Equal(t, []string{"customerService[1]"}, domain.MissingItems(s, false))
	})

	t.Run("Should require the resume only in the resume variant", func(t *testing.T) {
		s := completeState(t, true)
		assert.False(t, domain.IsReady(s, true))
		assert.Equal(t, []string{domain.MissingCV}, domain.MissingItems(s, true))

		withCV, err := s.SetAttachment(domain.Attachment{Filename: "cv.pdf", Data: []byte("%PDF")})
		require.NoError(t, err)
		assert.True(t, domain.IsReady(withCV, true))
	})

	t.Run("Should return identical results for identical inputs", func(t *testing.T) {
		s, _ := completeState(t, false).SetField(domain.FieldDNI, "")
		first := domain.MissingItems(s, false)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, domain.MissingItems(s, false))
		}
	})
}
