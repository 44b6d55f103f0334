package validation_test

import (
	"strings"
	"testing"

	"muzza-postulaciones/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFormValue(t *testing.T) {
	v := validation.New()

	t.Run("Should accept numeric ages and empty values", func(t *testing.T) {
		assert.Nil(t, validation.ValidateFormValue(v, "age", "25"))
		assert.Nil(t, validation.ValidateFormValue(v, "age", ""))
	})

	t.Run("Should reject non numeric age", func(t *testing.T) {
		msgs := validation.ValidateFormValue(v, "age", "veinte")
		require.Len(t, msgs, 1)
		assert.Equal(t, "Edad: Debe ser un número", msgs[0])
	})

	t.Run("Should accept names as typed", func(t *testing.T) {
		for _, name := range []string{
			"María José Peña-O'Neill",
			"D’Angelo Pérez",
			"Juan Pérez, Jr.",
		} {
			assert.Nil(t, validation.ValidateFormValue(v, "fullName", name), name)
		}
	})

	t.Run("Should cap name length", func(t *testing.T) {
		msgs := validation.ValidateFormValue(v, "fullName", strings.Repeat("a", 151))
		require.Len(t, msgs, 1)
		assert.Equal(t, "Nombres y Apellidos: Máximo 150 caracteres", msgs[0])
	})

	t.Run("Should enforce max length", func(t *testing.T) {
		msgs := validation.ValidateFormValue(v, "answer", strings.Repeat("a", 5001))
		require.Len(t, msgs, 1)
		assert.Equal(t, "Respuesta: Máximo 5000 caracteres", msgs[0])
	})

	t.Run("Should ignore keys without rules", func(t *testing.T) {
		assert.Nil(t, validation.ValidateFormValue(v, "unknown", "anything"))
	})
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "DNI", validation.Label("dni"))
	assert.Equal(t, "Actitud y Aptitud para Ventas, pregunta 1", validation.Label("salesAptitude[0]"))
	assert.Equal(t, "Experiencia en Atención al Cliente, pregunta 3", validation.Label("customerService[2]"))
	assert.Equal(t, "other", validation.Label("other"))
	assert.Equal(t, []string{"CV", "Edad"}, validation.Labels([]string{"cv", "age"}))
}
