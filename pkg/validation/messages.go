package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps form keys to the labels shown in the form
var FieldLabels = map[string]string{
	"fullName":        "Nombres y Apellidos",
	"age":             "Edad",
	"dni":             "DNI",
	"phone":           "Celular",
	"address":         "Distrito de Vivienda",
	"socialMedia":     "Redes Sociales",
	"currentActivity": "Actividad Actual",
	"motivation":      "¿Por qué eres la mejor para el puesto?",
	"answer":          "Respuesta",
	"cv":              "CV",
	"questions":       "Preguntas de la entrevista",
}

var categoryLabels = map[string]string{
	"customerService": "Experiencia en Atención al Cliente",
	"salesAptitude":   "Actitud y Aptitud para Ventas",
}

// FieldRules holds the per-value rules applied when a form value is set
var FieldRules = map[string]string{
	"fullName":        "max=150",
	"age":             "valid_age",
	"dni":             "max=20",
	"phone":           "max=30",
	"address":         "max=200",
	"socialMedia":     "max=300",
	"currentActivity": "max=1000",
	"motivation":      "max=5000",
	"answer":          "max=5000",
}

// ValidateFormValue checks one value against its rule and returns
// user-facing messages (nil when valid or when the key has no rule).
func ValidateFormValue(v *validator.Validate, key, value string) []string {
	rule, ok := FieldRules[key]
	if !ok {
		return nil
	}
	err := v.Var(value, rule)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, formatSingleError(Label(key), e))
	}
	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(label string, e validator.FieldError) string {
	switch e.Tag() {
	case "max":
		return fmt.Sprintf("%s: Máximo %s caracteres", label, e.Param())
	case "valid_age":
		return fmt.Sprintf("%s: Debe ser un número", label)
	default:
		return fmt.Sprintf("%s: Valor no válido (%s)", label, e.Tag())
	}
}

var answerKey = regexp.MustCompile(`^(\w+)\[(\d+)\]$`)

// Label returns the user-facing label for a form key. Answer keys such as
// "salesAptitude[0]" become "<section>, pregunta 1".
func Label(key string) string {
	if label, ok := FieldLabels[key]; ok {
		return label
	}
	if m := answerKey.FindStringSubmatch(key); m != nil {
		idx, _ := strconv.Atoi(m[2])
		section := m[1]
		if l, ok := categoryLabels[section]; ok {
			section = l
		}
		return fmt.Sprintf("%s, pregunta %d", section, idx+1)
	}
	return key
}

// Labels maps Label over keys
func Labels(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = Label(k)
	}
	return out
}
