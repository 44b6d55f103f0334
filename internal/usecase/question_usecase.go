package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"muzza-postulaciones/internal/domain"
	"muzza-postulaciones/pkg/gemini"
	"muzza-postulaciones/pkg/logger"
)

// QuestionGenerator is the generative text source (see gemini.Client)
type QuestionGenerator interface {
	IsConfigured() bool
	GenerateText(ctx context.Context, prompt string) (string, error)
}

const questionPrompt = "Genera %d preguntas para evaluar experiencia en atención al cliente y %d preguntas " +
	"para evaluar actitud/aptitud comercial. Devuélvelas en JSON con las claves customerService y " +
	"salesAptitude (arrays de strings). Responde solo con el JSON."

var errQuestionShape = errors.New("generated questions do not match the expected shape")

var fallbackQuestions = domain.QuestionSet{
	CustomerService: []string{
		"Cuéntanos una situación en la que hayas tenido que manejar a un cliente difícil. ¿Qué hiciste y cuál fue el resultado?",
		"¿Qué significa para ti brindar una atención al cliente excelente?",
		"¿Cómo te aseguras de entender bien lo que el cliente realmente necesita?",
	},
	SalesAptitude: []string{
		"Imagina que una clienta tiene dudas sobre hacerse un procedimiento de cejas. ¿Cómo la ayudarías a decidir?",
		"Cuando un cliente dice 'lo voy a pensar', ¿qué sueles responder?",
		"¿Qué te motiva a vender más allá de la comisión?",
	},
}

// FallbackQuestions returns a copy of the fixed question set
func FallbackQuestions() domain.QuestionSet {
	return domain.QuestionSet{
		CustomerService: append([]string(nil), fallbackQuestions.CustomerService...),
		SalesAptitude:   append([]string(nil), fallbackQuestions.SalesAptitude...),
	}
}

type questionProvider struct {
	generator       QuestionGenerator
	customerService int
	salesAptitude   int
}

// NewQuestionProvider asks generator for n customer-service and m
// sales-aptitude questions. A nil or unconfigured generator means the
// fallback set is used without any outbound request.
func NewQuestionProvider(generator QuestionGenerator, n, m int) domain.QuestionProvider {
	return &questionProvider{
		generator:       generator,
		customerService: n,
		salesAptitude:   m,
	}
}

// Fetch never fails: every error path resolves to the fallback set
func (p *questionProvider) Fetch(ctx context.Context) domain.QuestionSet {
	if p.generator == nil || !p.generator.IsConfigured() {
		logger.Log.Warn("GEMINI_API_KEY not configured, using default interview questions")
		return FallbackQuestions()
	}

	text, err := p.generator.GenerateText(ctx, fmt.Sprintf(questionPrompt, p.customerService, p.salesAptitude))
	if err != nil {
		var statusErr *gemini.StatusError
		if errors.As(err, &statusErr) {
			logger.Log.Error("Question generation failed", "status", statusErr.StatusCode, "body", statusErr.Body)
		} else {
			logger.Log.Error("Question generation failed", "error", err)
		}
		return FallbackQuestions()
	}

	questions, err := parseQuestions(text)
	if err != nil {
		logger.Log.Error("Generated questions could not be parsed", "error", err, "text", text)
		return FallbackQuestions()
	}
	return questions
}

// parseQuestions decodes model output into a QuestionSet. Both lists must be
// present and non-empty and every question non-blank.
func parseQuestions(text string) (domain.QuestionSet, error) {
	var raw struct {
		CustomerService []string `json:"customerService"`
		SalesAptitude   []string `json:"salesAptitude"`
	}
	if err := json.Unmarshal([]byte(gemini.StripFences(text)), &raw); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("decode questions: %w", err)
	}
	if len(raw.CustomerService) == 0 || len(raw.SalesAptitude) == 0 {
		return domain.QuestionSet{}, errQuestionShape
	}
	for _, q := range append(append([]string{}, raw.CustomerService...), raw.SalesAptitude...) {
		if strings.TrimSpace(q) == "" {
			return domain.QuestionSet{}, errQuestionShape
		}
	}
	return domain.QuestionSet{CustomerService: raw.CustomerService, SalesAptitude: raw.SalesAptitude}, nil
}
