package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"muzza-postulaciones/internal/domain"
	"muzza-postulaciones/pkg/apperror"
	"muzza-postulaciones/pkg/formspree"
	"muzza-postulaciones/pkg/logger"
	"muzza-postulaciones/pkg/security"
	"muzza-postulaciones/pkg/security/antivirus"
	"muzza-postulaciones/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// User-facing prompts
const (
	BlockingPrompt        = "Por favor, completa todos los campos requeridos."
	SubmitStatusFailure   = "Hubo un problema al enviar tu postulación."
	SubmitNetworkFailure  = "No se pudo enviar el formulario. Inténtalo de nuevo."
	submitRetryableDetail = "retryable"
)

const (
	defaultInFlightTimeout = 2 * time.Minute
	outcomeWriteAttempts   = 3
	outcomeWriteTimeout    = 5 * time.Second
)

// ApplicationConfig selects the form variant and post-submission details
type ApplicationConfig struct {
	CVRequired   bool
	CVMaxBytes   int64
	ContactEmail string
	ShareURL     string

	// InFlightTimeout bounds how long a submission may stay in flight before
	// it is treated as failed; zero means two minutes
	InFlightTimeout time.Duration

	// Scanner checks résumés for malware; nil disables scanning
	Scanner antivirus.Scanner
}

type applicationUsecase struct {
	repo      domain.ApplicationRepository
	questions domain.QuestionProvider
	submitter domain.Submitter
	clipboard domain.Clipboard
	validate  *validator.Validate
	cfg       ApplicationConfig
	locks     *sessionLocks
	now       func() time.Time
}

// NewApplicationUsecase wires the session workflow. clipboard may be nil,
// in which case the confirmation asks the applicant to copy the link by hand.
func NewApplicationUsecase(
	repo domain.ApplicationRepository,
	questions domain.QuestionProvider,
	submitter domain.Submitter,
	clipboard domain.Clipboard,
	validate *validator.Validate,
	cfg ApplicationConfig,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		repo:      repo,
		questions: questions,
		submitter: submitter,
		clipboard: clipboard,
		validate:  validate,
		cfg:       cfg,
		locks:     newSessionLocks(),
		now:       time.Now,
	}
}

// Start creates a session, fetches the questions and seeds the answer slots
func (u *applicationUsecase) Start(ctx context.Context) (*domain.Application, error) {
	now := u.now()
	app := &domain.Application{
		ID:         uuid.NewString(),
		CVRequired: u.cfg.CVRequired,
		State:      domain.NewFormState(u.cfg.CVRequired).SeedAnswers(u.questions.Fetch(ctx)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := u.repo.Create(ctx, app); err != nil {
		return nil, apperror.Internal(err)
	}
	logger.Log.Info("Application session started", "application_id", app.ID, "cv_required", app.CVRequired)
	return app, nil
}

func (u *applicationUsecase) Get(ctx context.Context, id string) (*domain.Application, error) {
	return u.load(ctx, id)
}

func (u *applicationUsecase) SetField(ctx context.Context, id, name, value string) (*domain.Application, error) {
	if msgs := validation.ValidateFormValue(u.validate, name, value); len(msgs) > 0 {
		return nil, apperror.BadRequest(strings.Join(msgs, "; "))
	}
	return u.mutate(ctx, id, func(s domain.FormState) (domain.FormState, error) {
		return s.SetField(name, value)
	})
}

func (u *applicationUsecase) SetAnswer(ctx context.Context, id string, category domain.Category, index int, value string) (*domain.Application, error) {
	if msgs := validation.ValidateFormValue(u.validate, "answer", value); len(msgs) > 0 {
		return nil, apperror.BadRequest(strings.Join(msgs, "; "))
	}
	return u.mutate(ctx, id, func(s domain.FormState) (domain.FormState, error) {
		return s.SetAnswer(category, index, value)
	})
}

func (u *applicationUsecase) SetMotivation(ctx context.Context, id, value string) (*domain.Application, error) {
	if msgs := validation.ValidateFormValue(u.validate, "motivation", value); len(msgs) > 0 {
		return nil, apperror.BadRequest(strings.Join(msgs, "; "))
	}
	return u.mutate(ctx, id, func(s domain.FormState) (domain.FormState, error) {
		return s.SetMotivation(value)
	})
}

func (u *applicationUsecase) SetAttachment(ctx context.Context, id string, file domain.Attachment) (*domain.Application, error) {
	result := security.ValidateResume(file.Filename, file.Data, u.cfg.CVMaxBytes)
	if !result.Valid {
		return nil, apperror.BadRequest("CV: " + result.Error)
	}
	file.ContentType = result.DetectedMIME

	if u.cfg.Scanner != nil {
		scan := u.cfg.Scanner.Scan(ctx, file.Filename, file.Data)
		if scan.Error != nil {
			logger.Log.Error("Resume scan failed", "application_id", id, "scanner", scan.ScannerName, "error", scan.Error)
			return nil, apperror.New(http.StatusServiceUnavailable, "CV: no se pudo verificar el archivo. Inténtalo de nuevo.", scan.Error)
		}
		if scan.Infected {
			logger.Log.Warn("Resume rejected by scanner", "application_id", id, "scanner", scan.ScannerName, "threat", scan.ThreatName)
			return nil, apperror.BadRequest("CV: el archivo fue rechazado por seguridad")
		}
	}
	return u.mutate(ctx, id, func(s domain.FormState) (domain.FormState, error) {
		return s.SetAttachment(file)
	})
}

func (u *applicationUsecase) ClearAttachment(ctx context.Context, id string) (*domain.Application, error) {
	return u.mutate(ctx, id, domain.FormState.ClearAttachment)
}

func (u *applicationUsecase) ToggleSection(ctx context.Context, id string, section domain.Section) (*domain.Application, error) {
	return u.mutate(ctx, id, func(s domain.FormState) (domain.FormState, error) {
		return s.ToggleSection(section)
	})
}

// Submit re-validates, marks the session in flight, sends exactly one request
// and records the outcome. Edits made while the request is in flight are kept.
func (u *applicationUsecase) Submit(ctx context.Context, id string) (*domain.Application, error) {
	unlock := u.locks.lock(id)
	app, err := u.load(ctx, id)
	if err != nil {
		unlock()
		return nil, err
	}
	app.State = app.State.ExpireInFlight(u.now(), u.inFlightTimeout(), SubmitNetworkFailure)
	inFlight, err := app.State.BeginSubmission(u.now())
	if err != nil {
		unlock()
		return nil, mapStateError(err)
	}
	if missing := domain.MissingItems(app.State, app.CVRequired); len(missing) > 0 {
		unlock()
		return nil, apperror.Unprocessable(BlockingPrompt).WithDetails(map[string]any{
			"missing": validation.Labels(missing),
		})
	}
	snapshot := app.State
	app.State = inFlight
	app.UpdatedAt = u.now()
	if err := u.repo.Update(ctx, app); err != nil {
		unlock()
		return nil, mapRepoError(err)
	}
	sent := *app
	unlock()

	// The request is not cancelled when the caller goes away
	sendErr := u.submitter.Submit(context.WithoutCancel(ctx), domain.BuildSubmissionRecord(snapshot), snapshot.Attachment)

	failure := ""
	if sendErr != nil {
		failure = SubmitNetworkFailure
		var statusErr *formspree.StatusError
		if errors.As(sendErr, &statusErr) {
			failure = SubmitStatusFailure
			logger.Log.Error("Submission rejected", "application_id", id, "status", statusErr.StatusCode, "body", statusErr.Body)
		} else {
			logger.Log.Error("Submission failed", "application_id", id, "error", sendErr)
		}
	}

	app, err = u.recordOutcome(ctx, id, failure)
	if err != nil {
		// The stored state stays in flight until ExpireInFlight releases it
		logger.Log.Error("Submission outcome not stored", "application_id", id, "sent", sendErr == nil, "error", err)
		sent.State = sent.State.CompleteSubmission(failure)
		app = &sent
	}

	if sendErr != nil {
		return app, apperror.BadGateway(failure, sendErr).WithDetails(map[string]any{
			"status":              domain.SubmissionFailed,
			submitRetryableDetail: true,
		})
	}
	logger.Log.Info("Application submitted", "application_id", id, "with_cv", snapshot.Attachment != nil)
	return app, nil
}

func (u *applicationUsecase) DismissError(ctx context.Context, id string) (*domain.Application, error) {
	return u.mutate(ctx, id, domain.FormState.DismissFailure)
}

// Confirmation returns the post-submission view; only valid after success
func (u *applicationUsecase) Confirmation(ctx context.Context, id string) (*domain.Confirmation, error) {
	app, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.State.Result.Status != domain.SubmissionSucceeded {
		return nil, mapStateError(domain.ErrNotSubmitted)
	}
	return buildConfirmation(app.State, u.cfg, u.clipboard), nil
}

// Reset returns the session to its initial state and fetches new questions
func (u *applicationUsecase) Reset(ctx context.Context, id string) (*domain.Application, error) {
	unlock := u.locks.lock(id)
	defer unlock()

	app, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	state := app.State.ExpireInFlight(u.now(), u.inFlightTimeout(), SubmitNetworkFailure)
	if state.Result.Status == domain.SubmissionInFlight {
		return nil, mapStateError(domain.ErrSubmitInFlight)
	}
	app.State = domain.NewFormState(app.CVRequired).SeedAnswers(u.questions.Fetch(ctx))
	app.UpdatedAt = u.now()
	if err := u.repo.Update(ctx, app); err != nil {
		return nil, mapRepoError(err)
	}
	logger.Log.Info("Application session reset", "application_id", id)
	return app, nil
}

// Discard deletes the session and everything the applicant entered
func (u *applicationUsecase) Discard(ctx context.Context, id string) error {
	unlock := u.locks.lock(id)
	defer unlock()

	app, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	state := app.State.ExpireInFlight(u.now(), u.inFlightTimeout(), SubmitNetworkFailure)
	if state.Result.Status == domain.SubmissionInFlight {
		return mapStateError(domain.ErrSubmitInFlight)
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return apperror.Internal(err)
	}
	logger.Log.Info("Application session discarded", "application_id", id)
	return nil
}

// recordOutcome stores the submission result. It runs after the request was
// sent, so it ignores caller cancellation and retries transient store errors.
func (u *applicationUsecase) recordOutcome(ctx context.Context, id, failure string) (*domain.Application, error) {
	var err error
	for attempt := 1; attempt <= outcomeWriteAttempts; attempt++ {
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), outcomeWriteTimeout)
		var app *domain.Application
		app, err = u.mutate(writeCtx, id, func(s domain.FormState) (domain.FormState, error) {
			return s.CompleteSubmission(failure), nil
		})
		cancel()
		if err == nil {
			return app, nil
		}
		logger.Log.Warn("Recording submission outcome failed", "application_id", id, "attempt", attempt, "error", err)
		if attempt < outcomeWriteAttempts {
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		}
	}
	return nil, err
}

func (u *applicationUsecase) inFlightTimeout() time.Duration {
	if u.cfg.InFlightTimeout > 0 {
		return u.cfg.InFlightTimeout
	}
	return defaultInFlightTimeout
}

// mutate applies fn to the current snapshot under the session lock
func (u *applicationUsecase) mutate(ctx context.Context, id string, fn func(domain.FormState) (domain.FormState, error)) (*domain.Application, error) {
	unlock := u.locks.lock(id)
	defer unlock()

	app, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := fn(app.State)
	if err != nil {
		return nil, mapStateError(err)
	}
	app.State = next
	app.UpdatedAt = u.now()
	if err := u.repo.Update(ctx, app); err != nil {
		return nil, mapRepoError(err)
	}
	return app, nil
}

func (u *applicationUsecase) load(ctx context.Context, id string) (*domain.Application, error) {
	app, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if app == nil {
		return nil, apperror.NotFound("Application not found or expired")
	}
	return app, nil
}

func mapRepoError(err error) error {
	if errors.Is(err, domain.ErrApplicationNotFound) {
		return apperror.NotFound("Application not found or expired")
	}
	return apperror.Internal(err)
}

func mapStateError(err error) error {
	switch {
	case errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrUnknownCategory),
		errors.Is(err, domain.ErrAnswerOutOfRange),
		errors.Is(err, domain.ErrUnknownSection),
		errors.Is(err, domain.ErrQuestionsNotLoaded):
		return apperror.New(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, domain.ErrAlreadySubmitted),
		errors.Is(err, domain.ErrSubmitInFlight),
		errors.Is(err, domain.ErrNothingToDismiss),
		errors.Is(err, domain.ErrNotSubmitted):
		return apperror.Conflict(err.Error(), err)
	}
	return apperror.Internal(err)
}
