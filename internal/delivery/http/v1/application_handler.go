package v1

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"muzza-postulaciones/internal/delivery/http/middleware"
	"muzza-postulaciones/internal/delivery/http/response"
	"muzza-postulaciones/internal/domain"
	"muzza-postulaciones/pkg/apperror"
	"muzza-postulaciones/pkg/validation"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
	cvMaxBytes    int64
}

// ApplicationHandlerConfig holds the handler's limits and rate-limit settings
type ApplicationHandlerConfig struct {
	CVMaxBytes      int64
	SubmitLimit     int
	RateLimitWindow time.Duration
}

// NewApplicationHandler registers the application session routes (public)
func NewApplicationHandler(r *gin.RouterGroup, applicationUC domain.ApplicationUsecase, cfg ApplicationHandlerConfig) {
	handler := &ApplicationHandler{
		applicationUC: applicationUC,
		cvMaxBytes:    cfg.CVMaxBytes,
	}

	submitLimit := middleware.RateLimitMiddleware(middleware.SubmitRateLimitConfig(cfg.SubmitLimit, cfg.RateLimitWindow))
	uploadLimit := middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig(cfg.RateLimitWindow))

	applications := r.Group("/applications")
	{
		applications.POST("", handler.Start)
		applications.GET("/:id", handler.Get)
		applications.DELETE("/:id", handler.Discard)
		applications.PUT("/:id/fields/:name", handler.SetField)
		applications.PUT("/:id/answers/:category/:index", handler.SetAnswer)
		applications.PUT("/:id/motivation", handler.SetMotivation)
		applications.PUT("/:id/cv", uploadLimit, handler.UploadCV)
		applications.DELETE("/:id/cv", handler.ClearCV)
		applications.POST("/:id/sections/:name/toggle", handler.ToggleSection)
		applications.POST("/:id/submit", submitLimit, handler.Submit)
		applications.POST("/:id/dismiss", handler.DismissError)
		applications.GET("/:id/confirmation", handler.Confirmation)
		applications.POST("/:id/reset", handler.Reset)
	}
}

// ValueRequest carries a single text value. An empty string clears it.
type ValueRequest struct {
	Value *string `json:"value" binding:"required"`
}

// AttachmentView describes the selected résumé without its content
type AttachmentView struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

// ApplicationView is the session snapshot returned to clients
type ApplicationView struct {
	ID         string                  `json:"id"`
	CVRequired bool                    `json:"cvRequired"`
	Profile    domain.ApplicantProfile `json:"profile"`
	Questions  *domain.QuestionSet     `json:"questions"`
	Answers    domain.AnswerState      `json:"answers"`
	Attachment *AttachmentView         `json:"attachment"`
	Sections   map[domain.Section]bool `json:"sections"`
	Result     domain.SubmissionResult `json:"result"`
	Ready      bool                    `json:"ready"`
	Missing    []string                `json:"missing"`
	CreatedAt  time.Time               `json:"createdAt"`
	UpdatedAt  time.Time               `json:"updatedAt"`
}

func newApplicationView(app *domain.Application) ApplicationView {
	missing := domain.MissingItems(app.State, app.CVRequired)
	view := ApplicationView{
		ID:         app.ID,
		CVRequired: app.CVRequired,
		Profile:    app.State.Profile,
		Questions:  app.State.Questions,
		Answers:    app.State.Answers,
		Sections:   app.State.Sections,
		Result:     app.State.Result,
		Ready:      len(missing) == 0,
		Missing:    validation.Labels(missing),
		CreatedAt:  app.CreatedAt,
		UpdatedAt:  app.UpdatedAt,
	}
	if a := app.State.Attachment; a != nil {
		view.Attachment = &AttachmentView{Filename: a.Filename, ContentType: a.ContentType, Size: len(a.Data)}
	}
	return view
}

func (h *ApplicationHandler) respond(c *gin.Context, code int, message string, app *domain.Application, err error) {
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, code, message, newApplicationView(app))
}

func bindValue(c *gin.Context) (string, bool) {
	var req ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return "", false
	}
	return *req.Value, true
}

// Start godoc
// @Summary      Start an application
// @Description  Creates a session, fetches the interview questions and seeds empty answers.
// @Tags         applications
// @Produce      json
// @Success      201  {object}  response.Response{data=ApplicationView}
// @Router       /applications [post]
func (h *ApplicationHandler) Start(c *gin.Context) {
	app, err := h.applicationUC.Start(c.Request.Context())
	h.respond(c, http.StatusCreated, "Application started", app, err)
}

// Get godoc
// @Summary      Get an application
// @Description  Returns the current snapshot with its readiness and missing items.
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=ApplicationView}
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.applicationUC.Get(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "Application retrieved", app, err)
}

// SetField godoc
// @Summary      Set a profile field
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Application ID"
// @Param        name  path      string        true  "Field name"  Enums(fullName, age, dni, phone, address, socialMedia, currentActivity)
// @Param        body  body      ValueRequest  true  "Field value"
// @Success      200   {object}  response.Response{data=ApplicationView}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /applications/{id}/fields/{name} [put]
func (h *ApplicationHandler) SetField(c *gin.Context) {
	value, ok := bindValue(c)
	if !ok {
		return
	}
	app, err := h.applicationUC.SetField(c.Request.Context(), c.Param("id"), c.Param("name"), value)
	h.respond(c, http.StatusOK, "Field updated", app, err)
}

// SetAnswer godoc
// @Summary      Set an interview answer
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id        path      string        true  "Application ID"
// @Param        category  path      string        true  "Question category"  Enums(customerService, salesAptitude)
// @Param        index     path      int           true  "Question index (0-based)"
// @Param        body      body      ValueRequest  true  "Answer"
// @Success      200       {object}  response.Response{data=ApplicationView}
// @Failure      400       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Router       /applications/{id}/answers/{category}/{index} [put]
func (h *ApplicationHandler) SetAnswer(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid question index"))
		return
	}
	value, ok := bindValue(c)
	if !ok {
		return
	}
	app, err := h.applicationUC.SetAnswer(c.Request.Context(), c.Param("id"), domain.Category(c.Param("category")), index, value)
	h.respond(c, http.StatusOK, "Answer updated", app, err)
}

// SetMotivation godoc
// @Summary      Set the motivation text
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Application ID"
// @Param        body  body      ValueRequest  true  "Motivation"
// @Success      200   {object}  response.Response{data=ApplicationView}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /applications/{id}/motivation [put]
func (h *ApplicationHandler) SetMotivation(c *gin.Context) {
	value, ok := bindValue(c)
	if !ok {
		return
	}
	app, err := h.applicationUC.SetMotivation(c.Request.Context(), c.Param("id"), value)
	h.respond(c, http.StatusOK, "Motivation updated", app, err)
}

// UploadCV godoc
// @Summary      Attach a résumé
// @Description  Replaces the selected résumé (PDF, DOC or DOCX).
// @Tags         applications
// @Accept       multipart/form-data
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Param        cv   formData  file    true  "Résumé file"
// @Success      200  {object}  response.Response{data=ApplicationView}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      413  {object}  response.Response
// @Router       /applications/{id}/cv [put]
func (h *ApplicationHandler) UploadCV(c *gin.Context) {
	// Leave room for the multipart envelope around the file
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cvMaxBytes+(1<<20))

	header, err := c.FormFile("cv")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Error(apperror.New(http.StatusRequestEntityTooLarge, "CV: el archivo es demasiado grande", err))
			return
		}
		c.Error(apperror.BadRequest("No file uploaded"))
		return
	}
	if header.Size > h.cvMaxBytes {
		c.Error(apperror.New(http.StatusRequestEntityTooLarge, "CV: el archivo es demasiado grande", nil))
		return
	}

	file, err := header.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cvMaxBytes+1))
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	app, err := h.applicationUC.SetAttachment(c.Request.Context(), c.Param("id"), domain.Attachment{
		Filename: header.Filename,
		Data:     data,
	})
	h.respond(c, http.StatusOK, "CV attached", app, err)
}

// ClearCV godoc
// @Summary      Remove the résumé
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=ApplicationView}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /applications/{id}/cv [delete]
func (h *ApplicationHandler) ClearCV(c *gin.Context) {
	app, err := h.applicationUC.ClearAttachment(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "CV removed", app, err)
}

// ToggleSection godoc
// @Summary      Expand or collapse a section
// @Tags         applications
// @Produce      json
// @Param        id    path      string  true  "Application ID"
// @Param        name  path      string  true  "Section"  Enums(customerService, salesAptitude, motivation, cv)
// @Success      200   {object}  response.Response{data=ApplicationView}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /applications/{id}/sections/{name}/toggle [post]
func (h *ApplicationHandler) ToggleSection(c *gin.Context) {
	app, err := h.applicationUC.ToggleSection(c.Request.Context(), c.Param("id"), domain.Section(c.Param("name")))
	h.respond(c, http.StatusOK, "Section toggled", app, err)
}

// Submit godoc
// @Summary      Submit the application
// @Description  Sends the application once. Incomplete forms are rejected with the missing items.
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=ApplicationView}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /applications/{id}/submit [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	app, err := h.applicationUC.Submit(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "Application submitted", app, err)
}

// DismissError godoc
// @Summary      Dismiss a failed submission
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=ApplicationView}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /applications/{id}/dismiss [post]
func (h *ApplicationHandler) DismissError(c *gin.Context) {
	app, err := h.applicationUC.DismissError(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "Error dismissed", app, err)
}

// Confirmation godoc
// @Summary      Post-submission view
// @Description  Available once the submission succeeded.
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.Confirmation}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /applications/{id}/confirmation [get]
func (h *ApplicationHandler) Confirmation(c *gin.Context) {
	confirmation, err := h.applicationUC.Confirmation(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, confirmation.Title, confirmation)
}

// Reset godoc
// @Summary      Start over
// @Description  Clears the form and fetches new questions.
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=ApplicationView}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /applications/{id}/reset [post]
func (h *ApplicationHandler) Reset(c *gin.Context) {
	app, err := h.applicationUC.Reset(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, "Application reset", app, err)
}

// Discard godoc
// @Summary      Discard an application
// @Description  Deletes the session and the data entered so far.
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /applications/{id} [delete]
func (h *ApplicationHandler) Discard(c *gin.Context) {
	if err := h.applicationUC.Discard(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application discarded", nil)
}
