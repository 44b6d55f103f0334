package usecase

import (
	"net/url"
	"strings"

	"muzza-postulaciones/internal/domain"
)

const (
	confirmationTitle = "¡Gracias por postular!"

	copyLinkDone        = "Link copiado. Puedes pegarlo en WhatsApp o donde prefieras."
	copyLinkFailed      = "No se pudo copiar el link. Copia la URL manualmente, por favor."
	copyLinkUnsupported = "No es posible copiar automáticamente. Copia el link manualmente, por favor."
)

// EmailSubject builds the subject the applicant must use when mailing the CV
func EmailSubject(dni string) string {
	if strings.TrimSpace(dni) == "" {
		dni = "#DNI"
	}
	return dni + " - Muzza atención"
}

// MailtoLink builds a mailto: link with the subject percent-encoded
func MailtoLink(email, subject string) string {
	return "mailto:" + email + "?subject=" + strings.ReplaceAll(url.QueryEscape(subject), "+", "%20")
}

// CopyShareLink tries the clipboard and always returns a user message.
// A missing or failing clipboard yields the manual-copy instruction.
func CopyShareLink(cb domain.Clipboard, link string) string {
	if cb == nil {
		return copyLinkUnsupported
	}
	if err := cb.WriteText(link); err != nil {
		return copyLinkFailed
	}
	return copyLinkDone
}

// buildConfirmation renders the post-submission view for a variant
func buildConfirmation(state domain.FormState, cfg ApplicationConfig, cb domain.Clipboard) *domain.Confirmation {
	if cfg.CVRequired {
		return &domain.Confirmation{
			Variant:        domain.ConfirmationUpload,
			Title:          confirmationTitle,
			Message:        "Hemos recibido tu postulación y tu CV correctamente. Nos pondremos en contacto contigo.",
			CanSubmitAgain: true,
		}
	}

	subject := EmailSubject(state.Profile.DNI)
	return &domain.Confirmation{
		Variant: domain.ConfirmationEmailCV,
		Title:   confirmationTitle,
		Message: "Hemos recibido tu información correctamente. Para completar tu postulación, envía tu CV en PDF al correo " +
			cfg.ContactEmail + " usando como asunto: " + subject,
		ContactEmail:   cfg.ContactEmail,
		EmailSubject:   subject,
		MailtoLink:     MailtoLink(cfg.ContactEmail, subject),
		ShareURL:       cfg.ShareURL,
		CopyLinkResult: CopyShareLink(cb, cfg.ShareURL),
	}
}
