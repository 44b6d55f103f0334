package usecase

import (
	"context"

	"muzza-postulaciones/internal/domain"
	"muzza-postulaciones/pkg/formspree"
)

type formspreeSubmitter struct {
	client *formspree.Client
}

// NewFormspreeSubmitter sends submission records through a Formspree client
func NewFormspreeSubmitter(client *formspree.Client) domain.Submitter {
	return &formspreeSubmitter{client: client}
}

func (s *formspreeSubmitter) Submit(ctx context.Context, record domain.SubmissionRecord, cv *domain.Attachment) error {
	var file *formspree.File
	if cv != nil {
		file = &formspree.File{Name: cv.Filename, Data: cv.Data}
	}
	return s.client.Send(ctx, record, file)
}
