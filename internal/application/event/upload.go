package event

import (
	"context"
	"errors"

	"github.com/baechuer/alchies-rsvp/internal/infrastructure/imagehost/sanitizer"
	"github.com/baechuer/alchies-rsvp/internal/logger"
)

type UploadResult struct {
	URL      string `json:"url"`
	ID       string `json:"id"`
	Success  bool   `json:"success"`
	Fallback bool   `json:"fallback,omitempty"`
}

var errNoImageHost = errors.New("image host not configured")

// Upload stores a base64 data-url image. Any failure, including a missing
// image host, degrades to a stock photo instead of an error.
func (s *Service) Upload(ctx context.Context, image string) UploadResult {
	url, id, err := s.upload(ctx, image)
	if err == nil {
		return UploadResult{URL: url, ID: id, Success: true}
	}

	logger.Ctx(ctx).Warn().Err(err).Msg("image upload failed, using stock photo")
	url, id = s.stock.Pick()
	return UploadResult{URL: url, ID: id, Success: true, Fallback: true}
}

func (s *Service) upload(ctx context.Context, image string) (string, string, error) {
	if s.images == nil {
		return "", "", errNoImageHost
	}
	data, err := sanitizer.DecodeDataURL(image)
	if err != nil {
		return "", "", err
	}
	return s.images.Upload(ctx, data)
}
