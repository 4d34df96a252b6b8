package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/akulikov/go-shortlink/internal/storage"
)

// URLService shortens URLs and resolves short codes.
type URLService struct {
	repository LinkStorage
	generator  *CodeGenerator
	logger     *zap.Logger
	baseURL    string
}

func NewURL(repo LinkStorage, generator *CodeGenerator, logger *zap.Logger, baseURL string) *URLService {
	return &URLService{
		repository: repo,
		generator:  generator,
		logger:     logger,
		baseURL:    baseURL,
	}
}

// ShortenResult is the outcome of a shorten request. Existing is set when
// the URL was already shortened and the stored code was returned instead of
// a new one.
type ShortenResult struct {
	ShortURL string
	Existing bool
}

// Shorten returns a short URL for original, attributed to userID. A fresh
// code is minted and inserted; when the original URL is already present the
// insert reports a conflict and the stored code is surfaced instead. A code
// collision is passed through as an error, generation is not retried.
func (s *URLService) Shorten(ctx context.Context, original string, userID string) (*ShortenResult, error) {
	code, err := s.generator.Generate()
	if err != nil {
		return nil, err
	}

	record, err := s.repository.WriteLink(ctx, storage.LinkRecord{
		Code:      code,
		Original:  original,
		CreatedBy: userID,
	})

	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			s.logger.Info("URL already shortened",
				zap.String("code", record.Code))
			return &ShortenResult{
				ShortURL: s.baseURL + "/" + record.Code,
				Existing: true,
			}, nil
		}

		return nil, err
	}

	return &ShortenResult{ShortURL: s.baseURL + "/" + record.Code}, nil
}

// Resolve increments the visit counter of the link matching code and
// returns its original URL.
func (s *URLService) Resolve(ctx context.Context, code string) (string, error) {
	return s.repository.ResolveLink(ctx, code)
}

func (s *URLService) PingContext(ctx context.Context) error {
	return s.repository.PingContext(ctx)
}
