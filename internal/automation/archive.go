package automation

//go:generate go run go.uber.org/mock/mockgen -source=./archive.go -destination=./mocks/archive_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"tally/config"
	"tally/infras/s3"
)

// Archiver ships finished run reports to object storage for offline
// inspection. Archiving is best effort: a failed upload is logged and the
// run outcome is unaffected.
type Archiver interface {
	Archive(ctx context.Context, result *Result) error
}

type archiverImpl struct {
	storage s3.S3
	cfg     *config.Config
}

func NewArchiver(storage s3.S3, cfg *config.Config) Archiver {
	return &archiverImpl{
		storage: storage,
		cfg:     cfg,
	}
}

func (a *archiverImpl) Archive(ctx context.Context, result *Result) error {
	report, err := json.Marshal(result)
	if err != nil {
		log.Error().Err(err).Str("job", result.JobName).Msg("failed to marshal run report")

		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	objectName := fmt.Sprintf("%s-%s.json", result.JobName, result.StartedAt.Format("20060102T150405Z"))

	if err := a.storage.PutObject(ctx, a.cfg.Archive.S3.Bucket, "runs", objectName, "application/json", report); err != nil {
		log.Error().Err(err).Str("job", result.JobName).Msg("failed to archive run report")

		return fmt.Errorf("failed to archive run report: %w", err)
	}

	return nil
}
