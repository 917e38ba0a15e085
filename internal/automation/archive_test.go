package automation_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"tally/config"
	s3Mocks "tally/infras/s3/mocks"
	"tally/internal/automation"
)

func TestArchiver_Archive(t *testing.T) {
	result := automation.NewResult("reminder")
	result.MarkProcessed()
	result.StartedAt = time.Date(2026, 2, 10, 6, 30, 0, 0, time.UTC)
	result.Finish()

	t.Run("uploads the report as json keyed by job and start time", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		mockStorage := s3Mocks.NewMockS3(ctrl)
		cfg := &config.Config{}
		cfg.Archive.S3.Bucket = "tally-runs"

		var uploaded []byte

		mockStorage.EXPECT().
			PutObject(gomock.Any(), "tally-runs", "runs", "reminder-20260210T063000Z.json", "application/json", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _, _, _ string, data []byte) error {
				uploaded = data

				return nil
			})

		archiver := automation.NewArchiver(mockStorage, cfg)

		assert.NoError(t, archiver.Archive(context.Background(), result))

		var report automation.Result
		assert.NoError(t, json.Unmarshal(uploaded, &report))
		assert.Equal(t, "reminder", report.JobName)
		assert.Equal(t, 1, report.Processed)
		assert.True(t, report.Success)
	})

	t.Run("propagates upload failures", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		mockStorage := s3Mocks.NewMockS3(ctrl)
		cfg := &config.Config{}
		cfg.Archive.S3.Bucket = "tally-runs"

		mockStorage.EXPECT().
			PutObject(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("bucket unreachable"))

		archiver := automation.NewArchiver(mockStorage, cfg)

		assert.Error(t, archiver.Archive(context.Background(), result))
	})
}
