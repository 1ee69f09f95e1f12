package datalayer

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/glizzus/timed-requests/internal/config"
	"github.com/glizzus/timed-requests/internal/report"
)

type PutOptions struct {
	Size        int64
	ContentType string
}

type BlobStorage interface {
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error
}

type MinioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage(cfg *config.MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Username, cfg.Password, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, err
	}

	return &MinioStorage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	// If the bucket is already owned, succeed
	if err != nil {
		if minio.ToErrorResponse(err).Code == "BucketAlreadyOwnedByYou" {
			return nil
		}
		return err
	}
	return nil
}

var _ BlobStorage = (*MinioStorage)(nil)

func (s *MinioStorage) Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, data, opts.Size, minio.PutObjectOptions{
		ContentType: opts.ContentType,
	})
	return err
}

// ReportKey is the object key a run report is stored under.
func ReportKey(runID string) string {
	return "runs/" + runID + ".json"
}

// PutReport stores the JSON encoding of run in storage.
func PutReport(ctx context.Context, storage BlobStorage, run report.Run) error {
	body, err := run.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode run %s: %w", run.ID, err)
	}
	err = storage.Put(ctx, ReportKey(run.ID), bytes.NewReader(body), PutOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload run %s: %w", run.ID, err)
	}
	return nil
}
