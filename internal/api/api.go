package api

import (
	"context"

	"github.com/pkg/errors"

	"github.com/audioscribe/transcriber/internal/jobs"
)

// RecordSource reads job records.
type RecordSource interface {
	GetRecord(ctx context.Context, job string) (jobs.Record, error)
	ListRecords(ctx context.Context, user string) ([]jobs.Record, error)
}

// URISigner produces presigned storage URIs.
type URISigner interface {
	SignedGetURI(bucket, key string) (string, error)
	SignedPutURI(bucket, key string) (string, error)
}

// Service implements the job API operations shared by the API Gateway
// lambda and the standalone frontend.
type Service struct {
	source RecordSource
	signer URISigner
	bucket string
}

// NewService validates collaborators and builds the job API service.
func NewService(source RecordSource, signer URISigner, projectBucket string) (*Service, error) {
	if source == nil {
		return nil, errors.New("no record source provided")
	}
	if signer == nil {
		return nil, errors.New("no uri signer provided")
	}
	if projectBucket == "" {
		return nil, errors.New("no project bucket provided")
	}
	return &Service{source: source, signer: signer, bucket: projectBucket}, nil
}

// ResultURI returns a presigned URI for a finished job's transcript.
func (s *Service) ResultURI(ctx context.Context, job string) (string, error) {
	rec, err := s.source.GetRecord(ctx, job)
	if err != nil {
		return "", err
	}
	return s.signer.SignedGetURI(rec.ResultBucket, rec.ResultKey)
}

// Jobs lists a user's job records.
func (s *Service) Jobs(ctx context.Context, user string) ([]jobs.Record, error) {
	return s.source.ListRecords(ctx, user)
}

// UploadURI returns a presigned PUT URI for a new media object under the
// user's prefix. Object creation there triggers the dispatcher.
func (s *Service) UploadURI(user, name string) (string, error) {
	if user == "" || name == "" {
		return "", errors.New("no user or file name")
	}
	return s.signer.SignedPutURI(s.bucket, "users/"+user+"/"+name)
}
