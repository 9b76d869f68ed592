package storage

import (
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
)

const defaultSignTTL = 15 * time.Minute

// Signer produces presigned S3 URIs for result download and upload.
type Signer struct {
	svc s3iface.S3API
	ttl time.Duration
}

// NewSigner builds a signer with the default URI lifetime.
func NewSigner(svc s3iface.S3API) (*Signer, error) {
	if svc == nil {
		return nil, errors.New("no s3 service provided")
	}
	return &Signer{svc: svc, ttl: defaultSignTTL}, nil
}

// SignedGetURI returns a presigned GET URI for an object.
func (s *Signer) SignedGetURI(bucket, key string) (string, error) {
	req, _ := s.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	uri, err := req.Presign(s.ttl)
	return uri, errors.Wrapf(err, "can't presign get for 's3://%s/%s'", bucket, key)
}

// SignedPutURI returns a presigned PUT URI for an object.
func (s *Signer) SignedPutURI(bucket, key string) (string, error) {
	req, _ := s.svc.PutObjectRequest(&s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	uri, err := req.Presign(s.ttl)
	return uri, errors.Wrapf(err, "can't presign put for 's3://%s/%s'", bucket, key)
}

// Upload sends a local file to S3.
func Upload(sess *session.Session, fileName, bucket, key string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return errors.Wrapf(err, "can't open '%s'", fileName)
	}
	defer file.Close()

	uploader := s3manager.NewUploader(sess)
	_, err = uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	return errors.Wrapf(err, "can't upload '%s' to 's3://%s/%s'", fileName, bucket, key)
}
