package api

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/audioscribe/transcriber/internal/jobs"
)

type fakeSource struct {
	rec  jobs.Record
	recs []jobs.Record
	err  error
}

func (f *fakeSource) GetRecord(ctx context.Context, job string) (jobs.Record, error) {
	return f.rec, f.err
}

func (f *fakeSource) ListRecords(ctx context.Context, user string) ([]jobs.Record, error) {
	return f.recs, f.err
}

type fakeSigner struct {
	getBucket, getKey string
	putBucket, putKey string
}

func (f *fakeSigner) SignedGetURI(bucket, key string) (string, error) {
	f.getBucket, f.getKey = bucket, key
	return "https://signed-get", nil
}

func (f *fakeSigner) SignedPutURI(bucket, key string) (string, error) {
	f.putBucket, f.putKey = bucket, key
	return "https://signed-put", nil
}

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(nil, &fakeSigner{}, "b")
	assert.NotNil(t, err)
	_, err = NewService(&fakeSource{}, nil, "b")
	assert.NotNil(t, err)
	_, err = NewService(&fakeSource{}, &fakeSigner{}, "")
	assert.NotNil(t, err)
}

func TestResultURI(t *testing.T) {
	signer := &fakeSigner{}
	source := &fakeSource{rec: jobs.Record{Job: "j1", ResultBucket: "results", ResultKey: "done/a.wav.json"}}
	s, err := NewService(source, signer, "project")
	assert.Nil(t, err)
	uri, err := s.ResultURI(context.Background(), "j1")
	assert.Nil(t, err)
	assert.Equal(t, "https://signed-get", uri)
	assert.Equal(t, "results", signer.getBucket)
	assert.Equal(t, "done/a.wav.json", signer.getKey)
}

func TestResultURI_Error(t *testing.T) {
	s, _ := NewService(&fakeSource{err: errors.New("not found")}, &fakeSigner{}, "project")
	_, err := s.ResultURI(context.Background(), "j1")
	assert.NotNil(t, err)
}

func TestJobs(t *testing.T) {
	source := &fakeSource{recs: []jobs.Record{{Job: "j1"}, {Job: "j2"}}}
	s, _ := NewService(source, &fakeSigner{}, "project")
	recs, err := s.Jobs(context.Background(), "ann")
	assert.Nil(t, err)
	assert.Equal(t, 2, len(recs))
}

func TestUploadURI(t *testing.T) {
	signer := &fakeSigner{}
	s, _ := NewService(&fakeSource{}, signer, "project")
	uri, err := s.UploadURI("ann", "talk.mp3")
	assert.Nil(t, err)
	assert.Equal(t, "https://signed-put", uri)
	assert.Equal(t, "project", signer.putBucket)
	assert.Equal(t, "users/ann/talk.mp3", signer.putKey)
}

func TestUploadURI_NoUser(t *testing.T) {
	s, _ := NewService(&fakeSource{}, &fakeSigner{}, "project")
	_, err := s.UploadURI("", "talk.mp3")
	assert.NotNil(t, err)
	_, err = s.UploadURI("ann", "")
	assert.NotNil(t, err)
}
