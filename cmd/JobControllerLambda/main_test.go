package main

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/audioscribe/transcriber/internal/jobs"
)

type fakeAPI struct {
	resultURI  string
	resultErr  error
	recs       []jobs.Record
	uploadURI  string
	uploadUser string
	uploadName string
	jobsUser   string
	resultJob  string
}

func (f *fakeAPI) ResultURI(ctx context.Context, job string) (string, error) {
	f.resultJob = job
	return f.resultURI, f.resultErr
}

func (f *fakeAPI) Jobs(ctx context.Context, user string) ([]jobs.Record, error) {
	f.jobsUser = user
	return f.recs, nil
}

func (f *fakeAPI) UploadURI(user, name string) (string, error) {
	f.uploadUser = user
	f.uploadName = name
	return f.uploadURI, nil
}

var service *fakeAPI

func initTest(t *testing.T) *handler {
	t.Helper()
	service = &fakeAPI{resultURI: "https://signed-get", uploadURI: "https://signed-put"}
	return &handler{service: service, log: logrus.WithField("test", t.Name())}
}

func request(method, area, id, user string) events.APIGatewayProxyRequest {
	req := events.APIGatewayProxyRequest{
		HTTPMethod:     method,
		PathParameters: map[string]string{},
	}
	if area != "" {
		req.PathParameters["area"] = area
	}
	if id != "" {
		req.PathParameters["id"] = id
	}
	if user != "" {
		req.RequestContext.Authorizer = map[string]interface{}{
			"claims": map[string]interface{}{"cognito:username": user},
		}
	}
	return req
}

func TestHandle_GetJobURI(t *testing.T) {
	h := initTest(t)
	resp, err := h.Handle(context.Background(), request(http.MethodGet, "job", "meeting42-abc", "ann"))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "meeting42-abc", service.resultJob)
	var uri string
	assert.Nil(t, json.Unmarshal([]byte(resp.Body), &uri))
	assert.Equal(t, "https://signed-get", uri)
}

func TestHandle_GetJobURI_DecodesID(t *testing.T) {
	h := initTest(t)
	resp, err := h.Handle(context.Background(), request(http.MethodGet, "job", "my%20talk-abc", "ann"))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "my talk-abc", service.resultJob)
}

func TestHandle_ListJobs(t *testing.T) {
	h := initTest(t)
	service.recs = []jobs.Record{{Job: "j1"}, {Job: "j2"}}
	resp, err := h.Handle(context.Background(), request(http.MethodGet, "job", "", "ann"))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ann", service.jobsUser)
	var recs []jobs.Record
	assert.Nil(t, json.Unmarshal([]byte(resp.Body), &recs))
	assert.Equal(t, 2, len(recs))
}

func TestHandle_UploadURI(t *testing.T) {
	h := initTest(t)
	resp, err := h.Handle(context.Background(), request(http.MethodGet, "upload", "talk.mp3", "ann"))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ann", service.uploadUser)
	assert.Equal(t, "talk.mp3", service.uploadName)
}

func TestHandle_NoClaims(t *testing.T) {
	h := initTest(t)
	resp, err := h.Handle(context.Background(), request(http.MethodGet, "job", "", ""))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandle_UnknownArea(t *testing.T) {
	h := initTest(t)
	resp, err := h.Handle(context.Background(), request(http.MethodGet, "nope", "", "ann"))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandle_ResultError(t *testing.T) {
	h := initTest(t)
	service.resultErr = errors.New("not found")
	resp, err := h.Handle(context.Background(), request(http.MethodGet, "job", "meeting42-abc", "ann"))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandle_Options(t *testing.T) {
	h := initTest(t)
	resp, err := h.Handle(context.Background(), request(http.MethodOptions, "", "", ""))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Headers["Access-Control-Allow-Methods"])
}

func TestHandle_MethodNotAllowed(t *testing.T) {
	h := initTest(t)
	resp, err := h.Handle(context.Background(), request(http.MethodPost, "job", "", "ann"))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
