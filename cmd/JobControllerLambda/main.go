package main

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/audioscribe/transcriber/internal/api"
	"github.com/audioscribe/transcriber/internal/config"
	"github.com/audioscribe/transcriber/internal/database"
	"github.com/audioscribe/transcriber/internal/jobs"
	"github.com/audioscribe/transcriber/internal/storage"
)

type jobAPI interface {
	ResultURI(ctx context.Context, job string) (string, error)
	Jobs(ctx context.Context, user string) ([]jobs.Record, error)
	UploadURI(user, name string) (string, error)
}

type handler struct {
	service jobAPI
	log     *logrus.Entry
}

func (h *handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error) {
	switch req.HTTPMethod {
	case http.MethodGet:
		return h.get(ctx, req)
	case http.MethodOptions:
		return api.OptionsResponse()
	default:
		return api.ErrorResponse(http.StatusMethodNotAllowed, "method not allowed")
	}
}

// userFromClaims reads the Cognito user name the authorizer attached.
func userFromClaims(req events.APIGatewayProxyRequest) string {
	claims, ok := req.RequestContext.Authorizer["claims"].(map[string]interface{})
	if !ok {
		return ""
	}
	user, _ := claims["cognito:username"].(string)
	return user
}

func (h *handler) get(ctx context.Context, req events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error) {
	user := userFromClaims(req)
	if user == "" {
		return api.ErrorResponse(http.StatusUnauthorized, "no user identity")
	}
	log := h.log.WithField("user", user)

	area := req.PathParameters["area"]
	idRaw, idExists := req.PathParameters["id"]
	var id string
	if idExists {
		id, _ = url.QueryUnescape(idRaw)
	}

	switch {
	case area == "job" && idExists:
		uri, err := h.service.ResultURI(ctx, id)
		if err != nil {
			log.Error(err)
			return api.ErrorResponse(http.StatusBadRequest, err.Error())
		}
		return api.Response(http.StatusOK, uri)
	case area == "job":
		recs, err := h.service.Jobs(ctx, user)
		if err != nil {
			log.Error(err)
			return api.ErrorResponse(http.StatusBadRequest, err.Error())
		}
		return api.Response(http.StatusOK, recs)
	case area == "upload" && idExists:
		uri, err := h.service.UploadURI(user, id)
		if err != nil {
			log.Error(err)
			return api.ErrorResponse(http.StatusBadRequest, err.Error())
		}
		return api.Response(http.StatusOK, uri)
	}
	return api.ErrorResponse(http.StatusNotFound, "unknown resource")
}

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	log := logrus.WithField("service", "job-controller")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Check("TABLE_NAME", "PROJECT_BUCKET"); err != nil {
		log.Fatal(err)
	}

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))

	store, err := database.NewStore(dynamodb.New(sess), cfg.TableName)
	if err != nil {
		log.Fatal(err)
	}
	signer, err := storage.NewSigner(s3.New(sess))
	if err != nil {
		log.Fatal(err)
	}
	service, err := api.NewService(store, signer, cfg.ProjectBucket)
	if err != nil {
		log.Fatal(err)
	}

	h := &handler{service: service, log: log}
	lambda.Start(h.Handle)
}
