package main

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/audioscribe/transcriber/internal/config"
	"github.com/audioscribe/transcriber/internal/database"
	"github.com/audioscribe/transcriber/internal/jobs"
	"github.com/audioscribe/transcriber/internal/notify"
)

type stateChange struct {
	TranscriptionJobName   string `json:"TranscriptionJobName"`
	TranscriptionJobStatus string `json:"TranscriptionJobStatus"`
}

type recordStore interface {
	GetRecord(ctx context.Context, job string) (jobs.Record, error)
	SetStatus(ctx context.Context, job string, status jobs.Status) error
}

type messageQueue interface {
	Push(ctx context.Context, msg notify.Message) error
}

type handler struct {
	store recordStore
	queue messageQueue
	log   *logrus.Entry
}

// Handle reacts to a Transcribe job-state-change event: the record status is
// updated and a completion mail is queued for the job's owner.
func (h *handler) Handle(ctx context.Context, event events.CloudWatchEvent) error {
	var sc stateChange
	if err := json.Unmarshal(event.Detail, &sc); err != nil {
		return errors.Wrap(err, "can't parse event detail")
	}
	if sc.TranscriptionJobName == "" {
		return errors.New("no job name in event detail")
	}
	log := h.log.WithFields(logrus.Fields{"job": sc.TranscriptionJobName, "status": sc.TranscriptionJobStatus})

	if err := h.store.SetStatus(ctx, sc.TranscriptionJobName, jobs.Status(sc.TranscriptionJobStatus)); err != nil {
		log.Error(err)
		return err
	}
	rec, err := h.store.GetRecord(ctx, sc.TranscriptionJobName)
	if err != nil {
		log.Error(err)
		return err
	}
	if rec.User == "" {
		log.Info("Job has no owner, skipping mail")
		return nil
	}
	msg := notify.Message{
		To:   rec.User,
		Body: sc.TranscriptionJobName + " has completed.",
	}
	if err := h.queue.Push(ctx, msg); err != nil {
		log.Error(err)
		return err
	}
	log.Info("Queued completion mail")
	return nil
}

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	log := logrus.WithField("service", "transcriber-finish")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Check("TABLE_NAME", "EMAIL_QUEUE_URL"); err != nil {
		log.Fatal(err)
	}

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))

	store, err := database.NewStore(dynamodb.New(sess), cfg.TableName)
	if err != nil {
		log.Fatal(err)
	}
	queue, err := notify.NewQueue(sqs.New(sess), cfg.EmailQueueURL)
	if err != nil {
		log.Fatal(err)
	}

	h := &handler{store: store, queue: queue, log: log}
	lambda.Start(h.Handle)
}
