package main

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/sirupsen/logrus"

	"github.com/audioscribe/transcriber/internal/config"
	"github.com/audioscribe/transcriber/internal/notify"
)

type userDirectory interface {
	Email(ctx context.Context, user string) (string, error)
}

type emailSender interface {
	Send(ctx context.Context, recipient, body string) error
}

type handler struct {
	directory userDirectory
	sender    emailSender
	log       *logrus.Entry
}

// Handle drains queued completion messages. Malformed or unresolvable
// messages are logged and skipped so they don't block the batch.
func (h *handler) Handle(ctx context.Context, event events.SQSEvent) error {
	for _, record := range event.Records {
		var msg notify.Message
		if err := json.Unmarshal([]byte(record.Body), &msg); err != nil {
			h.log.Errorf("Can't parse message '%s': %v", record.Body, err)
			continue
		}
		log := h.log.WithField("user", msg.To)
		address, err := h.directory.Email(ctx, msg.To)
		if err != nil {
			log.Error(err)
			continue
		}
		if err := h.sender.Send(ctx, address, msg.Body); err != nil {
			log.Error(err)
			return err
		}
		log.Info("Sent completion mail")
	}
	return nil
}

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	log := logrus.WithField("service", "send-email")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Check("USER_POOL", "SENDING_ADDRESS"); err != nil {
		log.Fatal(err)
	}

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))

	directory, err := notify.NewUserDirectory(cognitoidentityprovider.New(sess), cfg.UserPool)
	if err != nil {
		log.Fatal(err)
	}
	sender, err := notify.NewEmailSender(ses.New(sess), cfg.SendingAddress)
	if err != nil {
		log.Fatal(err)
	}

	h := &handler{directory: directory, sender: sender, log: log}
	lambda.Start(h.Handle)
}
