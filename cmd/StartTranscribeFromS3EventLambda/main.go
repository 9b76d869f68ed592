package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/transcribeservice"
	"github.com/sirupsen/logrus"

	"github.com/audioscribe/transcriber/internal/config"
	"github.com/audioscribe/transcriber/internal/database"
	"github.com/audioscribe/transcriber/internal/dispatch"
	"github.com/audioscribe/transcriber/internal/transcribe"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	log := logrus.WithField("service", "start-transcribe")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Check("TABLE_NAME", "OUTPUT_BUCKET"); err != nil {
		log.Fatal(err)
	}

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))

	store, err := database.NewStore(dynamodb.New(sess), cfg.TableName)
	if err != nil {
		log.Fatal(err)
	}
	client, err := transcribe.NewClient(transcribeservice.New(sess))
	if err != nil {
		log.Fatal(err)
	}
	dispatcher, err := dispatch.New(dispatch.Config{
		OutputBucket: cfg.OutputBucket,
		OutputPrefix: cfg.OutputPrefix,
		LanguageCode: cfg.LanguageCode,
		Formats:      cfg.MediaFormats,
		Timeout:      cfg.DispatchTimeout,
	}, client, store, log)
	if err != nil {
		log.Fatal(err)
	}

	lambda.Start(dispatcher.Handle)
}
