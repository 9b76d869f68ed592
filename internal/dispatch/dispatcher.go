package dispatch

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/audioscribe/transcriber/internal/jobs"
)

// Submission is the transcription service's answer to one job request.
type Submission struct {
	JobID     string
	Duplicate bool
}

// JobStarter submits one transcription job. Implementations report a job
// that already exists under the same name as Duplicate, not as an error.
type JobStarter interface {
	StartJob(ctx context.Context, d jobs.Descriptor) (Submission, error)
}

// Recorder persists the job record before submission. Creating the same
// record twice must not fail.
type Recorder interface {
	CreateRecord(ctx context.Context, rec jobs.Record) error
}

// Config holds the environment-provided dispatcher settings.
type Config struct {
	OutputBucket string
	OutputPrefix string
	LanguageCode string
	Formats      []string
	Timeout      time.Duration
}

const (
	defaultLanguageCode = "en-US"
	defaultOutputPrefix = "done/"
)

var defaultFormats = []string{"mp4", "mp3", "wav"}

// Result reports the outcome of one dispatched notification.
type Result struct {
	JobName     string
	JobID       string
	MediaFormat string
	MediaURI    string
	Duplicate   bool
}

// Dispatcher turns object-created notifications into transcription job
// submissions. It holds no mutable state and is safe for concurrent use.
type Dispatcher struct {
	cfg      Config
	starter  JobStarter
	recorder Recorder
	formats  map[string]bool
	log      *logrus.Entry
}

// New validates collaborators and configuration and builds a dispatcher.
func New(cfg Config, starter JobStarter, recorder Recorder, log *logrus.Entry) (*Dispatcher, error) {
	if starter == nil {
		return nil, errors.New("no job starter provided")
	}
	if recorder == nil {
		return nil, errors.New("no recorder provided")
	}
	if cfg.OutputBucket == "" {
		return nil, errors.New("no output bucket configured")
	}
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = defaultLanguageCode
	}
	if cfg.OutputPrefix == "" {
		cfg.OutputPrefix = defaultOutputPrefix
	}
	if len(cfg.Formats) == 0 {
		cfg.Formats = defaultFormats
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	formats := make(map[string]bool, len(cfg.Formats))
	for _, f := range cfg.Formats {
		formats[strings.ToLower(f)] = true
	}
	return &Dispatcher{cfg: cfg, starter: starter, recorder: recorder, formats: formats, log: log}, nil
}

// Handle is the lambda entry point. Every record is processed; the first
// failure is returned so the runtime can redeliver the event. Records
// already submitted are absorbed on redelivery by duplicate-job handling.
func (d *Dispatcher) Handle(ctx context.Context, event events.S3Event) error {
	var firstErr error
	for _, r := range event.Records {
		n, err := NotificationFromRecord(r)
		if err == nil {
			_, err = d.Dispatch(ctx, n)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Dispatch validates one notification, derives the job parameters and
// submits the job. A rejection because the job already exists is success.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) (Result, error) {
	if d.cfg.Timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
			defer cancel()
		}
	}
	log := d.log.WithFields(logrus.Fields{"event": n.ID, "bucket": n.Bucket, "key": n.Key})
	if n.Bucket == "" {
		err := &MalformedEventError{Reason: "no bucket name"}
		log.Error(err)
		return Result{}, err
	}
	if n.Key == "" {
		err := &MalformedEventError{Reason: "no object key"}
		log.Error(err)
		return Result{}, err
	}

	format := MediaFormatFromKey(n.Key)
	if !d.formats[format] {
		err := &UnsupportedFormatError{Key: n.Key, Format: format}
		log.Warn(err)
		return Result{}, err
	}

	jobName := JobNameForKey(n.Key)
	log = log.WithField("job", jobName)
	desc := jobs.Descriptor{
		JobName:      jobName,
		MediaURI:     "s3://" + n.Bucket + "/" + n.Key,
		MediaFormat:  format,
		LanguageCode: d.cfg.LanguageCode,
		OutputBucket: d.cfg.OutputBucket,
		OutputKey:    d.cfg.OutputPrefix + n.Key + ".json",
	}
	rec := jobs.Record{
		Job:          jobName,
		User:         jobs.OwnerFromKey(n.Key),
		JobStatus:    string(jobs.StatusInProgress),
		SourceURI:    desc.MediaURI,
		ResultBucket: desc.OutputBucket,
		ResultKey:    desc.OutputKey,
		MediaFormat:  format,
		LanguageCode: desc.LanguageCode,
		CreatedAt:    time.Now().Unix(),
	}
	if err := d.recorder.CreateRecord(ctx, rec); err != nil {
		serr := &ServiceError{Op: "create job record", Transient: true, Err: err}
		log.Error(serr)
		return Result{}, serr
	}

	sub, err := d.starter.StartJob(ctx, desc)
	if err != nil {
		var serr *ServiceError
		if !stderrors.As(err, &serr) {
			serr = &ServiceError{Op: "start transcription job", Transient: true, Err: err}
		}
		log.Error(serr)
		return Result{}, serr
	}
	res := Result{
		JobName:     jobName,
		JobID:       sub.JobID,
		MediaFormat: format,
		MediaURI:    desc.MediaURI,
		Duplicate:   sub.Duplicate,
	}
	if sub.Duplicate {
		log.Infof("Job '%s' already exists, nothing to do", jobName)
		return res, nil
	}
	log.Infof("Started job '%s'", jobName)
	return res, nil
}
