package transcribe

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/transcribeservice"
	"github.com/aws/aws-sdk-go/service/transcribeservice/transcribeserviceiface"
	"github.com/pkg/errors"

	"github.com/audioscribe/transcriber/internal/dispatch"
	"github.com/audioscribe/transcriber/internal/jobs"
)

// Client submits jobs to AWS Transcribe. It implements dispatch.JobStarter.
type Client struct {
	svc transcribeserviceiface.TranscribeServiceAPI
}

// NewClient builds a Transcribe client wrapper.
func NewClient(svc transcribeserviceiface.TranscribeServiceAPI) (*Client, error) {
	if svc == nil {
		return nil, errors.New("no transcribe service provided")
	}
	return &Client{svc: svc}, nil
}

// StartJob calls StartTranscriptionJob. A ConflictException means a job with
// the same name already exists and is reported as a duplicate, not an error.
func (c *Client) StartJob(ctx context.Context, d jobs.Descriptor) (dispatch.Submission, error) {
	input := &transcribeservice.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(d.JobName),
		Media:                &transcribeservice.Media{MediaFileUri: aws.String(d.MediaURI)},
		MediaFormat:          aws.String(d.MediaFormat),
		LanguageCode:         aws.String(d.LanguageCode),
		OutputBucketName:     aws.String(d.OutputBucket),
		OutputKey:            aws.String(d.OutputKey),
	}
	out, err := c.svc.StartTranscriptionJobWithContext(ctx, input)
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case transcribeservice.ErrCodeConflictException:
				return dispatch.Submission{JobID: d.JobName, Duplicate: true}, nil
			case transcribeservice.ErrCodeBadRequestException, transcribeservice.ErrCodeNotFoundException:
				return dispatch.Submission{}, &dispatch.ServiceError{Op: "start transcription job", Transient: false, Err: err}
			}
		}
		return dispatch.Submission{}, &dispatch.ServiceError{Op: "start transcription job", Transient: true, Err: err}
	}
	jobID := d.JobName
	if out.TranscriptionJob != nil && out.TranscriptionJob.TranscriptionJobName != nil {
		jobID = *out.TranscriptionJob.TranscriptionJobName
	}
	return dispatch.Submission{JobID: jobID}, nil
}
