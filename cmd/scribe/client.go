package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cognitoidentityprovider"
	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"

	"github.com/audioscribe/transcriber/internal/jobs"
)

// client talks to the job API on behalf of one logged-in user.
type client struct {
	config Config
	token  string
	http   *http.Client
}

func newClient(config Config) (*client, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create session")
	}
	cip := cognitoidentityprovider.New(sess)
	out, err := cip.InitiateAuth(&cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: aws.String("USER_PASSWORD_AUTH"),
		AuthParameters: map[string]*string{
			"USERNAME": aws.String(config.UserName),
			"PASSWORD": aws.String(config.Password),
		},
		ClientId: aws.String(config.ApiKey),
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't log in")
	}
	if out.AuthenticationResult == nil || out.AuthenticationResult.IdToken == nil {
		return nil, errors.New("no token in auth response")
	}
	return &client{
		config: config,
		token:  *out.AuthenticationResult.IdToken,
		http:   &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *client) get(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "can't prepare request to '%s'", url)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "can't call '%s'", url)
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "can't read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("request to '%s' failed: %s", url, string(body))
	}
	return body, nil
}

func (c *client) jobs() ([]jobs.Record, error) {
	data, err := c.get(c.config.Api + "/transcribe/" + c.config.UserName + "/job")
	if err != nil {
		return nil, err
	}
	var recs []jobs.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, errors.Wrap(err, "can't parse job list")
	}
	return recs, nil
}

// ListJobs prints the user's jobs.
func (c *client) ListJobs() error {
	recs, err := c.jobs()
	if err != nil {
		return err
	}
	for _, r := range recs {
		fmt.Printf("%s\t%s\t%s\n", r.Job, r.JobStatus, r.SourceURI)
	}
	return nil
}

// GetJob prints the presigned URI of a finished job's transcript.
func (c *client) GetJob(job string) error {
	if job == "" {
		return errors.New("no job provided")
	}
	data, err := c.get(c.config.Api + "/transcribe/" + c.config.UserName + "/job/" + job)
	if err != nil {
		return err
	}
	var uri string
	if err := json.Unmarshal(data, &uri); err != nil {
		return errors.Wrap(err, "can't parse result uri")
	}
	fmt.Println(uri)
	return nil
}

// WaitForJob polls the job API until the job reaches a terminal state.
func (c *client) WaitForJob(job string) error {
	if job == "" {
		return errors.New("no job provided")
	}
	var last jobs.Record
	op := func() error {
		recs, err := c.jobs()
		if err != nil {
			return backoff.Permanent(err)
		}
		for _, r := range recs {
			if r.Job == job {
				last = r
				if jobs.Status(r.JobStatus).Terminal() {
					return nil
				}
				return errors.Errorf("job '%s' still %s", job, r.JobStatus)
			}
		}
		return backoff.Permanent(errors.Errorf("job '%s' not found", job))
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Second
	b.MaxElapsedTime = 30 * time.Minute
	if err := backoff.Retry(op, b); err != nil {
		return err
	}
	fmt.Printf("%s\t%s\n", last.Job, last.JobStatus)
	return nil
}
