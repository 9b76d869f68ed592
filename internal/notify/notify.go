package notify

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go/service/cognitoidentityprovider/cognitoidentityprovideriface"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"github.com/pkg/errors"
)

const (
	subject = "Transcriber job finished"
	charSet = "UTF-8"
)

// Message asks for one completion mail to a user.
type Message struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// Queue pushes completion messages to the email queue.
type Queue struct {
	svc sqsiface.SQSAPI
	url string
}

// NewQueue builds a queue sender.
func NewQueue(svc sqsiface.SQSAPI, url string) (*Queue, error) {
	if svc == nil {
		return nil, errors.New("no sqs service provided")
	}
	if url == "" {
		return nil, errors.New("no queue url provided")
	}
	return &Queue{svc: svc, url: url}, nil
}

// Push enqueues one message.
func (q *Queue) Push(ctx context.Context, msg Message) error {
	bytes, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "can't marshal message")
	}
	_, err = q.svc.SendMessageWithContext(ctx, &sqs.SendMessageInput{
		MessageBody: aws.String(string(bytes)),
		QueueUrl:    aws.String(q.url),
	})
	return errors.Wrapf(err, "can't send message to '%s'", msg.To)
}

// EmailSender sends completion mails through SES.
type EmailSender struct {
	svc    sesiface.SESAPI
	sender string
}

// NewEmailSender builds an SES sender.
func NewEmailSender(svc sesiface.SESAPI, sender string) (*EmailSender, error) {
	if svc == nil {
		return nil, errors.New("no ses service provided")
	}
	if sender == "" {
		return nil, errors.New("no sending address provided")
	}
	return &EmailSender{svc: svc, sender: sender}, nil
}

// Send mails one body to a recipient address.
func (s *EmailSender) Send(ctx context.Context, recipient, body string) error {
	input := &ses.SendEmailInput{
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(recipient)},
		},
		Message: &ses.Message{
			Body: &ses.Body{
				Text: &ses.Content{Charset: aws.String(charSet), Data: aws.String(body)},
			},
			Subject: &ses.Content{Charset: aws.String(charSet), Data: aws.String(subject)},
		},
		Source: aws.String(s.sender),
	}
	_, err := s.svc.SendEmailWithContext(ctx, input)
	return errors.Wrapf(err, "can't send email to '%s'", recipient)
}

// UserDirectory resolves user names to email addresses via Cognito.
type UserDirectory struct {
	svc  cognitoidentityprovideriface.CognitoIdentityProviderAPI
	pool string
}

// NewUserDirectory builds a directory over one user pool.
func NewUserDirectory(svc cognitoidentityprovideriface.CognitoIdentityProviderAPI, pool string) (*UserDirectory, error) {
	if svc == nil {
		return nil, errors.New("no cognito service provided")
	}
	if pool == "" {
		return nil, errors.New("no user pool provided")
	}
	return &UserDirectory{svc: svc, pool: pool}, nil
}

// Email returns the email attribute of a user.
func (d *UserDirectory) Email(ctx context.Context, user string) (string, error) {
	record, err := d.svc.AdminGetUserWithContext(ctx, &cognitoidentityprovider.AdminGetUserInput{
		UserPoolId: aws.String(d.pool),
		Username:   aws.String(user),
	})
	if err != nil {
		return "", errors.Wrapf(err, "can't get user '%s'", user)
	}
	for _, attr := range record.UserAttributes {
		if aws.StringValue(attr.Name) == "email" {
			return aws.StringValue(attr.Value), nil
		}
	}
	return "", errors.Errorf("no email for user '%s'", user)
}
