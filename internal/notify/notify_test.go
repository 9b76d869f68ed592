package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go/service/cognitoidentityprovider/cognitoidentityprovideriface"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"github.com/stretchr/testify/assert"
)

type fakeSQS struct {
	sqsiface.SQSAPI
	input *sqs.SendMessageInput
}

func (f *fakeSQS) SendMessageWithContext(ctx aws.Context, in *sqs.SendMessageInput, opts ...request.Option) (*sqs.SendMessageOutput, error) {
	f.input = in
	return &sqs.SendMessageOutput{}, nil
}

type fakeSES struct {
	sesiface.SESAPI
	input *ses.SendEmailInput
}

func (f *fakeSES) SendEmailWithContext(ctx aws.Context, in *ses.SendEmailInput, opts ...request.Option) (*ses.SendEmailOutput, error) {
	f.input = in
	return &ses.SendEmailOutput{}, nil
}

type fakeCognito struct {
	cognitoidentityprovideriface.CognitoIdentityProviderAPI
	attrs []*cognitoidentityprovider.AttributeType
}

func (f *fakeCognito) AdminGetUserWithContext(ctx aws.Context, in *cognitoidentityprovider.AdminGetUserInput, opts ...request.Option) (*cognitoidentityprovider.AdminGetUserOutput, error) {
	return &cognitoidentityprovider.AdminGetUserOutput{UserAttributes: f.attrs}, nil
}

func TestQueuePush(t *testing.T) {
	svc := &fakeSQS{}
	q, err := NewQueue(svc, "http://queue")
	assert.Nil(t, err)
	err = q.Push(context.Background(), Message{To: "ann", Body: "meeting42-abc has completed."})
	assert.Nil(t, err)
	assert.Equal(t, "http://queue", aws.StringValue(svc.input.QueueUrl))
	var msg Message
	assert.Nil(t, json.Unmarshal([]byte(aws.StringValue(svc.input.MessageBody)), &msg))
	assert.Equal(t, "ann", msg.To)
}

func TestNewQueue_Validation(t *testing.T) {
	_, err := NewQueue(nil, "http://queue")
	assert.NotNil(t, err)
	_, err = NewQueue(&fakeSQS{}, "")
	assert.NotNil(t, err)
}

func TestEmailSenderSend(t *testing.T) {
	svc := &fakeSES{}
	s, err := NewEmailSender(svc, "noreply@transcriber.test")
	assert.Nil(t, err)
	err = s.Send(context.Background(), "ann@example.com", "done")
	assert.Nil(t, err)
	assert.Equal(t, "noreply@transcriber.test", aws.StringValue(svc.input.Source))
	assert.Equal(t, "ann@example.com", aws.StringValue(svc.input.Destination.ToAddresses[0]))
	assert.Equal(t, "done", aws.StringValue(svc.input.Message.Body.Text.Data))
}

func TestUserDirectoryEmail(t *testing.T) {
	svc := &fakeCognito{attrs: []*cognitoidentityprovider.AttributeType{
		{Name: aws.String("sub"), Value: aws.String("123")},
		{Name: aws.String("email"), Value: aws.String("ann@example.com")},
	}}
	d, err := NewUserDirectory(svc, "pool-1")
	assert.Nil(t, err)
	address, err := d.Email(context.Background(), "ann")
	assert.Nil(t, err)
	assert.Equal(t, "ann@example.com", address)
}

func TestUserDirectoryEmail_NotFound(t *testing.T) {
	svc := &fakeCognito{attrs: []*cognitoidentityprovider.AttributeType{
		{Name: aws.String("sub"), Value: aws.String("123")},
	}}
	d, _ := NewUserDirectory(svc, "pool-1")
	_, err := d.Email(context.Background(), "ann")
	assert.NotNil(t, err)
}
