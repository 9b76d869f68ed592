package database

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"

	"github.com/audioscribe/transcriber/internal/jobs"
)

// ErrRecordNotFound is returned when no record exists for a job name.
var ErrRecordNotFound = errors.New("job record not found")

const userIndex = "user-index"

// Store keeps job records in a DynamoDB table keyed by job name.
type Store struct {
	svc   dynamodbiface.DynamoDBAPI
	table string
}

// NewStore builds a job record store.
func NewStore(svc dynamodbiface.DynamoDBAPI, table string) (*Store, error) {
	if svc == nil {
		return nil, errors.New("no dynamodb service provided")
	}
	if table == "" {
		return nil, errors.New("no table name provided")
	}
	return &Store{svc: svc, table: table}, nil
}

// CreateRecord writes a new job record. The put is conditional on the job
// name so a redelivered notification cannot regress an existing record.
func (s *Store) CreateRecord(ctx context.Context, rec jobs.Record) error {
	av, err := dynamodbattribute.MarshalMap(rec)
	if err != nil {
		return errors.Wrap(err, "can't marshal job record")
	}
	_, err = s.svc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		Item:                     av,
		TableName:                aws.String(s.table),
		ConditionExpression:      aws.String("attribute_not_exists(#j)"),
		ExpressionAttributeNames: map[string]*string{"#j": aws.String("job")},
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
			return nil
		}
		return errors.Wrapf(err, "can't put record for job '%s'", rec.Job)
	}
	return nil
}

// GetRecord fetches one record by job name.
func (s *Store) GetRecord(ctx context.Context, job string) (jobs.Record, error) {
	var rec jobs.Record
	result, err := s.svc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]*dynamodb.AttributeValue{
			"job": {S: aws.String(job)},
		},
	})
	if err != nil {
		return rec, errors.Wrapf(err, "can't get record for job '%s'", job)
	}
	if result.Item == nil {
		return rec, ErrRecordNotFound
	}
	if err := dynamodbattribute.UnmarshalMap(result.Item, &rec); err != nil {
		return rec, errors.Wrapf(err, "can't unmarshal record for job '%s'", job)
	}
	return rec, nil
}

// ListRecords returns all records owned by a user, via the user index.
func (s *Store) ListRecords(ctx context.Context, user string) ([]jobs.Record, error) {
	params := &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(userIndex),
		KeyConditionExpression: aws.String("#user = :user"),
		ExpressionAttributeNames: map[string]*string{
			"#user": aws.String("user"),
		},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":user": {S: aws.String(user)},
		},
	}
	resp, err := s.svc.QueryWithContext(ctx, params)
	if err != nil {
		return nil, errors.Wrapf(err, "can't list records for user '%s'", user)
	}
	var recs []jobs.Record
	if resp.Items != nil {
		if err := dynamodbattribute.UnmarshalListOfMaps(resp.Items, &recs); err != nil {
			return nil, errors.Wrapf(err, "can't unmarshal records for user '%s'", user)
		}
	}
	return recs, nil
}

// SetStatus updates the status attribute of one record.
func (s *Store) SetStatus(ctx context.Context, job string, status jobs.Status) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table),
		Key: map[string]*dynamodb.AttributeValue{
			"job": {S: aws.String(job)},
		},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":s": {S: aws.String(string(status))},
		},
		UpdateExpression: aws.String("set job_status = :s"),
		ReturnValues:     aws.String("UPDATED_NEW"),
	}
	_, err := s.svc.UpdateItemWithContext(ctx, input)
	return errors.Wrapf(err, "can't set status for job '%s'", job)
}
