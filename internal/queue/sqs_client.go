package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

const (
	defaultRegion = "us-east-1"
	// ingestGroup keeps batches on a FIFO queue strictly one after another.
	ingestGroup = "portfolio-ingest"
)

var ErrQueueURLRequired = errors.New("SQS_QUEUE_URL is required")

// SendAPI is the part of the SQS client used for sending.
type SendAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSClient publishes ingestion jobs. Queue URLs ending in ".fifo" get a
// message group and a deduplication ID derived from the job ID.
type SQSClient struct {
	api      SendAPI
	queueURL string
	fifo     bool
}

// LoadSQS builds an SQS API client for region, defaulting to us-east-1.
func LoadSQS(ctx context.Context, region string) (*sqs.Client, error) {
	if region = strings.TrimSpace(region); region == "" {
		region = defaultRegion
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return sqs.NewFromConfig(cfg), nil
}

// NewSQSClient loads AWS config for region and targets queueURL.
func NewSQSClient(ctx context.Context, queueURL, region string) (*SQSClient, error) {
	if strings.TrimSpace(queueURL) == "" {
		return nil, ErrQueueURLRequired
	}
	api, err := LoadSQS(ctx, region)
	if err != nil {
		return nil, err
	}
	return NewSQSClientWith(api, queueURL), nil
}

func NewSQSClientWith(api SendAPI, queueURL string) *SQSClient {
	queueURL = strings.TrimSpace(queueURL)
	return &SQSClient{api: api, queueURL: queueURL, fifo: strings.HasSuffix(queueURL, ".fifo")}
}

func (s *SQSClient) Send(ctx context.Context, msg Message) error {
	body, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", msg.JobID, err)
	}

	in := &sqs.SendMessageInput{
		QueueUrl:          aws.String(s.queueURL),
		MessageBody:       aws.String(string(body)),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{},
	}
	for name, v := range map[string]string{"JobId": msg.JobID, "RequestId": msg.RequestID} {
		if v != "" {
			in.MessageAttributes[name] = sqstypes.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
		}
	}
	if s.fifo {
		in.MessageGroupId = aws.String(ingestGroup)
		in.MessageDeduplicationId = aws.String(msg.JobID)
	}

	if _, err := s.api.SendMessage(ctx, in); err != nil {
		return fmt.Errorf("enqueue job %s: %w", msg.JobID, err)
	}
	return nil
}

var _ Client = (*SQSClient)(nil)
