package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/labstack/gommon/log"
)

// AWSConfig locates the asset in S3 and the SES sender identity.
type AWSConfig struct {
	Region   string
	Bucket   string
	Key      string
	Sender   string
	Subject  string
	LinkTTL  time.Duration
	RetryFor time.Duration
}

// S3Signer presigns GetObject requests for one object.
type S3Signer struct {
	client *s3.PresignClient
	bucket string
	key    string
	ttl    time.Duration
}

// NewS3Signer returns a signer for bucket/key with links valid for ttl.
func NewS3Signer(client *s3.Client, bucket, key string, ttl time.Duration) *S3Signer {
	return &S3Signer{client: s3.NewPresignClient(client), bucket: bucket, key: key, ttl: ttl}
}

// SignURL returns a presigned download URL.
func (s *S3Signer) SignURL(ctx context.Context) (string, error) {
	req, err := s.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("presign s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return req.URL, nil
}

// SESMailer sends mail through SES v2.
type SESMailer struct {
	client *sesv2.Client
	from   string
}

// NewSESMailer returns a mailer sending as from.
func NewSESMailer(client *sesv2.Client, from string) *SESMailer {
	return &SESMailer{client: client, from: from}
}

// Send delivers m.
func (s *SESMailer) Send(ctx context.Context, m Email) error {
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{m.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(m.Subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(m.Text)},
					Html: &types.Content{Data: aws.String(m.HTML)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", m.To, err)
	}
	return nil
}

// NewAWSDeliverer loads AWS credentials from the environment and returns
// a deliverer backed by S3 and SES.
func NewAWSDeliverer(ctx context.Context, cfg AWSConfig, logger *log.Logger) (*AssetDeliverer, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("webhook: load aws config: %w", err)
	}
	signer := NewS3Signer(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Key, cfg.LinkTTL)
	mailer := NewSESMailer(sesv2.NewFromConfig(awsCfg), cfg.Sender)
	return NewAssetDeliverer(signer, mailer, cfg.Subject, cfg.RetryFor, logger), nil
}
