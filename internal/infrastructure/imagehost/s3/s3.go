package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appconfig "github.com/baechuer/alchies-rsvp/internal/config"
	"github.com/baechuer/alchies-rsvp/internal/infrastructure/imagehost/sanitizer"
)

const folder = "alchies-events"

// putter is the slice of the S3 API the host uses.
type putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Host stores sanitised event images in one public bucket behind a CDN.
type Host struct {
	client   putter
	bucket   string
	cdnBase  string
	maxWidth int
	log      zerolog.Logger
}

// NewHost creates an S3 client configured for MinIO, R2 or AWS.
func NewHost(cfg *appconfig.Config, log zerolog.Logger) (*Host, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
	}
	if cfg.S3Endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.S3Endpoint,
				HostnameImmutable: true,
			}, nil
		})
		opts = append(opts, config.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return newHost(client, cfg.S3Bucket, cfg.CDNBaseURL, cfg.ImageMaxWidth, log), nil
}

func newHost(client putter, bucket, cdnBase string, maxWidth int, log zerolog.Logger) *Host {
	if maxWidth <= 0 {
		maxWidth = sanitizer.DefaultMaxWidth
	}
	return &Host{client: client, bucket: bucket, cdnBase: cdnBase, maxWidth: maxWidth, log: log}
}

// Upload sanitises data and stores it. It returns the public URL and object id.
func (h *Host) Upload(ctx context.Context, data []byte) (string, string, error) {
	clean, err := sanitizer.Process(data, h.maxWidth)
	if err != nil {
		return "", "", err
	}

	id := folder + "/alchies-event-" + uuid.NewString()
	key := id + ".jpg"
	_, err = h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(h.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(clean),
		ContentType:   aws.String("image/jpeg"),
		ContentLength: aws.Int64(int64(len(clean))),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	h.log.Info().Str("key", key).Int("bytes", len(clean)).Msg("image stored")
	return h.PublicURL(key), id, nil
}

// PublicURL returns the public URL for a stored object.
func (h *Host) PublicURL(objectKey string) string {
	return h.cdnBase + "/" + objectKey
}
