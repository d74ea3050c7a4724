// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"community-helper-bot/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	// Endpoint overrides the account endpoint (tests, other S3-compatible stores).
	Endpoint string
}

// MediaArchive keeps a copy of every media payload attached to a response rule.
type MediaArchive struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

func NewMediaArchive(ctx context.Context, rc R2Config) (*MediaArchive, error) {
	endpoint := rc.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", rc.AccountID)
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			rc.AccessKeyID, rc.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &MediaArchive{client: client, bucket: rc.Bucket, endpoint: strings.TrimRight(endpoint, "/")}, nil
}

// ArchiveKey builds the object key for a response payload, e.g.
// "responses/photo/welcome-1f0c2a9e.jpg".
func ArchiveKey(trigger string, kind models.ResponseKind) string {
	name := slug.Make(trigger)
	if name == "" {
		name = "response"
	}
	ext := path.Ext(kind.FileName())
	return fmt.Sprintf("responses/%s/%s-%s%s", kind, name, uuid.NewString()[:8], ext)
}

// Put uploads data under key and returns the object URL.
func (a *MediaArchive) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", a.endpoint, a.bucket, key), nil
}

// ArchiveResponse uploads a media payload; text kinds are skipped.
func (a *MediaArchive) ArchiveResponse(ctx context.Context, trigger string, kind models.ResponseKind, data []byte) (string, error) {
	if !kind.IsMedia() {
		return "", nil
	}
	return a.Put(ctx, ArchiveKey(trigger, kind), data, kind.ContentType())
}
