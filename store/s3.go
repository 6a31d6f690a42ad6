// Package store archives finished videos to S3-compatible storage.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// Config sets up the archive client. Empty values fall back to the standard
// AWS config/credential chain.
type Config struct {
	Bucket string
	Region string
	// UsePathStyle forces path-style addressing for S3-compatible providers.
	UsePathStyle bool
}

// Archive stores finished videos under videos/<postID>.mp4.
type Archive struct {
	client *s3.Client
	bucket string
}

func NewArchive(ctx context.Context, cfg Config) (*Archive, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive bucket not configured")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &Archive{client: client, bucket: cfg.Bucket}, nil
}

// ArchiveVideo uploads the finished video for a post.
func (a *Archive) ArchiveVideo(ctx context.Context, postID, videoPath string) error {
	file, err := os.Open(videoPath)
	if err != nil {
		return fmt.Errorf("failed to open video for archiving: %w", err)
	}
	defer file.Close()

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(videoKey(postID)),
		Body:        file,
		ContentType: aws.String("video/mp4"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive video for post %s: %w", postID, err)
	}
	return nil
}

// Archived reports whether a video for the post already exists in the
// archive. A 404 or NotFound answer means no; other errors propagate.
func (a *Archive) Archived(ctx context.Context, postID string) (bool, error) {
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(videoKey(postID)),
	})
	if err == nil {
		return true, nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}
	return false, err
}

func videoKey(postID string) string {
	return path.Join("videos", postID+".mp4")
}
