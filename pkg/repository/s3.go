package repository

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/example/buttg/pkg/config"
	"github.com/example/buttg/pkg/notify"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ProofArchive keeps a copy of every payment screenshot.
type S3ProofArchive struct {
	client objectPutter
	bucket string
	prefix string
}

func NewS3ProofArchive(ctx context.Context, cfg config.S3Config) (*S3ProofArchive, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &S3ProofArchive{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// Archive uploads proof under <prefix><orderID>/<filename> and returns the key.
func (a *S3ProofArchive) Archive(ctx context.Context, orderID string, proof notify.Attachment) (string, error) {
	key := path.Join(a.prefix, orderID, proof.Filename)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(proof.Data),
		ContentType: aws.String(proof.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload proof to S3: %w", err)
	}
	return key, nil
}
