package repository

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/example/buttg/pkg/notify"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3ProofArchive(t *testing.T) {
	putter := &fakePutter{}
	archive := &S3ProofArchive{client: putter, bucket: "proofs", prefix: "payment-proofs/"}

	key, err := archive.Archive(context.Background(), "BG1700000000000", notify.Attachment{
		Filename:    "payment-BG1700000000000.png",
		ContentType: "image/png",
		Data:        []byte("png-bytes"),
	})
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if key != "payment-proofs/BG1700000000000/payment-BG1700000000000.png" {
		t.Errorf("key = %q", key)
	}
	if aws.ToString(putter.input.Bucket) != "proofs" || aws.ToString(putter.input.ContentType) != "image/png" {
		t.Errorf("input = %+v", putter.input)
	}
	if string(putter.body) != "png-bytes" {
		t.Errorf("body = %q", putter.body)
	}
}
