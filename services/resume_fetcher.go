package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// ResumeFetcher downloads the candidate's resume from S3 when the profile
// points at a bucket key instead of a local file. Credentials come from the
// standard AWS environment/shared-config chain.
type ResumeFetcher struct {
	s3Client *s3.S3
	bucket   string
}

func NewResumeFetcher(region, bucket string) (*ResumeFetcher, error) {
	if region == "" || bucket == "" {
		return nil, fmt.Errorf("AWS region and bucket not configured")
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %v", err)
	}
	return &ResumeFetcher{s3Client: s3.New(sess), bucket: bucket}, nil
}

// Fetch downloads the object to a temp file and returns the local path.
// The caller owns cleanup of the returned file.
func (f *ResumeFetcher) Fetch(key string) (string, error) {
	out, err := f.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to download resume %s: %v", key, err)
	}
	defer out.Body.Close()

	tmp, err := os.CreateTemp("", "resume-*"+filepath.Ext(key))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %v", err)
	}
	defer tmp.Close()

	n, err := tmp.ReadFrom(out.Body)
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write resume: %v", err)
	}

	log.Printf("✓ Downloaded resume %s (%d bytes) to %s", key, n, tmp.Name())
	return tmp.Name(), nil
}
