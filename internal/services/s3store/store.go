package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// DefaultRegion is reported for buckets whose location constraint is empty.
const DefaultRegion = "us-east-1"

// API is the subset of the S3 client used by the store.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Store uploads and removes source objects in a single bucket.
type Store struct {
	api    API
	bucket string
	region string
}

// New wraps an S3 API bound to bucket.
func New(api API, bucket, region string) *Store {
	return &Store{api: api, bucket: strings.TrimSpace(bucket), region: region}
}

// NewFromAWS detects the bucket region and returns a store whose client is
// pinned to it.
func NewFromAWS(ctx context.Context, awsCfg aws.Config, bucket string) (*Store, error) {
	region, err := BucketRegion(ctx, s3.NewFromConfig(awsCfg), bucket)
	if err != nil {
		return nil, err
	}
	regional := awsCfg.Copy()
	regional.Region = region
	return New(s3.NewFromConfig(regional), bucket, region), nil
}

// Bucket returns the bucket name.
func (s *Store) Bucket() string { return s.bucket }

// Region returns the region the store's client is bound to.
func (s *Store) Region() string { return s.region }

// Put uploads body under name with AES256 server-side encryption and returns
// the s3:// locator.
func (s *Store) Put(ctx context.Context, name string, body io.Reader) (string, error) {
	key := strings.TrimSpace(name)
	if key == "" {
		return "", errors.New("s3 put: object name required")
	}
	if s.bucket == "" {
		return "", errors.New("s3 put: bucket required")
	}
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(key),
		Body:                 body,
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return Locator(s.bucket, key), nil
}

// Delete removes the object behind locator.
func (s *Store) Delete(ctx context.Context, locator string) error {
	bucket, key, err := ParseLocator(locator)
	if err != nil {
		return err
	}
	if _, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("s3 delete %s: %w", locator, err)
	}
	return nil
}

// Locator formats an s3:// URI.
func Locator(bucket, key string) string {
	return "s3://" + bucket + "/" + key
}

// ParseLocator splits an s3:// URI into bucket and key.
func ParseLocator(locator string) (string, string, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(locator), "s3://")
	if !ok {
		return "", "", fmt.Errorf("invalid s3 locator %q", locator)
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 locator %q", locator)
	}
	return bucket, key, nil
}

// BucketRegion returns the bucket's region, mapping the empty location
// constraint to us-east-1.
func BucketRegion(ctx context.Context, api API, bucket string) (string, error) {
	out, err := api.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: aws.String(bucket)})
	if err != nil {
		return "", fmt.Errorf("get bucket location %s: %w", bucket, err)
	}
	region := string(out.LocationConstraint)
	switch region {
	case "":
		return DefaultRegion, nil
	case "EU":
		return "eu-west-1", nil
	}
	return region, nil
}

// ListBuckets returns the account's bucket names in sorted order.
func ListBuckets(ctx context.Context, api API) ([]string, error) {
	out, err := api.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	names := make([]string, 0, len(out.Buckets))
	for _, bucket := range out.Buckets {
		if name := aws.ToString(bucket.Name); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// BucketExists reports whether bucket is reachable with the current credentials.
func BucketExists(ctx context.Context, api API, bucket string) (bool, error) {
	if strings.TrimSpace(bucket) == "" {
		return false, nil
	}
	_, err := api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	var noSuch *types.NoSuchBucket
	if errors.As(err, &notFound) || errors.As(err, &noSuch) {
		return false, nil
	}
	return false, fmt.Errorf("head bucket %s: %w", bucket, err)
}
