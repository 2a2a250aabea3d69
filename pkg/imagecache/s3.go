package imagecache

import (
	"bytes"
	"context"
	"net/http"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
)

// DefaultURLExpiry is how long a presigned URL stays valid.
const DefaultURLExpiry = time.Hour

// S3Config describes an S3-compatible endpoint. Endpoint may be empty
// for AWS itself; credentials may be empty to use the default AWS
// credential chain.
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
}

func NewS3Client(config S3Config) (*s3.S3, error) {
	awsConfig := &aws.Config{
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(config.ForcePathStyle),
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}
	if config.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKeyID, config.SecretAccessKey, "")
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, errors.Wrap(err, "creating AWS session")
	}
	return s3.New(sess), nil
}

// S3Store keeps images as private objects in a bucket and hands out
// presigned GET URLs for them.
type S3Store struct {
	client s3iface.S3API
	bucket string
	prefix string
	expiry time.Duration
}

func NewS3Store(client s3iface.S3API, bucket, prefix string, expiry time.Duration) *S3Store {
	if expiry <= 0 {
		expiry = DefaultURLExpiry
	}
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
		expiry: expiry,
	}
}

func (s *S3Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, "checking for s3://%s/%s", s.bucket, s.objectKey(key))
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.objectKey(key)),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return errors.Wrapf(err, "uploading s3://%s/%s", s.bucket, s.objectKey(key))
	}
	return nil
}

func (s *S3Store) URL(ctx context.Context, key string) (string, error) {
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	req.SetContext(ctx)
	u, err := req.Presign(s.expiry)
	if err != nil {
		return "", errors.Wrapf(err, "presigning s3://%s/%s", s.bucket, s.objectKey(key))
	}
	return u, nil
}

// HEAD responses carry no body, so a missing object shows up as a bare
// 404 rather than NoSuchKey.
func isNotFound(err error) bool {
	if reqErr, ok := err.(awserr.RequestFailure); ok && reqErr.StatusCode() == http.StatusNotFound {
		return true
	}
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case "NotFound", s3.ErrCodeNoSuchKey:
			return true
		}
	}
	return false
}
