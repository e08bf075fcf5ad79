package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures access to s3:// locations. Empty fields fall back to
// the AWS default configuration chain.
type S3Options struct {
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string // S3-compatible endpoint, enables path-style addressing
}

type scheme string

const (
	schemeLocal scheme = "local"
	schemeFile  scheme = "file"
	schemeS3    scheme = "s3"
	schemeHTTP  scheme = "http"
)

// location is an import source or export target. path holds the file path
// for local and file:// locations and the full URL for http(s).
type location struct {
	scheme scheme
	path   string
	bucket string
	key    string
}

func parseLocation(raw string) (location, error) {
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "s3://"):
		bucket, key, _ := strings.Cut(raw[len("s3://"):], "/")
		if bucket == "" || key == "" {
			return location{}, fmt.Errorf("invalid S3 URL: %s", raw)
		}
		return location{scheme: schemeS3, bucket: bucket, key: key}, nil
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return location{scheme: schemeHTTP, path: raw}, nil
	case strings.HasPrefix(lower, "file://"):
		return location{scheme: schemeFile, path: raw[len("file://"):]}, nil
	default:
		return location{scheme: schemeLocal, path: raw}, nil
	}
}

func (l location) String() string {
	if l.scheme == schemeS3 {
		return "s3://" + l.bucket + "/" + l.key
	}
	return l.path
}

func (l location) open(ctx context.Context, opts S3Options) (io.ReadCloser, error) {
	switch l.scheme {
	case schemeHTTP:
		return fetch(ctx, l.path)
	case schemeS3:
		client, err := newS3Client(ctx, opts)
		if err != nil {
			return nil, err
		}
		out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(l.bucket), Key: aws.String(l.key)})
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", l, err)
		}
		return out.Body, nil
	default:
		return os.Open(l.path)
	}
}

func (l location) create(ctx context.Context, opts S3Options) (io.WriteCloser, error) {
	switch l.scheme {
	case schemeHTTP:
		return nil, fmt.Errorf("cannot write to %s: HTTP locations are read-only", l)
	case schemeS3:
		client, err := newS3Client(ctx, opts)
		if err != nil {
			return nil, err
		}
		return &s3Upload{ctx: ctx, client: client, target: l}, nil
	default:
		return os.Create(l.path)
	}
}

var httpClient = &http.Client{Timeout: 5 * time.Minute}

func fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

func newS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		provider := credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")
		loadOpts = append(loadOpts, config.WithCredentialsProvider(provider))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// s3Upload collects the CSV in memory and puts the object on Close.
type s3Upload struct {
	ctx    context.Context
	client *s3.Client
	target location
	buf    bytes.Buffer
	done   bool
}

var errUploadClosed = errors.New("upload already closed")

func (u *s3Upload) Write(p []byte) (int, error) {
	if u.done {
		return 0, errUploadClosed
	}
	return u.buf.Write(p)
}

func (u *s3Upload) Close() error {
	if u.done {
		return nil
	}
	u.done = true

	_, err := u.client.PutObject(u.ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.target.bucket),
		Key:         aws.String(u.target.key),
		Body:        bytes.NewReader(u.buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", u.target, err)
	}
	return nil
}
