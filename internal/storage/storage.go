// Package storage uploads catalog assets to an S3-compatible object store and
// serves back publicly resolvable URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pharmindex/pharmindex/internal/config"
	"go.uber.org/zap"
)

var (
	ErrUpload = errors.New("storage upload failed")
	ErrRemove = errors.New("storage remove failed")
)

// Gateway stores binary objects under a folder convention and returns public
// URLs. Remove derives the object key from a previously returned URL, so it is
// only coherent for URLs this gateway produced.
type Gateway interface {
	Upload(ctx context.Context, folder, fileName string, content io.Reader) (string, error)
	Remove(ctx context.Context, folder, objectURL string) error
}

type s3Gateway struct {
	client        *s3.Client
	log           *zap.Logger
	bucket        string
	region        string
	publicBaseURL string
}

func NewS3Gateway(cfg config.Config, log *zap.Logger) (Gateway, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.StorageRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("load object store config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.StorageEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.StorageEndpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Gateway{
		client:        client,
		log:           log.Named("storage.gateway"),
		bucket:        cfg.StorageBucket,
		region:        cfg.StorageRegion,
		publicBaseURL: cfg.StoragePublicBaseURL,
	}, nil
}

// Upload writes content under folder using a collision-resistant object name
// that keeps the original file extension.
func (g *s3Gateway) Upload(ctx context.Context, folder, fileName string, content io.Reader) (string, error) {
	key := objectKey(folder, fileName)

	_, err := g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
		Body:   content,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	return g.publicURL(key), nil
}

// Remove deletes the object a previously returned URL points at. The key is
// rebuilt from the URL's final path segment plus the folder convention used at
// upload time.
func (g *s3Gateway) Remove(ctx context.Context, folder, objectURL string) error {
	key, err := keyFromURL(folder, objectURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemove, err)
	}

	_, err = g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemove, err)
	}

	g.log.Debug("object removed", zap.String("key", key))
	return nil
}

func (g *s3Gateway) publicURL(key string) string {
	if g.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", g.publicBaseURL, g.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", g.bucket, g.region, key)
}

func objectKey(folder, fileName string) string {
	name := uuid.NewString() + strings.ToLower(path.Ext(fileName))
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

func keyFromURL(folder, objectURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(objectURL))
	if err != nil {
		return "", err
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("no object name in url %q", objectURL)
	}
	if folder == "" {
		return name, nil
	}
	return path.Join(folder, name), nil
}
