// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage reads sheets kept in S3-compatible object storage. It
// wraps the AWS SDK v2 and is configured for path-style access (required
// by CEPH/Hetzner).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Scheme is the URL scheme of object locations, as in s3://bucket/key.
const Scheme = "s3"

// ErrTooLarge is returned by Download when an object exceeds the limit.
var ErrTooLarge = errors.New("object too large")

// Client wraps an S3 client for reading objects.
type Client struct {
	s3       *s3.Client
	endpoint string
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// start without storage.
func New(endpoint, region, accessKey, secretKey string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}

	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{s3: s3Client, endpoint: endpoint}, nil
}

// Endpoint returns the configured endpoint without a trailing slash.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Download retrieves an object and returns its contents. Objects larger
// than limit bytes fail with ErrTooLarge; a limit of 0 or less means no
// limit.
func (c *Client) Download(ctx context.Context, bucket, key string, limit int64) ([]byte, error) {
	output, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 download %s/%s: %w", bucket, key, err)
	}
	defer output.Body.Close()

	if limit > 0 && output.ContentLength != nil && *output.ContentLength > limit {
		return nil, fmt.Errorf("s3 download %s/%s: %w", bucket, key, ErrTooLarge)
	}

	var body io.Reader = output.Body
	if limit > 0 {
		body = io.LimitReader(output.Body, limit+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("s3 read body %s/%s: %w", bucket, key, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("s3 download %s/%s: %w", bucket, key, ErrTooLarge)
	}
	return data, nil
}

// ParseLocation splits an s3://bucket/key location. It reports false for
// anything else, including a location without a key.
func ParseLocation(location string) (bucket, key string, ok bool) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme != Scheme || u.Host == "" {
		return "", "", false
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", false
	}
	return u.Host, key, true
}
