// Package s3 implements blob storage backed by Amazon S3 or S3-compatible
// services such as MinIO.
//
// This file contains the blob.Store operations: upload, move, delete and
// signed-URL generation.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/marmos91/dittodrive/internal/telemetry"
)

// PutObject uploads body under key, overwriting any existing object.
//
// The body is buffered in memory so transient failures can be retried with
// the same payload. Drive uploads are metadata-sized (documents, not media
// streams), which keeps this acceptable.
//
// Retry behavior: transient errors (network issues, throttling, 5xx) are
// retried with exponential backoff.
func (s *S3Store) PutObject(ctx context.Context, key string, body io.Reader, contentType string) (err error) {
	ctx, span := telemetry.StartBlobSpan(ctx, "put", key,
		telemetry.Bucket(s.bucket))
	defer span.End()

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveOperation("PutObject", time.Since(start), err)
		}
		if err != nil {
			telemetry.RecordError(ctx, err)
		}
	}()

	if err = ctx.Err(); err != nil {
		return err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read upload body: %w", err)
	}

	objectKey := s.objectKey(key)
	err = s.withRetry(ctx, "PutObject", objectKey, func() error {
		input := &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objectKey),
			Body:   bytes.NewReader(data),
		}
		if contentType != "" {
			input.ContentType = aws.String(contentType)
		}
		_, putErr := s.client.PutObject(ctx, input)
		return putErr
	})
	if err != nil {
		return classifyError(err, "PutObject", key)
	}

	if s.metrics != nil {
		s.metrics.RecordBytes("write", int64(len(data)))
	}
	return nil
}

// MoveObject relocates the object at oldKey to newKey.
//
// S3 has no native rename; this is a server-side copy followed by a delete
// of the source. A crash between the two leaves both objects in place,
// which is harmless: metadata points at exactly one of them.
func (s *S3Store) MoveObject(ctx context.Context, oldKey, newKey string) (err error) {
	ctx, span := telemetry.StartBlobSpan(ctx, "move", oldKey,
		telemetry.Bucket(s.bucket))
	defer span.End()

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveOperation("MoveObject", time.Since(start), err)
		}
		if err != nil {
			telemetry.RecordError(ctx, err)
		}
	}()

	if err = ctx.Err(); err != nil {
		return err
	}

	src := s.objectKey(oldKey)
	dst := s.objectKey(newKey)

	err = s.withRetry(ctx, "CopyObject", dst, func() error {
		_, copyErr := s.client.CopyObject(ctx, &s3.CopyObjectInput{
			Bucket:     aws.String(s.bucket),
			Key:        aws.String(dst),
			CopySource: aws.String(url.PathEscape(s.bucket + "/" + src)),
		})
		return copyErr
	})
	if err != nil {
		return classifyError(err, "MoveObject", oldKey)
	}

	err = s.withRetry(ctx, "DeleteObject", src, func() error {
		_, delErr := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(src),
		})
		return delErr
	})
	if err != nil {
		return classifyError(err, "MoveObject", oldKey)
	}

	return nil
}

// DeleteObject removes the object at key.
//
// This operation is idempotent - deleting non-existent content returns nil,
// matching S3's own semantics.
func (s *S3Store) DeleteObject(ctx context.Context, key string) (err error) {
	ctx, span := telemetry.StartBlobSpan(ctx, "delete", key,
		telemetry.Bucket(s.bucket))
	defer span.End()

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveOperation("DeleteObject", time.Since(start), err)
		}
		if err != nil {
			telemetry.RecordError(ctx, err)
		}
	}()

	if err = ctx.Err(); err != nil {
		return err
	}

	objectKey := s.objectKey(key)
	err = s.withRetry(ctx, "DeleteObject", objectKey, func() error {
		_, delErr := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objectKey),
		})
		return delErr
	})
	if err != nil {
		return classifyError(err, "DeleteObject", key)
	}
	return nil
}

// PresignGetObject returns a time-limited URL granting read access to the
// object at key. The URL embeds its own credentials; anyone holding it can
// download the object until it expires.
func (s *S3Store) PresignGetObject(ctx context.Context, key string, ttl time.Duration) (u string, err error) {
	ctx, span := telemetry.StartBlobSpan(ctx, "presign_get", key,
		telemetry.Bucket(s.bucket))
	defer span.End()

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveOperation("PresignGetObject", time.Since(start), err)
		}
		if err != nil {
			telemetry.RecordError(ctx, err)
		}
	}()

	if err = ctx.Err(); err != nil {
		return "", err
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", classifyError(err, "PresignGetObject", key)
	}

	return req.URL, nil
}
