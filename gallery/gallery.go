// Package gallery owns upload identifiers and the pipeline from raw image
// bytes to stored gallery objects.
package gallery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/atticweb/attic/discord"
	"github.com/atticweb/attic/images"
)

const (
	presignExpiry   = 10 * time.Minute
	maxAttachmentMB = 50
)

// ObjectStore is the slice of the bucket API the gallery needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	List(ctx context.Context, prefix string) ([]string, error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Service converts and stores images and resolves gallery listings.
type Service struct {
	store ObjectStore
	http  *http.Client
}

func NewService(store ObjectStore, httpClient *http.Client) *Service {
	return &Service{store: store, http: httpClient}
}

// Upload stores a single image under a fresh gallery ID and returns the ID.
func (s *Service) Upload(ctx context.Context, data []byte) (string, error) {
	id := uuid.NewString()
	if err := s.UploadRaw(ctx, id, 0, data); err != nil {
		return "", err
	}
	return id, nil
}

// UploadRaw converts data to JPEG and stores it as entry seq of gallery id.
func (s *Service) UploadRaw(ctx context.Context, id string, seq int, data []byte) error {
	converted, err := images.Convert(data)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, fmt.Sprintf("%s/%d.jpg", id, seq), converted, "image/jpeg")
}

// View returns presigned URLs for every image in gallery id, in listing
// order. An ID with no objects returns an empty slice.
func (s *Service) View(ctx context.Context, id string) ([]string, error) {
	keys, err := s.store.List(ctx, id+"/")
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		u, err := s.store.PresignGet(ctx, key, presignExpiry)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// SaveResult summarizes an attachment batch upload.
type SaveResult struct {
	ID       string
	Uploaded int
	Skipped  int
	Failed   int
}

// SaveAttachments uploads every image attachment of a message into one new
// gallery, fetching and converting concurrently. Non-image attachments are
// counted as skipped; individual fetch or upload failures are logged and
// counted, never fatal for the batch.
func (s *Service) SaveAttachments(ctx context.Context, attachments []discord.Attachment) SaveResult {
	result := SaveResult{ID: uuid.NewString()}

	var failed atomic.Int64
	group, ctx := errgroup.WithContext(ctx)

	seq := 0
	for _, attachment := range attachments {
		if !isImage(attachment.ContentType) {
			result.Skipped++
			continue
		}
		attachment := attachment
		uploadSeq := seq
		seq++
		group.Go(func() error {
			if err := s.uploadFromURL(ctx, result.ID, uploadSeq, attachment.URL); err != nil {
				log.Error().Err(err).Str("url", attachment.URL).Msg("attachment upload failed")
				failed.Add(1)
			}
			return nil
		})
	}
	_ = group.Wait()

	result.Failed = int(failed.Load())
	result.Uploaded = seq - result.Failed
	return result
}

func (s *Service) uploadFromURL(ctx context.Context, id string, seq int, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building attachment request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("attachment fetch returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAttachmentMB<<20))
	if err != nil {
		return fmt.Errorf("reading attachment body: %w", err)
	}
	return s.UploadRaw(ctx, id, seq, data)
}

func isImage(contentType string) bool {
	return len(contentType) >= 5 && contentType[:5] == "image"
}
