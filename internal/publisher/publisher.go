// Package publisher uploads an asset tree into an object store.
package publisher

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/savaki/static-publisher/internal/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of uploads in flight.
const DefaultConcurrency = 16

// ACL is the access policy applied to an uploaded object.
type ACL string

const (
	ACLPrivate ACL = "private"
)

// PutInput describes a single object write.
type PutInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	ACL         ACL
}

// ObjectStore writes objects by key, overwriting any existing object.
type ObjectStore interface {
	Put(ctx context.Context, input PutInput) error
}

// Publisher uploads files to an ObjectStore under their relative path.
type Publisher struct {
	store       ObjectStore
	concurrency int
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithConcurrency caps the number of concurrent uploads. A value <= 0
// removes the cap.
func WithConcurrency(n int) Option {
	return func(p *Publisher) {
		p.concurrency = n
	}
}

func New(store ObjectStore, opts ...Option) *Publisher {
	p := &Publisher{
		store:       store,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish uploads every key, read from fsys, into bucket and waits for all
// uploads to finish. It returns nil only when every upload succeeded,
// otherwise the first error observed. A failed upload does not stop the
// others and objects already written are left in place. A panic in the
// store is returned as an upload error.
func (p *Publisher) Publish(ctx context.Context, fsys fs.FS, bucket string, keys []string) (err error) {
	logger := zerolog.Ctx(ctx)

	var uploaded atomic.Int64
	defer func(begin time.Time) {
		logger.Info().
			Err(err).
			Str("bucket", bucket).
			Int("files", len(keys)).
			Int64("uploaded", uploaded.Load()).
			Dur("duration", time.Since(begin)).
			Msg("Publish completed")
	}(time.Now())

	var g errgroup.Group
	if p.concurrency > 0 {
		g.SetLimit(p.concurrency)
	}

	for _, key := range keys {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: %s: panic: %v", errors.ErrUpload, key, r)
					logger.Error().Err(err).Str("key", key).Msg("Upload panicked")
				}
			}()

			if err := p.upload(ctx, fsys, bucket, key); err != nil {
				logger.Error().Err(err).Str("key", key).Msg("Upload failed")
				return err
			}
			uploaded.Add(1)
			return nil
		})
	}

	return g.Wait()
}

func (p *Publisher) upload(ctx context.Context, fsys fs.FS, bucket, key string) error {
	f, err := fsys.Open(key)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", errors.ErrUpload, key, err)
	}
	defer func() { _ = f.Close() }()

	contentType := ContentType(key)
	zerolog.Ctx(ctx).Debug().Msgf("%s -> %s", key, contentType)

	err = p.store.Put(ctx, PutInput{
		Bucket:      bucket,
		Key:         key,
		Body:        f,
		ContentType: contentType,
		ACL:         ACLPrivate,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errors.ErrUpload, key, err)
	}

	return nil
}
