package storage

import (
	"context"
	"errors"
	"io"

	"docvault/internal/resilience"
)

// resilientStorage wraps a Storage with retries and a circuit breaker per operation.
type resilientStorage struct {
	next Storage
	exec *resilience.Executor
}

// NewResilient decorates next with the executor's retry and breaker policy.
// Put is never retried because the reader cannot be replayed.
func NewResilient(next Storage, exec *resilience.Executor) Storage {
	return &resilientStorage{next: next, exec: exec}
}

func (s *resilientStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	var info ObjectInfo
	err := s.exec.Execute(ctx, "storage.put", func(ctx context.Context) error {
		var err error
		info, err = s.next.Put(ctx, key, r, opt)
		return err
	}, classifyNoRetry)
	return info, err
}

func (s *resilientStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	var (
		rc   io.ReadCloser
		info ObjectInfo
	)
	err := s.exec.Execute(ctx, "storage.get", func(ctx context.Context) error {
		var err error
		rc, info, err = s.next.Get(ctx, key)
		return err
	}, classify)
	return rc, info, err
}

func (s *resilientStorage) Exists(ctx context.Context, key string) (bool, error) {
	var ok bool
	err := s.exec.Execute(ctx, "storage.exists", func(ctx context.Context) error {
		var err error
		ok, err = s.next.Exists(ctx, key)
		return err
	}, classify)
	return ok, err
}

func (s *resilientStorage) Delete(ctx context.Context, key string) error {
	return s.exec.Execute(ctx, "storage.delete", func(ctx context.Context) error {
		return s.next.Delete(ctx, key)
	}, classify)
}

func classify(err error) resilience.Classification {
	switch {
	case errors.Is(err, ErrObjectNotFound):
		return resilience.Classification{}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resilience.Classification{}
	}
	return resilience.Classification{Retryable: true, RecordFailure: true}
}

func classifyNoRetry(err error) resilience.Classification {
	c := classify(err)
	c.Retryable = false
	return c
}
