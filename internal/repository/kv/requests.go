package kv

import (
	"context"
	"sync"

	"celebrisaludos/internal/models"
	"celebrisaludos/internal/repository"
)

const requestsPartition = "requests"

type RequestStore struct {
	partitions
	mu sync.Mutex
}

func NewRequestStore(backend Backend, opts Options) *RequestStore {
	return &RequestStore{partitions: partitions{backend: backend, opts: opts}}
}

func (s *RequestStore) Create(ctx context.Context, req models.ShoutoutRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests, err := s.readAll(ctx)
	if err != nil {
		return err
	}
	requests = append(requests, req)
	return s.save(ctx, s.key(requestsPartition), requests)
}

func (s *RequestStore) GetByID(ctx context.Context, id string) (models.ShoutoutRequest, error) {
	requests, err := s.readAll(ctx)
	if err != nil {
		return models.ShoutoutRequest{}, err
	}
	for _, req := range requests {
		if req.ID == id {
			return req, nil
		}
	}
	return models.ShoutoutRequest{}, repository.ErrRequestNotFound
}

// Update replaces the stored record in place, keeping its position in the partition.
func (s *RequestStore) Update(ctx context.Context, req models.ShoutoutRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests, err := s.readAll(ctx)
	if err != nil {
		return err
	}
	for i := range requests {
		if requests[i].ID == req.ID {
			requests[i] = req
			return s.save(ctx, s.key(requestsPartition), requests)
		}
	}
	return repository.ErrRequestNotFound
}

func (s *RequestStore) List(ctx context.Context, filter repository.RequestFilter) ([]models.ShoutoutRequest, error) {
	requests, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.ShoutoutRequest, 0, len(requests))
	for _, req := range requests {
		if filter.Match(req) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *RequestStore) readAll(ctx context.Context) ([]models.ShoutoutRequest, error) {
	var requests []models.ShoutoutRequest
	if _, err := s.load(ctx, s.key(requestsPartition), &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

var _ repository.RequestStore = (*RequestStore)(nil)
