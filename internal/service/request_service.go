package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"celebrisaludos/internal/events"
	"celebrisaludos/internal/ids"
	"celebrisaludos/internal/metrics"
	"celebrisaludos/internal/models"
	"celebrisaludos/internal/repository"
)

var (
	ErrUnknownPackage  = errors.New("unknown package")
	ErrRequestNotFound = repository.ErrRequestNotFound
)

type PackageCatalog interface {
	Find(id string) (models.ShoutoutPackage, bool)
}

type RequestService struct {
	requests repository.RequestStore
	packages PackageCatalog
	events   events.Publisher
	log      zerolog.Logger
	now      func() time.Time
}

// NewRequestService wires the lifecycle service. publisher may be nil.
func NewRequestService(requests repository.RequestStore, packages PackageCatalog, publisher events.Publisher, log zerolog.Logger) *RequestService {
	return &RequestService{
		requests: requests,
		packages: packages,
		events:   publisher,
		log:      log,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}

type CreateRequestInput struct {
	UserID         string
	UserName       string
	PackageID      string
	RecipientName  string
	Occasion       string
	MessageDetails string
}

func (s *RequestService) Create(ctx context.Context, input CreateRequestInput) (models.ShoutoutRequest, error) {
	pkg, ok := s.packages.Find(input.PackageID)
	if !ok {
		return models.ShoutoutRequest{}, fmt.Errorf("%w: %s", ErrUnknownPackage, input.PackageID)
	}

	req := models.ShoutoutRequest{
		ID:             ids.Prefixed("req"),
		UserID:         input.UserID,
		UserName:       input.UserName,
		PackageID:      pkg.ID,
		PackageName:    pkg.Name,
		PackagePrice:   pkg.Price,
		RecipientName:  input.RecipientName,
		Occasion:       input.Occasion,
		MessageDetails: input.MessageDetails,
		Status:         models.RequestStatusPendingPayment,
		RequestedAt:    s.now(),
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return models.ShoutoutRequest{}, fmt.Errorf("save request: %w", err)
	}

	metrics.RecordTransition(string(req.Status))
	s.publish(ctx, events.RequestCreated, req)
	return req, nil
}

// ConfirmPayment moves the request to PENDING_APPROVAL whatever its current status is.
func (s *RequestService) ConfirmPayment(ctx context.Context, requestID string) (models.ShoutoutRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return models.ShoutoutRequest{}, err
	}

	req.Status = models.RequestStatusPendingApproval
	if err := s.requests.Update(ctx, req); err != nil {
		return models.ShoutoutRequest{}, fmt.Errorf("save request: %w", err)
	}

	metrics.RecordTransition(string(req.Status))
	s.publish(ctx, events.PaymentConfirmed, req)
	return req, nil
}

func (s *RequestService) GetByID(ctx context.Context, requestID string) (models.ShoutoutRequest, error) {
	return s.requests.GetByID(ctx, requestID)
}

func (s *RequestService) ListByUser(ctx context.Context, userID string) ([]models.ShoutoutRequest, error) {
	return s.list(ctx, repository.RequestFilter{UserID: userID})
}

func (s *RequestService) ListAll(ctx context.Context) ([]models.ShoutoutRequest, error) {
	return s.list(ctx, repository.RequestFilter{})
}

func (s *RequestService) ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.ShoutoutRequest, error) {
	return s.list(ctx, repository.RequestFilter{Status: status})
}

// StatusCount is the number of requests in one status. The "ALL" bucket holds the total.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

const AllStatuses = "ALL"

func (s *RequestService) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	all, err := s.requests.List(ctx, repository.RequestFilter{})
	if err != nil {
		return nil, err
	}

	byStatus := make(map[models.RequestStatus]int, len(models.RequestStatuses))
	for _, req := range all {
		byStatus[req.Status]++
	}

	counts := make([]StatusCount, 0, len(models.RequestStatuses)+1)
	counts = append(counts, StatusCount{Status: AllStatuses, Count: len(all)})
	for _, status := range models.RequestStatuses {
		counts = append(counts, StatusCount{Status: string(status), Count: byStatus[status]})
	}
	return counts, nil
}

// UpdateStatusInput carries the optional admin fields. A nil pointer means "not supplied".
type UpdateStatusInput struct {
	Status                models.RequestStatus
	AdminNotes            *string
	VideoURL              *string
	CelebrityMessageToFan *string
	AIImageConceptURL     *string
}

// UpdateStatus applies any status from any status; there is no transition graph.
// Leaving COMPLETED clears the delivery fields.
func (s *RequestService) UpdateStatus(ctx context.Context, requestID string, input UpdateStatusInput) (models.ShoutoutRequest, error) {
	if !input.Status.Valid() {
		return models.ShoutoutRequest{}, fmt.Errorf("unknown request status %q", input.Status)
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return models.ShoutoutRequest{}, err
	}

	req.Status = input.Status
	if input.AdminNotes != nil {
		req.AdminNotes = copyString(input.AdminNotes)
	}

	if input.Status == models.RequestStatusCompleted {
		if nonEmpty(input.VideoURL) {
			req.VideoURL = copyString(input.VideoURL)
		}
		if input.CelebrityMessageToFan != nil {
			req.CelebrityMessageToFan = copyString(input.CelebrityMessageToFan)
		}
		if nonEmpty(input.AIImageConceptURL) {
			req.AIImageConceptURL = copyString(input.AIImageConceptURL)
		}
	} else {
		req.ClearDelivery()
	}

	if err := s.requests.Update(ctx, req); err != nil {
		return models.ShoutoutRequest{}, fmt.Errorf("save request: %w", err)
	}

	metrics.RecordTransition(string(req.Status))
	s.publish(ctx, events.StatusChanged, req)
	return req, nil
}

// list sorts newest first. Equal timestamps keep insertion order.
func (s *RequestService) list(ctx context.Context, filter repository.RequestFilter) ([]models.ShoutoutRequest, error) {
	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].RequestedAt.After(requests[j].RequestedAt)
	})
	if requests == nil {
		requests = []models.ShoutoutRequest{}
	}
	return requests, nil
}

func (s *RequestService) publish(ctx context.Context, typ events.Type, req models.ShoutoutRequest) {
	if s.events == nil {
		return
	}
	evt := events.Event{
		Type:      typ,
		RequestID: req.ID,
		UserID:    req.UserID,
		Status:    string(req.Status),
		At:        s.now(),
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.log.Warn().Err(err).Str("request_id", req.ID).Str("event", string(typ)).Msg("publish event failed")
	}
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}

func copyString(s *string) *string {
	v := *s
	return &v
}
