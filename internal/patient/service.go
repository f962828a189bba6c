package patient

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/messaging"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/pagination"
)

// MetricsRecorder is the slice of telemetry.Metrics used here.
type MetricsRecorder interface {
	RecordPatientRegistered(ctx context.Context)
}

type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
	log       *zap.Logger
	now       func() time.Time
}

func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface, metrics MetricsRecorder, log *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		log:       log.Named("patient"),
		now:       time.Now,
	}
}

func (s *Service) Register(ctx context.Context, actor *auth.Principal, req RegisterPatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &Patient{
		Name:         req.Name,
		Age:          *req.Age,
		Gender:       req.Gender,
		Contact:      req.Contact,
		Address:      req.Address,
		RegisteredBy: actor.UserID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("registered patient", zap.String("patient_id", p.ID), zap.String("registered_by", actor.UserID))
	if s.metrics != nil {
		s.metrics.RecordPatientRegistered(ctx)
	}
	messaging.PublishAfterCommit(ctx, s.publisher, s.log, messaging.EventPatientRegistered, messaging.PatientRegisteredEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventPatientRegistered),
		Data: messaging.PatientRegisteredData{
			PatientID:    p.ID,
			Name:         p.Name,
			Contact:      p.Contact,
			RegisteredBy: p.RegisteredBy,
			CreatedAt:    p.CreatedAt,
		},
	})
	return p, nil
}

func (s *Service) Search(ctx context.Context, keyword string, params pagination.Params) (*SearchResult, error) {
	params.Validate()
	patients, total, err := s.repo.Search(ctx, keyword, params)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Patients: patients, Pagination: params.Meta(total)}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) AddHistory(ctx context.Context, actor *auth.Principal, id string, req AddHistoryRequest) ([]HistoryEntry, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrMissingDescription
	}

	entries, err := s.repo.AppendHistory(ctx, id, HistoryEntry{
		Description: description,
		Date:        s.now().UTC(),
		AddedBy:     actor.UserID,
		AuthorName:  actor.Name,
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("appended patient history", zap.String("patient_id", id), zap.Int("entries", len(entries)))
	return entries, nil
}
