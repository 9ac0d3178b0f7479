package requests

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"skill-hire/internal/domain/business"
	"skill-hire/internal/domain/request"
	"skill-hire/internal/domain/skill"
	"skill-hire/internal/domain/worker"
	"skill-hire/internal/pkg/logger"
	"skill-hire/internal/pkg/validation"
	"skill-hire/internal/repository"
	"skill-hire/internal/session"
)

const suggestionLimit = 3

var (
	ErrInvalidRequest   = errors.New("invalid worker request")
	ErrBusinessNotFound = errors.New("business not found")
	ErrInternal         = errors.New("internal error")
)

type Form struct {
	WorkersNeeded int    `json:"workers_needed" validate:"gte=1"`
	Skill         string `json:"skill" validate:"required"`
	Priority      string `json:"priority" validate:"oneof=Low Normal High Urgent"`
	Duration      string `json:"duration"`
	Description   string `json:"description"`
}

type Result struct {
	Request         request.WorkerRequest   `json:"request"`
	Suggestions     []skill.AvailableWorker `json:"suggestions"`
	SuggestionError string                  `json:"suggestion_error,omitempty"`
}

type Requests interface {
	Create(ctx context.Context, r request.WorkerRequest) (request.WorkerRequest, error)
}

type Businesses interface {
	GetByEmail(ctx context.Context, email string) (business.Business, error)
}

type Workers interface {
	FindAvailableBySkill(ctx context.Context, skill string, limit int) ([]worker.Worker, error)
}

type Service struct {
	requests   Requests
	businesses Businesses
	workers    Workers
	logger     logrus.FieldLogger
	now        func() time.Time
}

func NewService(requests Requests, businesses Businesses, workers Workers, log logrus.FieldLogger) *Service {
	return &Service{
		requests:   requests,
		businesses: businesses,
		workers:    workers,
		logger:     logger.OrDefault(log),
		now:        time.Now,
	}
}

// Submit stores a pending request and suggests the best rated Available
// workers for the skill. A failed suggestion lookup is reported, not fatal.
func (s *Service) Submit(ctx context.Context, sess session.Session, form Form) (Result, error) {
	form.Skill = strings.TrimSpace(form.Skill)
	form.Priority = strings.TrimSpace(form.Priority)
	if form.Priority == "" {
		form.Priority = "Normal"
	}
	if err := validation.Check(ErrInvalidRequest, &form); err != nil {
		return Result{}, err
	}

	biz, err := s.businesses.GetByEmail(ctx, sess.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Result{}, ErrBusinessNotFound
		}
		return Result{}, errors.Join(ErrInternal, err)
	}

	created, err := s.requests.Create(ctx, request.WorkerRequest{
		BusinessID:    biz.ID,
		BusinessName:  biz.Name,
		WorkersNeeded: form.WorkersNeeded,
		Skill:         form.Skill,
		Priority:      form.Priority,
		Duration:      strings.TrimSpace(form.Duration),
		Description:   strings.TrimSpace(form.Description),
		Status:        request.StatusPending,
		CreatedAt:     s.now().UTC(),
	})
	if err != nil {
		return Result{}, errors.Join(ErrInternal, err)
	}

	res := Result{Request: created, Suggestions: []skill.AvailableWorker{}}
	workers, err := s.workers.FindAvailableBySkill(ctx, form.Skill, suggestionLimit)
	if err != nil {
		s.logger.WithError(err).WithField("request_id", created.ID).Warn("worker suggestions unavailable")
		res.SuggestionError = "suggestions unavailable"
		return res, nil
	}
	for _, w := range workers {
		res.Suggestions = append(res.Suggestions, skill.AvailableWorker{
			ID: w.ID, Name: w.Name, Experience: w.Experience, Rating: w.Rating,
		})
	}
	return res, nil
}
