package skills

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"skill-hire/internal/domain/skill"
	"skill-hire/internal/domain/worker"
	"skill-hire/internal/pkg/logger"
	"skill-hire/internal/realtime"
)

const cacheKey = "skills:availability"

type Catalogue interface {
	ListAll(ctx context.Context) ([]skill.Skill, error)
}

type Workers interface {
	ListAvailable(ctx context.Context) ([]worker.Worker, error)
}

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Result struct {
	Skills   []skill.Availability `json:"skills"`
	Degraded bool                 `json:"degraded"`
}

type Service struct {
	catalogue Catalogue
	workers   Workers
	cache     Cache
	ttl       time.Duration
	logger    logrus.FieldLogger
}

func NewService(catalogue Catalogue, workers Workers, cache Cache, ttl time.Duration, log logrus.FieldLogger) *Service {
	return &Service{catalogue: catalogue, workers: workers, cache: cache, ttl: ttl, logger: logger.OrDefault(log)}
}

// Availability lists every catalogue skill with the Available workers who
// have it. When workers cannot be loaded the default catalogue is returned
// with zero counts and Degraded set; that result is not cached.
func (s *Service) Availability(ctx context.Context) (Result, error) {
	if s.cache != nil {
		var cached Result
		if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	catalogue, err := s.catalogue.ListAll(ctx)
	if err != nil || len(catalogue) == 0 {
		if err != nil {
			s.logger.WithError(err).Warn("skill catalogue unavailable, using defaults")
		}
		catalogue = skill.Defaults
	}

	workers, err := s.workers.ListAvailable(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("worker availability unavailable")
		return Result{Skills: empty(catalogue), Degraded: true}, nil
	}

	res := Result{Skills: group(catalogue, workers)}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, res, s.ttl); err != nil {
			s.logger.WithError(err).Debug("skill availability not cached")
		}
	}
	return res, nil
}

// Invalidate drops the cached availability.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		s.logger.WithError(err).Debug("skill availability invalidation failed")
	}
}

// WatchWorkers drops the cached availability whenever a worker row is
// inserted.
func (s *Service) WatchWorkers(b *realtime.Broker) *realtime.Subscription {
	return b.Subscribe("workers", nil, func(realtime.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.Invalidate(ctx)
	})
}

func empty(catalogue []skill.Skill) []skill.Availability {
	out := make([]skill.Availability, 0, len(catalogue))
	for _, sk := range catalogue {
		out = append(out, skill.Availability{Skill: sk.Name, Workers: []skill.AvailableWorker{}})
	}
	return out
}

// group keeps catalogue order and appends skills only known from workers,
// sorted by name.
func group(catalogue []skill.Skill, workers []worker.Worker) []skill.Availability {
	out := empty(catalogue)
	pos := make(map[string]int, len(out))
	for i, a := range out {
		pos[a.Skill] = i
	}

	for _, w := range workers {
		i, ok := pos[w.Skill]
		if !ok {
			out = append(out, skill.Availability{Skill: w.Skill, Workers: []skill.AvailableWorker{}})
			i = len(out) - 1
			pos[w.Skill] = i
		}
		out[i].Count++
		out[i].Workers = append(out[i].Workers, skill.AvailableWorker{
			ID: w.ID, Name: w.Name, Experience: w.Experience, Rating: w.Rating,
		})
	}

	tail := out[len(catalogue):]
	sort.Slice(tail, func(i, j int) bool { return tail[i].Skill < tail[j].Skill })
	return out
}
