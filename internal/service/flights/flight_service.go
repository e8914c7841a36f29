package flights

import (
	"context"
	"time"

	"github.com/Domenick1991/flightwizard/internal/domain"
	"github.com/Domenick1991/flightwizard/internal/repository"
)

// FlightUseCase is the read-only inventory the results step consumes.
// Route and date filtering happens here; the wizard core only sees the
// already-filtered candidate list.
type FlightUseCase interface {
	Search(ctx context.Context, from, to string, date *time.Time) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

type Cache interface {
	GetRouteFlights(ctx context.Context, from, to string, date *time.Time) ([]domain.Flight, error)
	SetRouteFlights(ctx context.Context, from, to string, date *time.Time, flights []domain.Flight) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
}

func NewFlightService(repo repository.FlightRepository, cache Cache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

func (s *FlightService) Search(ctx context.Context, from, to string, date *time.Time) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRouteFlights(ctx, from, to, date); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.ListByRoute(ctx, from, to, date)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetRouteFlights(ctx, from, to, date, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

var _ FlightUseCase = (*FlightService)(nil)
