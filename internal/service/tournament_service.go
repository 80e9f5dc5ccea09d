package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ivan1013/esports-management-system/internal/domain"
	"github.com/ivan1013/esports-management-system/internal/repository"
)

type TournamentInput struct {
	Title     string
	PrizePool *float64
	StartDate *time.Time
	EndDate   *time.Time
	Location  *string
}

type TournamentService struct {
	tournaments repository.TournamentRepository
}

func NewTournamentService(tournaments repository.TournamentRepository) *TournamentService {
	return &TournamentService{tournaments: tournaments}
}

func (s *TournamentService) List(ctx context.Context, query repository.TournamentListQuery) (repository.PageResult[domain.Tournament], error) {
	return s.tournaments.List(ctx, query)
}

func (s *TournamentService) Get(ctx context.Context, id uint) (*domain.Tournament, error) {
	tournament, err := s.tournaments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTournamentNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *TournamentService) Create(ctx context.Context, input TournamentInput) (*domain.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}
	tournament := tournamentFromInput(input)
	if err := s.tournaments.Create(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *TournamentService) Update(ctx context.Context, id uint, input TournamentInput) (*domain.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}
	tournament := tournamentFromInput(input)
	tournament.ID = id
	if err := s.tournaments.Update(ctx, tournament); err != nil {
		if errors.Is(err, repository.ErrTournamentNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *TournamentService) Delete(ctx context.Context, id uint) error {
	if err := s.tournaments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTournamentNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func validateTournamentInput(input TournamentInput) error {
	if title := strings.TrimSpace(input.Title); title == "" || len(title) > 200 {
		return fmt.Errorf("%w: title must be 1-200 characters", ErrInvalidInput)
	}
	if input.PrizePool != nil && *input.PrizePool < 0 {
		return fmt.Errorf("%w: prize pool must not be negative", ErrInvalidInput)
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return fmt.Errorf("%w: end date must not be before start date", ErrInvalidInput)
	}
	return nil
}

func tournamentFromInput(input TournamentInput) *domain.Tournament {
	return &domain.Tournament{
		Title:     strings.TrimSpace(input.Title),
		PrizePool: input.PrizePool,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Location:  input.Location,
	}
}
