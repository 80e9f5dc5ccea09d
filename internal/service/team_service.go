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

// ErrNotFound reports a missing entity regardless of which repository raised
// the miss; handlers map it to a 404.
var ErrNotFound = errors.New("not found")

type TeamInput struct {
	Name        string
	Region      *string
	FoundedDate *time.Time
	Rating      *float64
	IsActive    bool
}

type TeamService struct {
	teams repository.TeamRepository
}

func NewTeamService(teams repository.TeamRepository) *TeamService {
	return &TeamService{teams: teams}
}

func (s *TeamService) List(ctx context.Context, query repository.TeamListQuery) (repository.PageResult[domain.Team], error) {
	return s.teams.List(ctx, query)
}

func (s *TeamService) Get(ctx context.Context, id uint, includePlayers bool) (*domain.Team, error) {
	team, err := s.teams.FindByID(ctx, id, includePlayers)
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *TeamService) Create(ctx context.Context, input TeamInput) (*domain.Team, error) {
	if err := validateTeamInput(input); err != nil {
		return nil, err
	}
	team := teamFromInput(input)
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) Update(ctx context.Context, id uint, input TeamInput) (*domain.Team, error) {
	if err := validateTeamInput(input); err != nil {
		return nil, err
	}
	team := teamFromInput(input)
	team.ID = id
	if err := s.teams.Update(ctx, team); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *TeamService) Delete(ctx context.Context, id uint) error {
	if err := s.teams.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func validateTeamInput(input TeamInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > 100 {
		return fmt.Errorf("%w: team name must be 1-100 characters", ErrInvalidInput)
	}
	if input.Rating != nil && (*input.Rating < 0 || *input.Rating > 100) {
		return fmt.Errorf("%w: team rating must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}

func teamFromInput(input TeamInput) *domain.Team {
	return &domain.Team{
		Name:        strings.TrimSpace(input.Name),
		Region:      input.Region,
		FoundedDate: input.FoundedDate,
		Rating:      input.Rating,
		IsActive:    input.IsActive,
	}
}
