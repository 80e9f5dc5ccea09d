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

type PlayerInput struct {
	FirstName string
	LastName  *string
	BirthDate *time.Time
	Rating    *float64
	Role      string
	TeamID    *uint
}

type PlayerService struct {
	players repository.PlayerRepository
	teams   repository.TeamRepository
}

func NewPlayerService(players repository.PlayerRepository, teams repository.TeamRepository) *PlayerService {
	return &PlayerService{players: players, teams: teams}
}

func (s *PlayerService) List(ctx context.Context, query repository.PlayerListQuery) (repository.PageResult[domain.Player], error) {
	return s.players.List(ctx, query)
}

func (s *PlayerService) Get(ctx context.Context, id uint) (*domain.Player, error) {
	player, err := s.players.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *PlayerService) Create(ctx context.Context, input PlayerInput) (*domain.Player, error) {
	if err := s.validatePlayerInput(ctx, input); err != nil {
		return nil, err
	}
	player := playerFromInput(input)
	if err := s.players.Create(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *PlayerService) Update(ctx context.Context, id uint, input PlayerInput) (*domain.Player, error) {
	if err := s.validatePlayerInput(ctx, input); err != nil {
		return nil, err
	}
	player := playerFromInput(input)
	player.ID = id
	if err := s.players.Update(ctx, player); err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *PlayerService) Delete(ctx context.Context, id uint) error {
	if err := s.players.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *PlayerService) validatePlayerInput(ctx context.Context, input PlayerInput) error {
	if name := strings.TrimSpace(input.FirstName); name == "" || len(name) > 50 {
		return fmt.Errorf("%w: first name must be 1-50 characters", ErrInvalidInput)
	}
	if input.Rating != nil && (*input.Rating < 0 || *input.Rating > 100) {
		return fmt.Errorf("%w: rating must be between 0 and 100", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Role) == "" {
		return fmt.Errorf("%w: role is required", ErrInvalidInput)
	}
	if input.TeamID != nil {
		if _, err := s.teams.FindByID(ctx, *input.TeamID, false); err != nil {
			if errors.Is(err, repository.ErrTeamNotFound) {
				return fmt.Errorf("%w: team %d does not exist", ErrInvalidInput, *input.TeamID)
			}
			return err
		}
	}
	return nil
}

func playerFromInput(input PlayerInput) *domain.Player {
	return &domain.Player{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  input.LastName,
		BirthDate: input.BirthDate,
		Rating:    input.Rating,
		Role:      strings.TrimSpace(input.Role),
		TeamID:    input.TeamID,
	}
}
