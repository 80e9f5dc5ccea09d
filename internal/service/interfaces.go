package service

import (
	"context"

	"github.com/ivan1013/esports-management-system/internal/domain"
	"github.com/ivan1013/esports-management-system/internal/repository"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
}

type TeamServiceInterface interface {
	List(ctx context.Context, query repository.TeamListQuery) (repository.PageResult[domain.Team], error)
	Get(ctx context.Context, id uint, includePlayers bool) (*domain.Team, error)
	Create(ctx context.Context, input TeamInput) (*domain.Team, error)
	Update(ctx context.Context, id uint, input TeamInput) (*domain.Team, error)
	Delete(ctx context.Context, id uint) error
}

type PlayerServiceInterface interface {
	List(ctx context.Context, query repository.PlayerListQuery) (repository.PageResult[domain.Player], error)
	Get(ctx context.Context, id uint) (*domain.Player, error)
	Create(ctx context.Context, input PlayerInput) (*domain.Player, error)
	Update(ctx context.Context, id uint, input PlayerInput) (*domain.Player, error)
	Delete(ctx context.Context, id uint) error
}

type TournamentServiceInterface interface {
	List(ctx context.Context, query repository.TournamentListQuery) (repository.PageResult[domain.Tournament], error)
	Get(ctx context.Context, id uint) (*domain.Tournament, error)
	Create(ctx context.Context, input TournamentInput) (*domain.Tournament, error)
	Update(ctx context.Context, id uint, input TournamentInput) (*domain.Tournament, error)
	Delete(ctx context.Context, id uint) error
}
