package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/ivan1013/esports-management-system/internal/domain"
	"github.com/ivan1013/esports-management-system/internal/observability"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerListQuery struct {
	PageRequest
	SearchTerm string
	Role       string
	TeamID     *uint
	SortBy     string
	SortOrder  string
}

type PlayerRepository interface {
	List(ctx context.Context, query PlayerListQuery) (PageResult[domain.Player], error)
	FindByID(ctx context.Context, id uint) (*domain.Player, error)
	Create(ctx context.Context, player *domain.Player) error
	Update(ctx context.Context, player *domain.Player) error
	Delete(ctx context.Context, id uint) error
}

type GormPlayerRepository struct{ db *gorm.DB }

func NewPlayerRepository(db *gorm.DB) PlayerRepository { return &GormPlayerRepository{db: db} }

var playerSortColumns = map[string]string{
	"name":      "players.first_name",
	"team":      "teams.name",
	"role":      "players.role",
	"rating":    "players.rating",
	"birthdate": "players.birth_date",
}

func (r *GormPlayerRepository) List(ctx context.Context, query PlayerListQuery) (PageResult[domain.Player], error) {
	req := normalizePageRequest(query.PageRequest)
	result := PageResult[domain.Player]{Page: req.Page, PageSize: req.PageSize}

	base := r.db.WithContext(ctx).Model(&domain.Player{}).
		Joins("LEFT JOIN teams ON teams.team_id = players.team_id")

	if query.SearchTerm != "" {
		term := "%" + strings.ToLower(query.SearchTerm) + "%"
		base = base.Where(
			"LOWER(players.first_name) LIKE ? OR LOWER(players.last_name) LIKE ? OR LOWER(teams.name) LIKE ?",
			term, term, term,
		)
	}
	if query.Role != "" {
		base = base.Where("LOWER(players.role) = ?", strings.ToLower(query.Role))
	}
	if query.TeamID != nil {
		base = base.Where("players.team_id = ?", *query.TeamID)
	}

	if err := base.Count(&result.Total).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "player", "list", "error")
		return PageResult[domain.Player]{}, err
	}

	column, ok := playerSortColumns[query.SortBy]
	if !ok {
		column = "players.first_name"
	}
	order := normalizeSortOrder(query.SortOrder)

	listQuery := base.Preload("Team").Preload("Tournaments").
		Order(column + " " + order)
	if query.SortBy == "name" || query.SortBy == "" {
		listQuery = listQuery.Order("players.last_name " + order)
	}
	listQuery = listQuery.Order("players.player_id " + order)

	offset := (req.Page - 1) * req.PageSize
	if err := listQuery.Offset(offset).Limit(req.PageSize).Find(&result.Items).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "player", "list", "error")
		return PageResult[domain.Player]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, req.PageSize)
	observability.RecordRepositoryOperation(ctx, "player", "list", "success")
	return result, nil
}

func (r *GormPlayerRepository) FindByID(ctx context.Context, id uint) (*domain.Player, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).Preload("Team").Preload("Tournaments").First(&player, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "player", "find_by_id", "not_found")
			return nil, ErrPlayerNotFound
		}
		observability.RecordRepositoryOperation(ctx, "player", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "player", "find_by_id", "success")
	return &player, nil
}

func (r *GormPlayerRepository) Create(ctx context.Context, player *domain.Player) error {
	err := r.db.WithContext(ctx).Create(player).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "player", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "player", "create", "success")
	return nil
}

func (r *GormPlayerRepository) Update(ctx context.Context, player *domain.Player) error {
	res := r.db.WithContext(ctx).Model(&domain.Player{}).Where("player_id = ?", player.ID).
		Select("FirstName", "LastName", "BirthDate", "Rating", "Role", "TeamID").Updates(player)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "player", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "player", "update", "not_found")
		return ErrPlayerNotFound
	}
	observability.RecordRepositoryOperation(ctx, "player", "update", "success")
	return nil
}

func (r *GormPlayerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Player{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "player", "delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "player", "delete", "not_found")
		return ErrPlayerNotFound
	}
	observability.RecordRepositoryOperation(ctx, "player", "delete", "success")
	return nil
}
