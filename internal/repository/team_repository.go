package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ivan1013/esports-management-system/internal/domain"
	"github.com/ivan1013/esports-management-system/internal/observability"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamListQuery struct {
	PageRequest
	Name      string
	Region    string
	SortBy    string
	SortOrder string
}

type TeamRepository interface {
	List(ctx context.Context, query TeamListQuery) (PageResult[domain.Team], error)
	FindByID(ctx context.Context, id uint, includePlayers bool) (*domain.Team, error)
	Create(ctx context.Context, team *domain.Team) error
	Update(ctx context.Context, team *domain.Team) error
	Delete(ctx context.Context, id uint) error
}

type GormTeamRepository struct{ db *gorm.DB }

func NewTeamRepository(db *gorm.DB) TeamRepository { return &GormTeamRepository{db: db} }

var teamSortColumns = map[string]string{
	"name":        "name",
	"region":      "region",
	"foundeddate": "founded_date",
	"rating":      "rating",
	"isactive":    "is_active",
}

func (r *GormTeamRepository) List(ctx context.Context, query TeamListQuery) (PageResult[domain.Team], error) {
	req := normalizePageRequest(query.PageRequest)
	result := PageResult[domain.Team]{Page: req.Page, PageSize: req.PageSize}

	base := r.db.WithContext(ctx).Model(&domain.Team{})
	if query.Name != "" {
		base = base.Where("name LIKE ?", "%"+query.Name+"%")
	}
	if query.Region != "" {
		base = base.Where("region LIKE ?", "%"+query.Region+"%")
	}

	if err := base.Count(&result.Total).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "team", "list", "error")
		return PageResult[domain.Team]{}, err
	}

	column, ok := teamSortColumns[query.SortBy]
	if !ok {
		column = "name"
	}
	order := normalizeSortOrder(query.SortOrder)

	offset := (req.Page - 1) * req.PageSize
	err := base.Order(column + " " + order).Order("team_id " + order).
		Offset(offset).Limit(req.PageSize).Find(&result.Items).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "team", "list", "error")
		return PageResult[domain.Team]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, req.PageSize)
	observability.RecordRepositoryOperation(ctx, "team", "list", "success")
	return result, nil
}

func (r *GormTeamRepository) FindByID(ctx context.Context, id uint, includePlayers bool) (*domain.Team, error) {
	var team domain.Team
	q := r.db.WithContext(ctx)
	if includePlayers {
		q = q.Preload("Players")
	}
	err := q.First(&team, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "team", "find_by_id", "not_found")
			return nil, ErrTeamNotFound
		}
		observability.RecordRepositoryOperation(ctx, "team", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "team", "find_by_id", "success")
	return &team, nil
}

func (r *GormTeamRepository) Create(ctx context.Context, team *domain.Team) error {
	err := r.db.WithContext(ctx).Create(team).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "team", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "team", "create", "success")
	return nil
}

func (r *GormTeamRepository) Update(ctx context.Context, team *domain.Team) error {
	res := r.db.WithContext(ctx).Model(&domain.Team{}).Where("team_id = ?", team.ID).
		Select("Name", "Region", "FoundedDate", "Rating", "IsActive").Updates(team)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "team", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "team", "update", "not_found")
		return ErrTeamNotFound
	}
	observability.RecordRepositoryOperation(ctx, "team", "update", "success")
	return nil
}

func (r *GormTeamRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Team{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "team", "delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "team", "delete", "not_found")
		return ErrTeamNotFound
	}
	observability.RecordRepositoryOperation(ctx, "team", "delete", "success")
	return nil
}
