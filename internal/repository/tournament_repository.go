package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ivan1013/esports-management-system/internal/domain"
	"github.com/ivan1013/esports-management-system/internal/observability"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentListQuery struct {
	PageRequest
	Title     string
	Location  string
	SortBy    string
	SortOrder string
}

type TournamentRepository interface {
	List(ctx context.Context, query TournamentListQuery) (PageResult[domain.Tournament], error)
	FindByID(ctx context.Context, id uint) (*domain.Tournament, error)
	Create(ctx context.Context, tournament *domain.Tournament) error
	Update(ctx context.Context, tournament *domain.Tournament) error
	Delete(ctx context.Context, id uint) error
}

type GormTournamentRepository struct{ db *gorm.DB }

func NewTournamentRepository(db *gorm.DB) TournamentRepository {
	return &GormTournamentRepository{db: db}
}

var tournamentSortColumns = map[string]string{
	"title":     "title",
	"prizepool": "prize_pool",
	"startdate": "start_date",
	"enddate":   "end_date",
	"location":  "location",
}

func (r *GormTournamentRepository) List(ctx context.Context, query TournamentListQuery) (PageResult[domain.Tournament], error) {
	req := normalizePageRequest(query.PageRequest)
	result := PageResult[domain.Tournament]{Page: req.Page, PageSize: req.PageSize}

	base := r.db.WithContext(ctx).Model(&domain.Tournament{})
	if query.Title != "" {
		base = base.Where("title LIKE ?", "%"+query.Title+"%")
	}
	if query.Location != "" {
		base = base.Where("location LIKE ?", "%"+query.Location+"%")
	}

	if err := base.Count(&result.Total).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "tournament", "list", "error")
		return PageResult[domain.Tournament]{}, err
	}

	column, ok := tournamentSortColumns[query.SortBy]
	if !ok {
		column = "title"
	}
	order := normalizeSortOrder(query.SortOrder)

	offset := (req.Page - 1) * req.PageSize
	err := base.Order(column + " " + order).Order("tournament_id " + order).
		Offset(offset).Limit(req.PageSize).Find(&result.Items).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "tournament", "list", "error")
		return PageResult[domain.Tournament]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, req.PageSize)
	observability.RecordRepositoryOperation(ctx, "tournament", "list", "success")
	return result, nil
}

func (r *GormTournamentRepository) FindByID(ctx context.Context, id uint) (*domain.Tournament, error) {
	var tournament domain.Tournament
	err := r.db.WithContext(ctx).First(&tournament, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "tournament", "find_by_id", "not_found")
			return nil, ErrTournamentNotFound
		}
		observability.RecordRepositoryOperation(ctx, "tournament", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "tournament", "find_by_id", "success")
	return &tournament, nil
}

func (r *GormTournamentRepository) Create(ctx context.Context, tournament *domain.Tournament) error {
	err := r.db.WithContext(ctx).Create(tournament).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "tournament", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "tournament", "create", "success")
	return nil
}

func (r *GormTournamentRepository) Update(ctx context.Context, tournament *domain.Tournament) error {
	res := r.db.WithContext(ctx).Model(&domain.Tournament{}).Where("tournament_id = ?", tournament.ID).
		Select("Title", "PrizePool", "StartDate", "EndDate", "Location").Updates(tournament)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "tournament", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "tournament", "update", "not_found")
		return ErrTournamentNotFound
	}
	observability.RecordRepositoryOperation(ctx, "tournament", "update", "success")
	return nil
}

func (r *GormTournamentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Tournament{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "tournament", "delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "tournament", "delete", "not_found")
		return ErrTournamentNotFound
	}
	observability.RecordRepositoryOperation(ctx, "tournament", "delete", "success")
	return nil
}
