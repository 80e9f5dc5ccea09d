package domain

import "time"

type Team struct {
	ID          uint       `gorm:"column:team_id;primaryKey" json:"teamId"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Region      *string    `gorm:"size:50" json:"region,omitempty"`
	FoundedDate *time.Time `json:"foundedDate,omitempty"`
	Rating      *float64   `json:"rating,omitempty"`
	IsActive    bool       `json:"isActive"`
	Players     []Player   `gorm:"foreignKey:TeamID" json:"players,omitempty"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

type Player struct {
	ID          uint         `gorm:"column:player_id;primaryKey" json:"playerId"`
	FirstName   string       `gorm:"size:50;not null" json:"firstName"`
	LastName    *string      `gorm:"size:50" json:"lastName,omitempty"`
	BirthDate   *time.Time   `json:"birthDate,omitempty"`
	Rating      *float64     `json:"rating,omitempty"`
	Role        string       `gorm:"size:30;not null" json:"role"`
	TeamID      *uint        `gorm:"index" json:"teamId,omitempty"`
	Team        *Team        `json:"team,omitempty"`
	Tournaments []Tournament `gorm:"many2many:player_tournaments;" json:"tournaments,omitempty"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

type Tournament struct {
	ID        uint       `gorm:"column:tournament_id;primaryKey" json:"tournamentId"`
	Title     string     `gorm:"size:100;not null" json:"title"`
	PrizePool *float64   `json:"prizePool,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Location  *string    `gorm:"size:100" json:"location,omitempty"`
	Players   []Player   `gorm:"many2many:player_tournaments;" json:"players,omitempty"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`
}
