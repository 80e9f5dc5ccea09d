package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ivan1013/esports-management-system/internal/domain"
	"github.com/ivan1013/esports-management-system/internal/security"
)

const testSecret = "abcdefghijklmnopqrstuvwxyz123456"

func newDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Team{}, &domain.Player{}, &domain.Tournament{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newJWTManagerForTest(accessTTL time.Duration) *security.JWTManager {
	return security.NewJWTManager("esports-api", "esports-clients", testSecret, accessTTL)
}

func strPtr(v string) *string   { return &v }
func f64Ptr(v float64) *float64 { return &v }
func timePtr(v time.Time) *time.Time { return &v }
