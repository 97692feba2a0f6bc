package mysql

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	accountDomain "loancore/internal/domain/account"
	appDomain "loancore/internal/domain/application"
	auditDomain "loancore/internal/domain/audit"
	loanDomain "loancore/internal/domain/loan"
	ruleDomain "loancore/internal/domain/rule"
	userDomain "loancore/internal/domain/user"
)

// newTestDB opens an isolated in-memory sqlite with the full schema.
// TranslateError must match production config so unique-key violations map to
// gorm.ErrDuplicatedKey here too.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&userDomain.User{},
		&appDomain.Application{},
		&loanDomain.ActiveLoan{},
		&loanDomain.Installment{},
		&accountDomain.Account{},
		&accountDomain.Transaction{},
		&auditDomain.Entry{},
		&ruleDomain.ScoreRange{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
