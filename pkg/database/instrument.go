package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/kasir/pkg/logger"
	"github.com/shashiranjanraj/kasir/pkg/metrics"
)

const startedAtKey = "kasir:started_at"

type registerFunc func(name string, fn func(*gorm.DB)) error

// instrument times every statement into metrics.DBQueryDuration.
func instrument(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op            string
		before, after registerFunc
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
	}

	for _, h := range hooks {
		op := h.op
		if err := h.before("kasir:before_"+op, func(tx *gorm.DB) {
			tx.InstanceSet(startedAtKey, time.Now())
		}); err != nil {
			return fmt.Errorf("register before %s: %w", op, err)
		}
		if err := h.after("kasir:after_"+op, func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(startedAtKey)
			if !ok {
				return
			}
			if start, ok := v.(time.Time); ok {
				metrics.ObserveDBQuery(op, tx.Statement.Table, start)
			}
		}); err != nil {
			return fmt.Errorf("register after %s: %w", op, err)
		}
	}
	return nil
}

// newGormLogger reports slow statements and errors through slog.
func newGormLogger(slow time.Duration) gormlogger.Interface {
	return gormlogger.New(slogWriter{}, gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

type slogWriter struct{}

func (slogWriter) Printf(format string, args ...interface{}) {
	logger.L.Warn(fmt.Sprintf(format, args...), "component", "gorm")
}
