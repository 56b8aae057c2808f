package db

import (
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const txRetryCount = 3

// WithTransaction выполняет fn в сериализуемой транзакции,
// при сбое сериализации повторяет ограниченное число раз
func WithTransaction(fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= txRetryCount; attempt++ {
		err = DB.Transaction(fn, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err == nil || !IsSerializationErr(err) {
			return err
		}
		log.
			WithError(err).
			WithField("attempt", attempt).
			Warn("повтор транзакции после сбоя сериализации")
		time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
	}
	return err
}

func IsSerializationErr(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure / deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func IsDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
