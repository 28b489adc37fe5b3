package shared

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	redisad "guest_reviews/internal/adapters/redis"
	"guest_reviews/internal/domain"
	"guest_reviews/internal/storage/file"
	mysqlrepo "guest_reviews/internal/storage/mysql"
)

// OpenApprovalStore builds the store selected by APPROVAL_STORE. The returned
// func releases its connections.
func OpenApprovalStore(cfg Config) (domain.ApprovalStore, func() error, error) {
	switch cfg.ApprovalStore {
	case StoreMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.Ping(); err != nil {
			// reads degrade until the database comes back
			log.Warn().Err(err).Msg("db.Ping failed")
		}
		return mysqlrepo.New(db), db.Close, nil
	case StoreFile:
		log.Info().Str("path", cfg.ApprovalFile).Msg("using file approval store")
		return file.New(cfg.ApprovalFile), func() error { return nil }, nil
	default:
		st := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		return st, st.Close, nil
	}
}
