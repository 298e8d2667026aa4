package database

import (
	"fmt"
	"strings"
	"time"

	"compta-pme-api/internal/model"
	"compta-pme-api/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models lists every table managed by AutoMigrate, parents first.
var Models = []interface{}{
	&model.User{},
	&model.Societe{},
	&model.Client{},
	&model.Budget{},
	&model.Recette{},
	&model.Depense{},
	&model.Produit{},
	&model.MouvementStock{},
	&model.Inventaire{},
	&model.LigneInventaire{},
}

// ConnectDB opens the database behind dsn. "sqlite://path" and "file:..."
// DSNs select SQLite, anything else goes to Postgres.
func ConnectDB(dsn string, debug bool, log *logger.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}

	config := &gorm.Config{
		Logger: gormlogger.New(gormWriter{log.WithComponent("gorm")}, gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var (
		db  *gorm.DB
		err error
	)
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		db, err = gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), config)
	case strings.HasPrefix(dsn, "file:"):
		db, err = gorm.Open(sqlite.Open(dsn), config)
	default:
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // Disables implicit prepared statements for pooled connections
		}), config)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if db.Dialector.Name() == "sqlite" {
		// A single connection keeps SQLite writers from failing with SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Infow("database connection established", "dialect", db.Dialector.Name())
	return db, nil
}

// AutoMigrate creates or updates the schema from the models.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range Models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

type gormWriter struct {
	log *logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Infof(format, args...)
}
