package model

import (
	"context"
	"database/sql"

	"github.com/Laisky/supabuilder-api/library/log"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	_ "github.com/mattn/go-sqlite3"
)

var (
	// BuilderDB is the device-local sqlite database backing workspace
	// persistence. Best-effort storage, not a durable multi-tenant store.
	BuilderDB *sql.DB
)

const defaultDBFile = "supabuilder.db"

func Initialize(ctx context.Context) {
	defer log.Logger.Info("opened builder sqlite db")
	dbFile := gconfig.Shared.GetString("settings.builder.db_file")
	if dbFile == "" {
		dbFile = defaultDBFile
	}

	var err error
	if BuilderDB, err = sql.Open("sqlite3", dbFile); err != nil {
		log.Logger.Panic("open sqlite db",
			zap.Error(err),
			zap.String("db_file", dbFile))
	}

	if err = BuilderDB.PingContext(ctx); err != nil {
		log.Logger.Panic("ping sqlite db",
			zap.Error(err),
			zap.String("db_file", dbFile))
	}
}
