package main

import (
	sharedmysql "NavalWar/internal/shared/infrastructure/db"
	sharedmongo "NavalWar/internal/shared/infrastructure/mongo"
	"NavalWar/internal/shared/logs"
	"NavalWar/internal/shared/serverconfig"
	"NavalWar/internal/world/app/port"
	"NavalWar/internal/world/infra/persistence/memory"
	worldmongo "NavalWar/internal/world/infra/persistence/mongodb"
	worldmysql "NavalWar/internal/world/infra/persistence/mysql"
	worldsqlite "NavalWar/internal/world/infra/persistence/sqlite"
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	driverMemory  = "memory"
	driverMongoDB = "mongodb"
	driverMySQL   = "mysql"
	driverSQLite  = "sqlite"
)

// openRepo 按 persistence.driver 打开分数仓库，返回的 closer 在 actor 停止后调用。
func openRepo(conf serverconfig.Config) (port.ScoreRepository, func(), error) {
	noop := func() {}
	switch strings.ToLower(strings.TrimSpace(conf.Persistence.Driver)) {
	case "", driverMemory:
		return memory.NewScoreRepository(), noop, nil

	case driverMongoDB:
		client, err := sharedmongo.Open(conf.MongoDB, logs.Logger())
		if err != nil {
			return nil, noop, err
		}
		closer := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}
		return worldmongo.NewScoreRepository(client.Database(conf.MongoDB.Database)), closer, nil

	case driverMySQL:
		gdb, err := sharedmysql.Open(conf.MySQL)
		if err != nil {
			return nil, noop, err
		}
		closer := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		repo := worldmysql.NewScoreRepository(gdb)
		if err := repo.AutoMigrate(); err != nil {
			closer()
			return nil, noop, fmt.Errorf("auto migrate: %w", err)
		}
		return repo, closer, nil

	case driverSQLite:
		repo, err := worldsqlite.Open(conf.SQLite.Path)
		if err != nil {
			return nil, noop, err
		}
		return repo, func() { _ = repo.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown persistence driver %q", conf.Persistence.Driver)
	}
}
