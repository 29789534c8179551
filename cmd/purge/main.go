package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/config"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/repository"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/scheduling"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// 引擎自身不包含周期任务，已停用班次的清理由本脚本按需（如 cron）触发。
func main() {
	var employeeID string

	flag.StringVar(&employeeID, "employee-id", "", "只清理指定员工的已停用班次，留空表示全部员工")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository 与生命周期管理器
	repo := repository.NewRepository(cfg, dbpool)
	manager := scheduling.NewManager(repo, repo)

	var scope *string
	if employeeID != "" {
		scope = &employeeID
	}

	count, err := manager.PurgeInactive(context.Background(), scope)
	if err != nil {
		logger.Error("清理已停用班次失败", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("清理已停用班次成功", slog.Int64("deleted", count))
}
