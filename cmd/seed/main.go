package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/config"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/repository"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/scheduling"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/seed"
	"github.com/sysu-ecnc-dev/attendance-portal/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var employeeID string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机时段, 2: 为指定员工插入随机班次, 3: 插入真实数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&employeeID, "employee-id", "", "随机班次所属的员工编号")
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

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的时段数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				window := utils.GenerateRandomShiftWindow()
				if err := repo.CreateShiftWindow(context.Background(), window); err != nil {
					slog.Error("无法插入时段", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入时段成功", slog.Int("count", n-cnt))
		}
	case 2:
		if employeeID == "" {
			slog.Error("请输入员工编号")
			return
		}
		if n <= 0 {
			slog.Error("请输入合法的班次数量")
			return
		}

		// 先获取所有启用中的时段
		windows, err := repo.ListShiftWindows(context.Background(), true)
		if err != nil {
			slog.Error("无法获取时段列表", slog.String("error", err.Error()))
			return
		}
		if len(windows) == 0 {
			slog.Error("数据库中没有启用中的时段，请先插入时段")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			// 随机选一个时段
			window := windows[rand.Intn(len(windows))]

			input := utils.GenerateRandomAssignmentInput(employeeID, window.ID)
			if _, err := manager.Create(context.Background(), input); err != nil {
				// 随机生成的班次可能与已插入的冲突，被引擎拒绝属于正常情况
				slog.Warn("班次被拒绝", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入班次成功", slog.Int("count", cnt))
	case 3:
		seed.SeedRealData(repo, manager)
	default:
		slog.Error("指定的操作非法")
	}
}
