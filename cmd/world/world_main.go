package main

import (
	"NavalWar/internal/shared/logs"
	"NavalWar/internal/shared/serverconfig"
	"NavalWar/internal/shared/session"
	"NavalWar/internal/shared/telemetry"
	transporthttp "NavalWar/internal/shared/transport/http"
	"NavalWar/internal/shared/transport/ws"
	"NavalWar/internal/shared/utils"
	"NavalWar/internal/world/actor"
	"NavalWar/internal/world/actors"
	"NavalWar/internal/world/interfaces"
	"NavalWar/modules/kit/logx"
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "world"

func main() {
	if err := serverconfig.Load(""); err != nil {
		panic(err)
	}
	if err := logs.Init(serviceName, serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	logs.Info("conf", zap.Any("persistence", serverconfig.Conf.Persistence), zap.Any("world", serverconfig.Conf.World))

	shutdownTrace, err := telemetry.Setup(context.Background(), serverconfig.Conf.Trace, serviceName)
	if err != nil {
		logs.Fatal("setup telemetry failed", zap.Error(err))
	}

	repo, closeRepo, err := openRepo(serverconfig.Conf)
	if err != nil {
		logs.Fatal("open score repository failed", zap.Error(err), zap.String("driver", serverconfig.Conf.Persistence.Driver))
	}

	baseLogger := logx.NewZapLogger(logs.Logger())
	worldConf := serverconfig.Conf.World
	runtime := actor.NewRuntime(actors.Config{
		Radius:      worldConf.Radius,
		MaxEntities: worldConf.MaxEntities,
		TickEvery:   time.Duration(worldConf.TickMillis) * time.Millisecond,
		FlushEvery:  time.Duration(worldConf.FlushMillis) * time.Millisecond,
		Repo:        repo,
		Logger:      baseLogger,
	}, time.Duration(worldConf.AskTimeoutMs)*time.Millisecond)

	// 连接断开即离开世界
	sessMgr := session.NewSessMgr(func(uid int) {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := runtime.Leave(ctx, uid); err != nil {
			logs.Warn("leave world failed", zap.Int("uid", uid), zap.Error(err))
		}
	})

	serverConf := serverconfig.Conf.HTTPServer
	host := serverConf.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, serverConf.Port)

	guestIDs, err := utils.NewSnowflake(worldConf.NodeID)
	if err != nil {
		logs.Fatal("create guest id generator failed", zap.Error(err))
	}
	worldModule := interfaces.New(runtime, sessMgr, guestIDs, serverConf.BotKey)

	wsRouter := ws.NewRouter(baseLogger)
	wsModules := []ws.Registrar{
		worldModule,
	}
	for _, m := range wsModules {
		m.WsRegister(wsRouter)
	}

	httpServer := transporthttp.NewHttpServer(addr, nil, baseLogger)
	httpModules := []transporthttp.Registrar{
		worldModule,
	}
	for _, m := range httpModules {
		m.HttpRegister(httpServer.Group())
	}

	wsServer := ws.NewServer(wsRouter, baseLogger, serverConf.NeedSecret)
	httpServer.Engine().Any("/ws", gin.WrapH(wsServer))
	httpServer.Engine().Any("/ws/*any", gin.WrapH(wsServer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logs.Info("world server started", zap.String("addr", addr))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("world server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	// 先停 actor，最后一批分数写完再关仓库
	runtime.Shutdown()
	closeRepo()
	if err := shutdownTrace(shutdownCtx); err != nil {
		logs.Warn("shutdown telemetry failed", zap.Error(err))
	}
	logs.Sync()
}
