package cmd

import (
	"NavalWar/internal/shared/serverconfig"
	"testing"

	"NavalWar/internal/shared/logs"

	"go.uber.org/zap"
)

func TestReadConfig(t *testing.T) {
	if err := serverconfig.Load(""); err != nil {
		t.Fatalf("读取配置失败: %v", err)
	}
	if serverconfig.Conf.HTTPServer.Port == 0 || serverconfig.Conf.Persistence.Driver == "" {
		t.Fatalf("配置未解析: %+v", serverconfig.Conf)
	}
	if err := logs.Init("TestReadConfig", serverconfig.Conf.Log); err != nil {
		t.Fatalf("初始化日志失败: %v", err)
	}
	logs.Info("conf", zap.Any("world", serverconfig.Conf.World))
}
