package telemetry

import (
	"context"
	"testing"

	"NavalWar/internal/shared/serverconfig"
)

func TestSetup_未配置时为空操作(t *testing.T) {
	shutdown, err := Setup(context.Background(), serverconfig.TraceConfig{}, "world")
	if err != nil {
		t.Fatalf("Setup 失败: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown 失败: %v", err)
	}
}

func TestSetup_配置端点后可正常关闭(t *testing.T) {
	// 不可路由地址，不会真正导出
	shutdown, err := Setup(context.Background(), serverconfig.TraceConfig{Endpoint: "http://192.0.2.1:4318"}, "world")
	if err != nil {
		t.Fatalf("Setup 失败: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown 失败: %v", err)
	}
}
