package logx

import (
	"context"
	"errors"
	"strings"
	"testing"

	"NavalWar/modules/kit/errx"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testReason string

func (r testReason) ReasonCode() string { return string(r) }

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	e := errx.NewSys("SYS_INTERNAL", "服务器内部错误").
		WithData("method", "Apply").
		WithCause(errors.New("actor stopped"))

	meta := BuildErrorLog(e)
	if meta.Error == "" || meta.Code == "" || meta.Msg == "" {
		t.Fatalf("期望 Error/Code/Msg 非空, meta=%+v", meta)
	}
	if meta.Data == nil || meta.Data["method"] != "Apply" {
		t.Fatalf("期望 meta.Data 包含 method=Apply, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 meta.CauseChain 非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望 Origin/Stack 非空 origin=%q stack=%q", meta.Origin, meta.Stack)
	}
}

func TestReportBiz_命令拒绝输出INFO且带reason(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	err := errx.NewBiz("WORLD_NOT_RELOADED", "armament not yet reloaded").WithReason(testReason("NOT_READY"))
	ReportBizWithLoggerContext(context.Background(), l, BizLogFromError("world.fire", err))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("期望输出 1 条日志, got=%d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("期望 INFO 级别, got=%v", entries[0].Level)
	}
	if got := entries[0].ContextMap()["reason"]; got != "NOT_READY" {
		t.Fatalf("期望 reason=NOT_READY, got=%v", got)
	}
}

func TestBuildErrorLog_起点跳过errx帧(t *testing.T) {
	meta := BuildErrorLog(errx.NewSys("SYS_INTERNAL", "boom"))
	if meta.Origin == "" {
		t.Fatalf("期望 Origin 非空")
	}
	if strings.Contains(meta.Origin, "modules/kit/errx.") || strings.HasPrefix(meta.Origin, "runtime.") {
		t.Fatalf("起点不应落在 errx/runtime: %s", meta.Origin)
	}
	if len(ErrorLog{}.Fields()) != 0 {
		t.Fatalf("空 ErrorLog 不应产出字段")
	}
}
