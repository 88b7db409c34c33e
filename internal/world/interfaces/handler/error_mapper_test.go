package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"NavalWar/internal/shared/transport"
	"NavalWar/internal/world/actor"
	"NavalWar/internal/world/command"
	"NavalWar/modules/kit/errx"
)

func TestHandleError_业务拒绝按原因映射(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{command.ErrNotAlive, transport.CommandStatus},
		{command.ErrCannotSpawnAs, transport.CommandIneligible},
		{command.ErrArmamentIndex, transport.CommandOutOfBounds},
		{command.ErrNotReloaded, transport.CommandNotReady},
		{command.ErrPayTooFar, transport.CommandGeometry},
		{command.ErrNotFinite, transport.CommandNumeric},
		{command.ErrFireBlocked, transport.CommandCapacity},
		{fmt.Errorf("wrap: %w", command.ErrNoSpawnSpace), transport.CommandCapacity},
	}
	for _, c := range cases {
		ctx := transport.NewContext("WS world.test")
		code, msg := HandleError(ctx, c.err)
		if code != c.code {
			t.Fatalf("%v: 期望 code=%d，实际 %d", c.err, c.code, code)
		}
		if msg == "" || msg == busyMessage {
			t.Fatalf("%v: 业务拒绝应带原始文案，实际 %q", c.err, msg)
		}
		if al := transport.FromContext(ctx); al == nil || al.ErrorReason == "" {
			t.Fatalf("%v: 应记录错误原因", c.err)
		}
	}
}

func TestHandleError_系统错误(t *testing.T) {
	code, msg := HandleError(context.Background(), &actor.RuntimeError{Code: transport.UpstreamTimeout, Message: "timeout"})
	if code != transport.UpstreamTimeout || msg != busyMessage {
		t.Fatalf("期望超时码与通用提示，实际 %d %q", code, msg)
	}
	code, _ = HandleError(context.Background(), errx.ErrUnavailable.WithCause(errors.New("db down")))
	if code != transport.SystemError {
		t.Fatalf("期望 SystemError，实际 %d", code)
	}
	if code, _ := HandleError(context.Background(), nil); code != transport.OK {
		t.Fatalf("nil 应为 OK")
	}
}

func TestHandleError_业务错误缺原因不算成功(t *testing.T) {
	bare := errx.NewBiz("WORLD_SOMETHING", "拒绝")
	code, msg := HandleError(context.Background(), bare)
	if code == transport.OK || code != transport.SystemError {
		t.Fatalf("缺原因的业务错误期望 SystemError，实际 %d", code)
	}
	if msg != "拒绝" {
		t.Fatalf("应保留业务文案，实际 %q", msg)
	}
	if got := mapBizReasonToClientCode("unknown"); got != transport.SystemError {
		t.Fatalf("未知原因期望 SystemError，实际 %d", got)
	}
}
