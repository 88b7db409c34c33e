package transport

import (
	"NavalWar/modules/kit/logx"
	"NavalWar/modules/kit/tracex"
	"context"
	"time"

	"go.uber.org/zap"
)

const spanWorld = "world"

// AccessLog 一次 ws 消息或 http 请求的日志上下文。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	PlayerID    int
	Command     string
	// Quiet 成功时不落日志，control 这种每帧都发的指令用。
	Quiet bool

	startTime time.Time
	action    string
}

type accessLogKey struct{}

func NewContext(action string) context.Context {
	return NewContextWithParent(context.Background(), action)
}

// NewContextWithParent 保留 parent 的取消信号；parent 上已有 trace id 时沿用。
func NewContextWithParent(parent context.Context, action string) context.Context {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	if _, ok := tracex.TraceIDFrom(ctx); !ok {
		if traceID := tracex.NewTraceID(); traceID != "" {
			ctx = tracex.WithTraceID(ctx, traceID)
		}
	}
	ctx = tracex.WithSpanID(ctx, spanWorld)

	return context.WithValue(ctx, accessLogKey{}, &AccessLog{
		BizCode:   BizCode(SystemError),
		startTime: time.Now(),
		action:    action,
	})
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// SetCommand 记下是谁发的哪条指令。
func SetCommand(ctx context.Context, playerID int, command string, quiet bool) {
	if al := FromContext(ctx); al != nil {
		al.PlayerID = playerID
		al.Command = command
		al.Quiet = quiet
	}
}

func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}
	ok := al.BizCode == BizCode(OK)
	if ok && al.Quiet {
		return
	}

	fields := []zap.Field{
		zap.Duration("latency", time.Since(al.startTime)),
	}
	if al.PlayerID > 0 {
		fields = append(fields, zap.Int("player_id", al.PlayerID))
	}
	if al.Command != "" {
		fields = append(fields, zap.String("command", al.Command))
	}
	if ok {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	logx.ReportAccessWithLoggerContext(ctx, log, al.action, int(al.BizCode), fields...)
}
