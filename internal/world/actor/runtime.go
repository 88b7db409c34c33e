package actor

import (
	"NavalWar/internal/shared/actor/messages"
	"NavalWar/internal/shared/transport"
	"NavalWar/internal/world/actors"
	"NavalWar/internal/world/command"
	"NavalWar/internal/world/infra/persistence/memory"
	"NavalWar/modules/kit/errx"
	"NavalWar/modules/kit/tracex"
	"context"
	"errors"
	"fmt"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultAskTimeout = 3 * time.Second
	tracerName        = "NavalWar/world"
)

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
	worldID actors.WorldID
	tracer  trace.Tracer
}

// NewRuntime 启动 actor 系统与 manager；cfg.Repo 为空时退化为内存仓库。
func NewRuntime(cfg actors.Config, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}
	if cfg.Repo == nil {
		cfg.Repo = memory.NewScoreRepository()
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(cfg)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
		worldID: actors.DefaultWorldID,
		tracer:  otel.Tracer(tracerName),
	}
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		// 等 world actor 把最后一批分数交给写库协程
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) base(ctx context.Context, playerID int) messages.WorldBaseMessage {
	m := messages.WorldBaseMessage{WorldId: int(r.worldID), PlayerId: playerID}
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		m.TraceId = tid
	} else if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		m.TraceId = sc.TraceID().String()
	}
	return m
}

// Enter 玩家进入世界，返回恢复后的分数。
func (r *Runtime) Enter(ctx context.Context, playerID int, bot bool) (int, error) {
	res, err := r.request(r.manager, messages.HWEnter{WorldBaseMessage: r.base(ctx, playerID), Bot: bot}, r.timeoutFromContext(ctx))
	if err != nil {
		return 0, err
	}
	resp, err := as[messages.WHEnter](res)
	if err != nil {
		return 0, err
	}
	if resp.Err != nil {
		return 0, &RuntimeError{Code: transport.UpstreamUnavailable, Message: "进入世界失败", Cause: resp.Err}
	}
	return resp.Score, nil
}

func (r *Runtime) Leave(ctx context.Context, playerID int) error {
	res, err := r.request(r.manager, messages.HWLeave{WorldBaseMessage: r.base(ctx, playerID)}, r.timeoutFromContext(ctx))
	if err != nil {
		return err
	}
	resp, err := as[messages.WHLeave](res)
	if err != nil {
		return err
	}
	return resp.Err
}

// Apply 把指令投递给世界 actor。业务拒绝原样返回（*errx.Error），其余包成 RuntimeError。
func (r *Runtime) Apply(ctx context.Context, playerID int, cmd command.Command) error {
	if cmd == nil {
		return &RuntimeError{Code: transport.InvalidParam, Message: "command 不能为空"}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := r.tracer.Start(ctx, "world."+cmd.Name(), trace.WithAttributes(
		attribute.Int("player.id", playerID),
		attribute.String("world.command", cmd.Name()),
	))
	defer span.End()

	err := r.apply(ctx, playerID, cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *Runtime) apply(ctx context.Context, playerID int, cmd command.Command) error {
	res, err := r.request(r.manager, messages.HWApplyCommand{WorldBaseMessage: r.base(ctx, playerID), Command: cmd}, r.timeoutFromContext(ctx))
	if err != nil {
		return err
	}
	resp, err := as[messages.WHApplyCommand](res)
	if err != nil {
		return err
	}
	return resp.Err
}

func (r *Runtime) Stats(ctx context.Context) (messages.WHStats, error) {
	res, err := r.request(r.manager, messages.HWStats{WorldBaseMessage: r.base(ctx, 0)}, r.timeoutFromContext(ctx))
	if err != nil {
		return messages.WHStats{}, err
	}
	return as[messages.WHStats](res)
}

// as 把 actor 回复转成期望类型；FailResp 转成 RuntimeError。
func as[T any](res any) (T, error) {
	var zero T
	switch v := res.(type) {
	case T:
		return v, nil
	case *messages.FailResp:
		if v == nil {
			break
		}
		return zero, &RuntimeError{Code: v.Code, Message: v.Message}
	}
	return zero, &RuntimeError{
		Code:    transport.SystemError,
		Message: "actor 返回类型非法",
		Cause:   errx.ErrInternal.WithData("got", fmt.Sprintf("%T", res)),
	}
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		code := transport.SystemError
		if errors.Is(err, protoactor.ErrTimeout) {
			code = transport.UpstreamTimeout
			err = errx.ErrTimeout.WithCause(err).WithData("timeout", timeout.String())
		}
		return nil, &RuntimeError{
			Code:    code,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.SystemError
}
