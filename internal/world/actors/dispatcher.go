package actors

import (
	"NavalWar/internal/shared/actor/messages"
	"NavalWar/internal/shared/transport"
	"fmt"
	"reflect"

	"github.com/asynkron/protoactor-go/actor"
)

type handlerFunc func(ctx actor.Context, w *WorldActor, msg messages.WorldMessage)

// Dispatcher 按消息的具体类型找处理函数，注册时就把类型断言包好。
type Dispatcher struct {
	handlers map[reflect.Type]handlerFunc
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{handlers: make(map[reflect.Type]handlerFunc)}
	register(d, WH.HandleEnter)
	register(d, WH.HandleLeave)
	register(d, WH.HandleApplyCommand)
	register(d, WH.HandleStats)
	return d
}

func register[Req messages.WorldMessage](d *Dispatcher, fn func(ctx actor.Context, w *WorldActor, req Req)) {
	t := reflect.TypeFor[Req]()
	if _, dup := d.handlers[t]; dup {
		panic(fmt.Sprintf("world dispatcher: %v registered twice", t))
	}
	d.handlers[t] = func(ctx actor.Context, w *WorldActor, msg messages.WorldMessage) {
		fn(ctx, w, msg.(Req))
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, w *WorldActor, msg messages.WorldMessage) {
	if msg == nil {
		ctx.Respond(&messages.FailResp{Code: transport.InvalidParam, Message: "nil req"})
		return
	}
	h, ok := d.handlers[reflect.TypeOf(msg)]
	if !ok {
		ctx.Respond(&messages.FailResp{Code: transport.RouteNotFound, Message: fmt.Sprintf("no handler for %T", msg)})
		return
	}
	h(ctx, w, msg)
}
