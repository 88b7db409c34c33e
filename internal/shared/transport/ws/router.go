package ws

import (
	"NavalWar/internal/shared/logs"
	"NavalWar/internal/shared/transport"
	"NavalWar/modules/kit/logx"
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

type Group struct {
	prefix   string
	handlers map[string]HandlerFunc
}

// Handle 同名重复注册直接 panic，启动阶段就能发现。
func (g *Group) Handle(name string, h HandlerFunc) {
	if _, dup := g.handlers[name]; dup {
		panic(fmt.Sprintf("ws route %s.%s registered twice", g.prefix, name))
	}
	g.handlers[name] = h
}

// Router 按 "组.处理器" 两段式名字分发，例如 world.fire。
type Router struct {
	groups map[string]*Group
	log    logx.Logger
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.NewZapLogger(logs.Logger())
	}
	return &Router{
		groups: make(map[string]*Group),
		log:    l,
	}
}

func (r *Router) Group(prefix string) *Group {
	g, ok := r.groups[prefix]
	if !ok {
		g = &Group{prefix: prefix, handlers: make(map[string]HandlerFunc)}
		r.groups[prefix] = g
	}
	return g
}

// Routes 已注册的全部路由名，排好序。
func (r *Router) Routes() []string {
	var out []string
	for prefix, g := range r.groups {
		for name := range g.handlers {
			out = append(out, prefix+"."+name)
		}
	}
	sort.Strings(out)
	return out
}

func (r *Router) Dispatch(req *WsMsgReq, resp *WsMsgResp) {
	action := "WS unknown"
	if req != nil && req.Body != nil {
		action = "WS " + req.Body.Name
	}
	ctx := transport.NewContext(action)
	defer r.writeAccessLog(ctx, resp)

	if resp != nil && resp.Body != nil {
		// handler 漏设 code 时按系统错误返回
		resp.Body.Code = transport.SystemError
		resp.Body.Msg = nil
	}
	if req == nil || req.Body == nil || resp == nil || resp.Body == nil {
		setError(resp, transport.InvalidParam, "参数有误")
		return
	}

	h := r.lookup(req.Body.Name, resp)
	if h == nil {
		return
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.WithContext(ctx).Error("ws handler panic",
				zap.String("route", req.Body.Name),
				zap.Any("panic", p),
				zap.Stack("stack"),
			)
			setError(resp, transport.SystemError, "系统繁忙，请稍后重试")
		}
	}()
	h(ctx, req, resp)
}

func (r *Router) lookup(route string, resp *WsMsgResp) HandlerFunc {
	prefix, name, ok := parseRouteName(route)
	if !ok {
		setError(resp, transport.InvalidParam, "路由参数有误")
		return nil
	}
	g := r.groups[prefix]
	if g == nil {
		setError(resp, transport.RouteNotFound, "路由组不存在")
		return nil
	}
	h := g.handlers[name]
	if h == nil {
		setError(resp, transport.RouteNotFound, "路由处理器不存在")
		return nil
	}
	return h
}

func parseRouteName(name string) (string, string, bool) {
	prefix, handler, ok := strings.Cut(name, ".")
	if !ok || prefix == "" || handler == "" || strings.Contains(handler, ".") {
		return "", "", false
	}
	return prefix, handler, true
}

func setError(resp *WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	resp.Body.Msg = msg
}

func (r *Router) writeAccessLog(ctx context.Context, resp *WsMsgResp) {
	code := transport.SystemError
	if resp != nil && resp.Body != nil {
		code = resp.Body.Code
	}
	transport.SetBizCode(ctx, transport.BizCode(code))
	transport.WriteAccessLog(ctx, r.log)
}
