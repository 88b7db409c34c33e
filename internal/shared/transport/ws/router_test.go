package ws

import (
	"context"
	"testing"

	"NavalWar/internal/shared/transport"
	"NavalWar/modules/kit/logx"
)

func TestRouter_分发与未知路由(t *testing.T) {
	r := NewRouter(logx.Nop())
	r.Group("world").Handle("ping", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		resp.Body.Code = transport.OK
		resp.Body.Msg = "pong"
	})

	cases := []struct {
		name string
		code int
	}{
		{"world.ping", transport.OK},
		{"world.nope", transport.RouteNotFound},
		{"nope.ping", transport.RouteNotFound},
		{"badroute", transport.InvalidParam},
	}
	for _, c := range cases {
		resp := &WsMsgResp{Body: &RespBody{}}
		r.Dispatch(&WsMsgReq{Body: &ReqBody{Name: c.name}}, resp)
		if resp.Body.Code != c.code {
			t.Fatalf("%s: 期望 code=%d，实际 %d", c.name, c.code, resp.Body.Code)
		}
	}
}

func TestRouter_处理器漏设code时为系统错误(t *testing.T) {
	r := NewRouter(logx.Nop())
	r.Group("world").Handle("noop", func(context.Context, *WsMsgReq, *WsMsgResp) {})
	resp := &WsMsgResp{Body: &RespBody{}}
	r.Dispatch(&WsMsgReq{Body: &ReqBody{Name: "world.noop"}}, resp)
	if resp.Body.Code != transport.SystemError {
		t.Fatalf("期望 SystemError，实际 %d", resp.Body.Code)
	}
}

func TestRouter_处理器panic转系统错误(t *testing.T) {
	r := NewRouter(logx.Nop())
	r.Group("world").Handle("boom", func(context.Context, *WsMsgReq, *WsMsgResp) { panic("boom") })
	resp := &WsMsgResp{Body: &RespBody{}}
	r.Dispatch(&WsMsgReq{Body: &ReqBody{Name: "world.boom"}}, resp)
	if resp.Body.Code != transport.SystemError {
		t.Fatalf("期望 SystemError，实际 %d", resp.Body.Code)
	}
}

func TestRouter_重复注册panic与路由列表(t *testing.T) {
	r := NewRouter(logx.Nop())
	noop := func(context.Context, *WsMsgReq, *WsMsgResp) {}
	r.Group("world").Handle("fire", noop)
	r.Group("session").Handle("enter", noop)

	if got := r.Routes(); len(got) != 2 || got[0] != "session.enter" || got[1] != "world.fire" {
		t.Fatalf("路由列表不对: %v", got)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("重复注册应 panic")
		}
	}()
	r.Group("world").Handle("fire", noop)
}

func TestParseRouteName(t *testing.T) {
	if _, _, ok := parseRouteName("world.fire.extra"); ok {
		t.Fatalf("三段式名字应拒绝")
	}
	if p, h, ok := parseRouteName("world.fire"); !ok || p != "world" || h != "fire" {
		t.Fatalf("解析不对: %s %s %v", p, h, ok)
	}
}
