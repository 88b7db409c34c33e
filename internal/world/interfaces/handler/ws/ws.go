package ws

import (
	"NavalWar/internal/shared/security"
	"NavalWar/internal/shared/transport"
	"NavalWar/internal/shared/transport/ws"
	"NavalWar/internal/world/command"
	"NavalWar/internal/world/interfaces/handler"
	"NavalWar/internal/world/interfaces/handler/ws/dto"
	"context"
)

type WsHandler struct {
	world *handler.World
}

func NewWsHandler(w *handler.World) *WsHandler {
	return &WsHandler{world: w}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	sessionGroup := r.Group("session")
	sessionGroup.Handle("enter", h.enter)

	worldGroup := r.Group("world")
	worldGroup.Handle("spawn", commandRoute[command.Spawn](h))
	worldGroup.Handle("control", commandRoute[command.Control](h))
	worldGroup.Handle("fire", commandRoute[command.Fire](h))
	worldGroup.Handle("pay", commandRoute[command.Pay](h))
	worldGroup.Handle("hint", commandRoute[command.Hint](h))
	worldGroup.Handle("upgrade", commandRoute[command.Upgrade](h))
}

// enter 校验令牌、绑定连接，再让玩家进入世界。
func (h *WsHandler) enter(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	var req dto.EnterReq
	if err := ws.BindJSON(wsReq, &req); err != nil || req.Token == "" {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	_, claims, err := security.ParseToken(req.Token)
	if err != nil {
		h.fail(wsResp, transport.SessionInvalid, "token 无效")
		return
	}

	score, err := h.world.Runtime.Enter(ctx, claims.Pid, claims.Bot)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}

	wsReq.Conn.SetProperty(ws.ConnKeyUID, claims.Pid)
	sid := h.world.Session.Bind(claims.Pid, wsReq.Conn)
	h.ok(wsResp, dto.EnterResp{PlayerID: claims.Pid, SessionID: sid, Score: score})
}

// 客户端每帧都会发，成功时不写 access 日志
var quietCommands = map[string]bool{
	command.Control{}.Name(): true,
	command.Hint{}.Name():    true,
}

// commandRoute 每种指令一条路由，body 按 mapstructure 标签解码。
func commandRoute[C command.Command](h *WsHandler) ws.HandlerFunc {
	return func(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
		if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
			h.fail(wsResp, transport.InvalidParam, "参数有误")
			return
		}
		uid, ok := h.world.Session.GetUID(wsReq.Conn)
		if !ok {
			h.fail(wsResp, transport.SessionInvalid, "session 无效")
			return
		}

		var cmd C
		transport.SetCommand(ctx, uid, cmd.Name(), quietCommands[cmd.Name()])
		if err := ws.BindMap(wsReq, &cmd); err != nil {
			h.fail(wsResp, transport.InvalidParam, err.Error())
			return
		}
		if err := h.world.Runtime.Apply(ctx, uid, cmd); err != nil {
			h.error(ctx, wsResp, err)
			return
		}
		h.ok(wsResp, nil)
	}
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}

func (h *WsHandler) error(ctx context.Context, resp *ws.WsMsgResp, err error) {
	code, msg := handler.HandleError(ctx, err)
	h.fail(resp, code, msg)
}
