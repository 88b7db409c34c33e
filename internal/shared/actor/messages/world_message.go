package messages

import (
	"NavalWar/internal/world/command"
)

type WorldMessage interface {
	WorldID() int
	PlayerID() int
}

type WorldBaseMessage struct {
	WorldId  int
	PlayerId int
	// TraceId 由网关层透传，世界 actor 打日志时带上。
	TraceId string
}

func (w WorldBaseMessage) WorldID() int {
	return w.WorldId
}

func (w WorldBaseMessage) PlayerID() int {
	return w.PlayerId
}

// HWEnter 会话绑定玩家后进入世界，首次进入会恢复分数。
type HWEnter struct {
	WorldBaseMessage
	Bot bool
}

type WHEnter struct {
	Score int
	Err   error
}

// HWLeave 断线离开，若存活则移除其船。
type HWLeave struct {
	WorldBaseMessage
}

type WHLeave struct {
	Err error
}

type HWApplyCommand struct {
	WorldBaseMessage
	Command command.Command
}

// WHApplyCommand Err 为空表示成功；非空时是 command 包里的业务错误。
type WHApplyCommand struct {
	Err error
}

type HWStats struct {
	WorldBaseMessage
}

type WHStats struct {
	Tick     uint64 `json:"tick"`
	Entities int    `json:"entities"`
	Players  int    `json:"players"`
	Pending  int    `json:"pending_scores"`
}

// FailResp actor 自己没法处理（未就绪、无处理器）时的回复；指令拒绝放在 WHApplyCommand.Err 里。
type FailResp struct {
	Code    int
	Message string
}
