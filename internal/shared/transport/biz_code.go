package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 客户端业务码。0 成功，1xx 协议/会话，2xx 指令拒绝，5xx 系统。
const (
	OK = 0

	InvalidParam   = 101
	SessionInvalid = 102
	RouteNotFound  = 103

	CommandStatus      = 201
	CommandIneligible  = 202
	CommandOutOfBounds = 203
	CommandNotReady    = 204
	CommandGeometry    = 205
	CommandNumeric     = 206
	CommandCapacity    = 207

	SystemError         = 500
	UpstreamUnavailable = 503
	UpstreamTimeout     = 504
)
