package ws

// Registrar 业务模块向 ws 路由注册自己的处理器。
type Registrar interface {
	WsRegister(r *Router)
}
