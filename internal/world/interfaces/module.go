package interfaces

import (
	"NavalWar/internal/shared/session"
	transporthttp "NavalWar/internal/shared/transport/http"
	"NavalWar/internal/shared/transport/ws"
	"NavalWar/internal/world/interfaces/handler"
	"NavalWar/internal/world/interfaces/handler/http"
	wshandler "NavalWar/internal/world/interfaces/handler/ws"

	"github.com/gin-gonic/gin"
)

type Module struct {
	wsHandler   *wshandler.WsHandler
	httpHandler *http.HttpHandler
}

// New guestIDs 分配游客 id；botKey 见 http.HeaderBotKey。
func New(rt handler.Runtime, s session.Manager, guestIDs http.IDGenerator, botKey string) *Module {
	world := handler.NewWorld(rt, s)
	return &Module{
		wsHandler:   wshandler.NewWsHandler(world),
		httpHandler: http.NewHttpHandler(world, guestIDs, botKey),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
