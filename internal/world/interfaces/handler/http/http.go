package http

import (
	"NavalWar/internal/shared/security"
	"NavalWar/internal/shared/transport"
	"NavalWar/internal/world/interfaces/handler"
	"NavalWar/internal/world/interfaces/handler/http/dto"
	"context"
	"crypto/subtle"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
)

// HeaderBotKey 机器人进程申请令牌时带上的密钥。
const HeaderBotKey = "X-Bot-Key"

// IDGenerator 游客 id 来源，生产环境是 utils.Snowflake。
type IDGenerator interface {
	NextID() int64
}

type HttpHandler struct {
	world  *handler.World
	ids    IDGenerator
	botKey []byte
}

// NewHttpHandler botKey 为空时只发放真人令牌。
func NewHttpHandler(w *handler.World, ids IDGenerator, botKey string) *HttpHandler {
	h := &HttpHandler{world: w, ids: ids}
	if botKey != "" {
		h.botKey = []byte(botKey)
	}
	return h
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	worldGroup := group.Group("/world")
	worldGroup.GET("/stats", h.Stats)

	sessionGroup := group.Group("/session")
	sessionGroup.POST("/guest", h.Guest)
}

func (h *HttpHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.world.Runtime.Stats(ctx)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, dto.StatsResp{
		Tick:     stats.Tick,
		Entities: stats.Entities,
		Players:  stats.Players,
		Pending:  stats.Pending,
	})
}

type guestResp struct {
	PlayerID int    `json:"player_id"`
	Token    string `json:"token"`
}

// Guest 分配一个游客 id 并签发令牌，之后用 session.enter 进入世界。
// 只有带对了 X-Bot-Key 的请求拿到机器人令牌，请求体不参与判断。
func (h *HttpHandler) Guest(c *gin.Context) {
	bot := false
	if key := c.GetHeader(HeaderBotKey); key != "" {
		if len(h.botKey) == 0 || subtle.ConstantTimeCompare([]byte(key), h.botKey) != 1 {
			h.fail(c, transport.SessionInvalid, "bot key 无效")
			return
		}
		bot = true
	}

	pid := int(h.ids.NextID())
	token, err := security.Award(pid, bot)
	if err != nil {
		h.error(c.Request.Context(), c, err)
		return
	}
	h.ok(c, guestResp{PlayerID: pid, Token: token})
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, dto.Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, dto.Error(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, err error) {
	code, msg := handler.HandleError(ctx, err)
	h.fail(c, code, msg)
}
