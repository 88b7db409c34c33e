package serverconfig

import (
	"NavalWar/internal/shared/config"
	"NavalWar/internal/shared/logs"
	"NavalWar/internal/shared/utils"
	"fmt"
	"math"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultConfigRelPath = "configs/conf.yml"

// MaxWorldRadius 地形网格按半径平方分配内存，半径需要有上限。
const MaxWorldRadius = 50_000.0

var Conf Config

// Load 读取 configs/conf.yml；cfgName 非空时用它。热更新只生效日志级别，其余配置需要重启。
func Load(cfgName string) error {
	if cfgName == "" {
		cfgName = defaultConfigRelPath
	}
	if _, err := config.Load(cfgName, &Conf, onChange); err != nil {
		// 相对路径找不到时，退回向上查找
		if cfgName != defaultConfigRelPath {
			return err
		}
		if _, err = config.Load("", &Conf, onChange); err != nil {
			return err
		}
	}
	if err := Conf.Validate(); err != nil {
		return err
	}
	// 环境变量优先；若未设置则回填配置中的 jwt_secret，兼容本地开发场景。
	if os.Getenv("JWT_SECRET") == "" && Conf.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", Conf.JWTSecret)
	}
	return nil
}

func onChange(v *viper.Viper) {
	var next Config
	if err := v.Unmarshal(&next); err != nil {
		logs.Error("reload config failed", zap.Error(err))
		return
	}
	if err := config.ParseEnv(&next); err != nil {
		logs.Error("reload config env failed", zap.Error(err))
		return
	}
	if next.Log.Level != Conf.Log.Level {
		logs.SetLevel(next.Log.Level)
		logs.Info("log level reloaded", zap.String("level", next.Log.Level))
	}
	Conf.Log.Level = next.Log.Level
}

func (c *Config) Validate() error {
	if r := c.World.Radius; math.IsNaN(r) || r < 0 || r > MaxWorldRadius {
		return fmt.Errorf("world.radius must be in [0,%g]: %v", MaxWorldRadius, r)
	}
	if id := c.World.NodeID; id < 0 || id > utils.MaxNodeID {
		return fmt.Errorf("world.node_id must be in [0,%d]: %d", utils.MaxNodeID, id)
	}
	return nil
}
