package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv 用环境变量覆盖已读入的配置，没设置的变量不动原值。
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
