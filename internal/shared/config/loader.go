package config

import (
	"fmt"
	"log"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

func load(configPath string, out any, onChange func(v *viper.Viper)) error {
	if !fileExist(configPath) {
		return fmt.Errorf("%w: configPath=%v", ErrConfigNotFound, configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	// 加载配置
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("viper unmarshal config data: %w", err)
	}
	if err := ParseEnv(out); err != nil {
		return err
	}

	if onChange != nil {
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Println("配置文件变更", e.Name)
			onChange(v)
		})
		v.WatchConfig()
	}
	return nil
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
