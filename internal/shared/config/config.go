package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const defaultConfigRelPath = "configs/conf.yml"

var ErrConfigNotFound = errors.New("config file not exist")

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level" env:"NAVALWAR_LOG_LEVEL"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

// Load 把配置文件解到 out，并监听文件变更。
//
// 约定：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
//
// onChange 在文件变更后被调用，拿到的是已重新读入的 viper，由调用方决定哪些字段可以热更新。
func Load(cfgName string, out any, onChange func(v *viper.Viper)) (string, error) {
	path, err := Resolve(cfgName)
	if err != nil {
		return "", err
	}
	if err := load(path, out, onChange); err != nil {
		return "", err
	}
	return path, nil
}

// Resolve 返回实际使用的配置文件路径。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if !filepath.IsAbs(cfgName) {
			cfgName = filepath.Join(curDir, cfgName)
		}
		if !fileExist(cfgName) {
			return "", errors.Join(ErrConfigNotFound, errors.New(cfgName))
		}
		return cfgName, nil
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Join(ErrConfigNotFound, errors.New("searched configs/conf.yml from: "+startDir))
		}
		dir = parent
	}
}
