package logs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"NavalWar/internal/shared/config"
)

func TestInit_级别与热更新(t *testing.T) {
	if err := Init("test", config.LogConfig{Level: "WARN"}); err != nil {
		t.Fatalf("Init 失败: %v", err)
	}
	if atomicLevel.Level() != zapcore.WarnLevel {
		t.Fatalf("期望 warn，实际 %v", atomicLevel.Level())
	}
	if Logger().Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("warn 级别下 info 不应输出")
	}

	SetLevel("debug")
	if !Logger().Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("SetLevel 后应输出 debug")
	}

	SetLevel("not-a-level")
	if atomicLevel.Level() != zapcore.InfoLevel {
		t.Fatalf("非法级别应回退到 info")
	}
}

func TestInit_写入文件(t *testing.T) {
	dir := t.TempDir()
	if err := Init("navaltest", config.LogConfig{Level: "info", FileDir: dir}); err != nil {
		t.Fatalf("Init 失败: %v", err)
	}
	Info("hello file")
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "navaltest.log"))
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello file"`) || !strings.Contains(string(data), `"service":"navaltest"`) {
		t.Fatalf("日志内容不对: %s", data)
	}
}
