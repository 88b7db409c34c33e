package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	maxCauseDepth = 20
	maxStackDepth = 32
)

// 这些帧不算“出错位置”，取 origin 时跳过。
var skipFramePrefixes = []string{
	"runtime.",
	"NavalWar/modules/kit/errx.",
}

// 以下接口由 errx.Error 实现，logx 不直接依赖 errx。
type (
	codeTextProvider interface{ CodeText() string }
	msgProvider      interface{ Msg() string }
	dataProvider     interface{ Data() map[string]any }
	stackProvider    interface{ Stack() []uintptr }
	reasonProvider   interface{ Reason() string }
)

type ErrorLog struct {
	Error      string
	Code       string
	Msg        string
	Reason     string
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      string
}

func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error()}

	var cp codeTextProvider
	if errors.As(err, &cp) {
		out.Code = cp.CodeText()
	}
	var mp msgProvider
	if errors.As(err, &mp) {
		out.Msg = mp.Msg()
	}
	var dp dataProvider
	if errors.As(err, &dp) {
		out.Data = dp.Data()
	}
	var rp reasonProvider
	if errors.As(err, &rp) {
		out.Reason = rp.Reason()
	}
	var sp stackProvider
	if errors.As(err, &sp) {
		out.Origin, out.Stack = formatStack(sp.Stack(), maxStackDepth)
	}
	out.CauseChain = buildCauseChain(err, maxCauseDepth)
	return out
}

// Fields sys 日志附带的结构化字段，空值不输出。
func (e ErrorLog) Fields() []zap.Field {
	var fs []zap.Field
	if e.Code != "" {
		fs = append(fs, zap.String("error_code", e.Code))
	}
	if len(e.CauseChain) != 0 {
		fs = append(fs, zap.Strings("cause_chain", e.CauseChain))
	}
	if len(e.Data) != 0 {
		fs = append(fs, zap.Any("error_data", e.Data))
	}
	if e.Origin != "" {
		fs = append(fs, zap.String("origin_caller", e.Origin))
	}
	if e.Stack != "" {
		fs = append(fs, zap.String("stack_origin", e.Stack))
	}
	return fs
}

func buildCauseChain(err error, maxDepth int) []string {
	if err == nil || maxDepth <= 0 {
		return nil
	}
	var out []string
	for cur, i := errors.Unwrap(err), 0; cur != nil && i < maxDepth; cur, i = errors.Unwrap(cur), i+1 {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
	}
	return out
}

func skipFrame(fn string) bool {
	for _, p := range skipFramePrefixes {
		if strings.HasPrefix(fn, p) {
			return true
		}
	}
	return false
}

// formatStack origin 取第一个非 runtime/errx 的帧。
func formatStack(pcs []uintptr, maxFrames int) (origin string, stack string) {
	if len(pcs) == 0 || maxFrames <= 0 {
		return "", ""
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, maxFrames)
	for len(lines) < maxFrames {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" && f.Line == 0 {
			break
		}
		if !skipFrame(f.Function) {
			line := f.Function + " " + f.File + ":" + strconv.Itoa(f.Line)
			if origin == "" {
				origin = line
			}
			lines = append(lines, line)
		}
		if !more {
			break
		}
	}
	return origin, strings.Join(lines, "\n")
}
