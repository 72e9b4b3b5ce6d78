package logx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format 决定日志编码。
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// New 按 level 构造 logger，输出到 w（nil 时为 stderr）。
//
// 约束：
// - stdout 留给 CLI 的表格/JSON 输出，日志永远不写 stdout。
// - level 非法时报错，而不是静默回退到 info。
func New(level string, format Format, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("日志级别无效：%w", err)
	}
	if w == nil {
		w = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder

	var enc zapcore.Encoder
	switch format {
	case FormatJSON:
		enc = zapcore.NewJSONEncoder(encCfg)
	case FormatConsole, "":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("日志格式无效：%q", format)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), zap.NewAtomicLevelAt(lvl))
	return zap.New(core), nil
}
