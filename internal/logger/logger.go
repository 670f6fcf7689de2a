package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogDirName    = "logs"
	defaultLogFilename   = "ramus.log"
	defaultLogMaxSizeMB  = 100
	defaultLogMaxBackups = 7
	defaultLogMaxAgeDays = 30
)

// 运行模式
const (
	ModeDebug   = "debug"   // 控制台彩色输出到 stdout
	ModeRelease = "release" // JSON 写入滚动文件
	ModeCLI     = "cli"     // ramusctl：默认仅 warn 以上写 stderr
)

// Options 日志输出配置；Level 为空时按模式取默认级别
type Options struct {
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	Level      string
	Console    bool // release 模式下同时输出到 stdout
}

// L 全局日志
var L *zap.Logger

var (
	fallbackOnce sync.Once
	fallbackLog  *zap.Logger
)

// Init 初始化并替换 zap 全局日志
func Init(mode string, options Options) *zap.Logger {
	L = New(mode, options)
	zap.ReplaceGlobals(L)
	return L
}

// New 按模式构建日志；文件不可写时退回 stdout
func New(mode string, options Options) *zap.Logger {
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch mode {
	case ModeDebug:
		return build(level(options.Level, zap.DebugLevel), zapcore.NewCore(consoleEncoder(), zapcore.Lock(os.Stdout), zap.DebugLevel))
	case ModeCLI:
		lvl := level(options.Level, zap.WarnLevel)
		return build(lvl, zapcore.NewCore(consoleEncoder(), zapcore.Lock(os.Stderr), lvl))
	}

	lvl := level(options.Level, zap.InfoLevel)
	file, err := newFileWriteSyncer(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed, fallback to stdout: %v\n", err)
		return build(lvl, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.Lock(os.Stdout), lvl))
	}
	cores := []zapcore.Core{zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), file, lvl)}
	if options.Console {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.Lock(os.Stdout), lvl))
	}
	return build(lvl, zapcore.NewTee(cores...))
}

// level 解析配置级别，非法值使用模式默认
func level(raw string, fallback zapcore.Level) zapcore.Level {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	lvl, err := zapcore.ParseLevel(raw)
	if err != nil {
		return fallback
	}
	return lvl
}

func build(lvl zapcore.Level, core zapcore.Core) *zap.Logger {
	filtered, err := zapcore.NewIncreaseLevelCore(core, lvl)
	if err != nil {
		// 目标级别低于 core 自身级别时无法提高，保持原 core
		filtered = core
	}
	return zap.New(filtered, zap.AddCaller(), zap.AddCallerSkip(1))
}

func consoleEncoder() zapcore.Encoder {
	cfg := encoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

// StdLogger 标准库 log 适配，供 gorm 等第三方使用
func StdLogger() *log.Logger {
	return zap.NewStdLog(Z())
}

// Z 当前日志，未初始化时使用 stdout 兜底
func Z() *zap.Logger {
	if L != nil {
		return L
	}
	fallbackOnce.Do(func() {
		fallbackLog = build(zap.InfoLevel, zapcore.NewCore(consoleEncoder(), zapcore.Lock(os.Stdout), zap.InfoLevel))
	})
	return fallbackLog
}

// S 当前 SugaredLogger
func S() *zap.SugaredLogger {
	return Z().Sugar()
}

// SW 附带固定字段
func SW(kv ...interface{}) *zap.SugaredLogger {
	return S().With(kv...)
}

// Debugw debug 级别
func Debugw(message string, kv ...interface{}) { S().Debugw(message, kv...) }

// Infow info 级别
func Infow(message string, kv ...interface{}) { S().Infow(message, kv...) }

// Warnw warn 级别
func Warnw(message string, kv ...interface{}) { S().Warnw(message, kv...) }

// Errorw error 级别
func Errorw(message string, kv ...interface{}) { S().Errorw(message, kv...) }

func newFileWriteSyncer(options Options) (zapcore.WriteSyncer, error) {
	path, err := resolveLogFilePath(options)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    positiveOr(options.MaxSizeMB, defaultLogMaxSizeMB),
		MaxBackups: positiveOr(options.MaxBackups, defaultLogMaxBackups),
		MaxAge:     positiveOr(options.MaxAgeDays, defaultLogMaxAgeDays),
		Compress:   options.Compress,
	}), nil
}

// resolveLogFilePath 确保目录存在且文件可写
func resolveLogFilePath(options Options) (string, error) {
	dir := strings.TrimSpace(options.Dir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve workdir: %w", err)
		}
		dir = filepath.Join(wd, defaultLogDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	name := strings.TrimSpace(options.Filename)
	if name == "" {
		name = defaultLogFilename
	}
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}
	return path, f.Close()
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
