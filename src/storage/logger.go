package storage

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel 定义日志级别类型
type LogLevel int

// 日志级别常量定义
const (
	DEBUG   LogLevel = iota // 调试信息
	INFO                    // 普通信息
	WARNING                 // 警告信息
	ERROR                   // 错误信息
	FATAL                   // 致命错误
)

// Logger 日志记录器结构体
type Logger struct {
	zl          *zap.SugaredLogger
	level       LogLevel      // 低于该级别的日志被丢弃
	mu          sync.Mutex    // 互斥锁，保证并发安全
	subscribers []chan string // 订阅者通道列表
}

// NewLogger 创建新的日志记录器
// 参数:
//
//	filename: 日志文件路径，为空时写到stderr
//	level: 最低记录级别
//
// 返回值:
//
//	*Logger: 日志记录器实例
//	error: 创建过程中的错误
func NewLogger(filename string, level LogLevel) (*Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Encoding = "json"
	config.Level = zap.NewAtomicLevelAt(level.zapLevel())
	config.Sampling = nil
	config.DisableStacktrace = true

	out := filename
	if out == "" {
		out = "stderr"
	}
	config.OutputPaths = []string{out}
	config.ErrorOutputPaths = []string{"stderr"}

	zl, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &Logger{
		zl:    zl.Sugar(),
		level: level,
	}, nil
}

// NewNopLogger 返回不输出任何内容的记录器，订阅者仍能收到消息
func NewNopLogger() *Logger {
	return &Logger{
		zl:    zap.NewNop().Sugar(),
		level: DEBUG,
	}
}

// ParseLevel 解析配置中的日志级别
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, nil
	case "", "info":
		return INFO, nil
	case "warn", "warning":
		return WARNING, nil
	case "error":
		return ERROR, nil
	case "fatal":
		return FATAL, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", s)
	}
}

// With 为之后的每条日志附加固定字段，例如run_id
func (l *Logger) With(keysAndValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zl = l.zl.With(keysAndValues...)
}

// Close 刷新缓冲
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// stderr/stdout 上的Sync在部分平台返回EINVAL，忽略
	_ = l.zl.Sync()
	return nil
}

// Log 记录日志方法
// 参数:
//
//	level: 日志级别
//	message: 日志消息内容
//	keysAndValues: 结构化字段
func (l *Logger) Log(level LogLevel, message string, keysAndValues ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()         // 加锁保证线程安全
	defer l.mu.Unlock() // 方法结束时自动解锁

	switch level {
	case DEBUG:
		l.zl.Debugw(message, keysAndValues...)
	case INFO:
		l.zl.Infow(message, keysAndValues...)
	case WARNING:
		l.zl.Warnw(message, keysAndValues...)
	default:
		// FATAL 也只记录，是否退出由调用方决定
		l.zl.Errorw(message, append(keysAndValues, "level_name", level.String())...)
	}

	// 格式化日志条目: [时间] 级别: 消息
	entry := fmt.Sprintf("[%s] %s: %s",
		time.Now().Format("2006-01-02 15:04:05"),
		level.String(),
		message)
	if len(keysAndValues) > 0 {
		entry += " " + formatFields(keysAndValues)
	}

	// 通知所有订阅者
	for _, ch := range l.subscribers {
		select {
		case ch <- entry: // 尝试发送日志条目
		default: // 如果通道已满则跳过
		}
	}
}

// Subscribe 订阅日志消息
// 返回值:
//
//	<-chan string: 只读通道，用于接收日志消息
func (l *Logger) Subscribe() <-chan string {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 创建带缓冲的通道(容量100)
	ch := make(chan string, 100)
	// 将新通道加入订阅者列表
	l.subscribers = append(l.subscribers, ch)
	return ch
}

// String 实现LogLevel的String方法
// 返回值:
//
//	string: 日志级别的字符串表示
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARNING:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func formatFields(kv []interface{}) string {
	parts := make([]string, 0, len(kv)/2+1)
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			parts = append(parts, fmt.Sprintf("%v=%v", kv[i], kv[i+1]))
		} else {
			parts = append(parts, fmt.Sprintf("%v", kv[i]))
		}
	}
	return strings.Join(parts, " ")
}

// 以下是快捷日志方法
func (l *Logger) Debug(msg string, kv ...interface{})   { l.Log(DEBUG, msg, kv...) }   // 记录调试信息
func (l *Logger) Info(msg string, kv ...interface{})    { l.Log(INFO, msg, kv...) }    // 记录普通信息
func (l *Logger) Warning(msg string, kv ...interface{}) { l.Log(WARNING, msg, kv...) } // 记录警告信息
func (l *Logger) Error(msg string, kv ...interface{})   { l.Log(ERROR, msg, kv...) }   // 记录错误信息
func (l *Logger) Fatal(msg string, kv ...interface{})   { l.Log(FATAL, msg, kv...) }   // 记录致命错误
