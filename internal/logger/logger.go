package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LogEntry/Fields 暴露底层类型，调用方无需直接依赖 logrus。
type LogEntry = logrus.Entry
type Fields = logrus.Fields

const (
	// DefaultLogPath 是全局日志文件路径。TUI 占用终端，日志只能写文件。
	DefaultLogPath = "logs/inkpad.log"
	// DefaultWireLogPath 记录每一次请求/响应往返。
	DefaultWireLogPath = "logs/wire.log"
)

var rootLogger = logrus.StandardLogger()

// Configure 设置全局日志格式、caller 输出与级别。
func Configure(level string) {
	root().SetReportCaller(true)
	root().SetFormatter(PlainFormatter{})
	if lvl, err := logrus.ParseLevel(strings.TrimSpace(level)); err == nil {
		root().SetLevel(lvl)
	}
}

// SetupFile 将全局日志重定向到 logPath，返回文件 closer 与实际路径。
func SetupFile(logPath string) (io.Closer, string, error) {
	if logPath == "" {
		logPath = DefaultLogPath
	}
	f, resolved, err := openLogFile(logPath)
	if err != nil {
		return nil, "", err
	}
	root().SetOutput(f)
	return f, resolved, nil
}

// SetupComponentFile 为单个组件创建独立的文件 logger。
func SetupComponentFile(component, logPath string) (*LogEntry, io.Closer, string, error) {
	f, resolved, err := openLogFile(logPath)
	if err != nil {
		return nil, nil, "", err
	}
	l := logrus.New()
	l.SetReportCaller(true)
	l.SetFormatter(PlainFormatter{})
	l.SetLevel(root().GetLevel())
	l.SetOutput(f)

	entry := logrus.NewEntry(l)
	if component != "" {
		entry = entry.WithField("component", component)
	}
	return entry, f, resolved, nil
}

// Discard returns an entry that drops everything; handy in tests.
func Discard() *LogEntry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// Named 为组件创建入口，统一 component 字段。
func Named(component string) *LogEntry {
	entry := logrus.NewEntry(root())
	if component != "" {
		entry = entry.WithField("component", component)
	}
	return entry
}

func root() *logrus.Logger {
	if rootLogger == nil {
		rootLogger = logrus.StandardLogger()
	}
	return rootLogger
}

// PlainFormatter 输出格式：caller [timestamp] [LEVEL] [component] message fields。
type PlainFormatter struct{}

// Format 实现 logrus.Formatter。
func (PlainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry == nil {
		return []byte{}, nil
	}
	timestamp := entry.Time.UTC().Format(time.RFC3339Nano)
	level := strings.ToUpper(entry.Level.String())
	component, _ := entry.Data["component"].(string)

	parts := make([]string, 0, 6)
	if caller := formatCaller(entry); caller != "" {
		parts = append(parts, caller)
	}
	parts = append(parts, fmt.Sprintf("[%s]", timestamp), fmt.Sprintf("[%s]", level))
	if component != "" {
		parts = append(parts, fmt.Sprintf("[%s]", component))
	}
	if kind, ok := entry.Data["type"].(string); ok && kind != "" {
		parts = append(parts, fmt.Sprintf("[type=%s]", kind))
	}
	parts = append(parts, entry.Message)
	if fields := formatFields(entry.Data); fields != "" {
		parts = append(parts, fields)
	}
	return []byte(strings.Join(parts, " ") + "\n"), nil
}

func formatCaller(entry *logrus.Entry) string {
	if entry.HasCaller() && entry.Caller != nil {
		return fmt.Sprintf("%s:%d", shortenFilePath(entry.Caller.File), entry.Caller.Line)
	}
	if caller, ok := entry.Data["caller"].(string); ok && caller != "" {
		return caller
	}
	return ""
}

func formatFields(fields logrus.Fields) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		switch k {
		case "component", "caller", "type":
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}

func shortenFilePath(file string) string {
	file = filepath.ToSlash(file)
	for _, marker := range []string{"/internal/", "/cmd/"} {
		if idx := strings.Index(file, marker); idx != -1 {
			return file[idx+1:]
		}
	}
	return filepath.Base(file)
}

func openLogFile(logPath string) (*os.File, string, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, "", err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, "", err
	}
	return f, logPath, nil
}
