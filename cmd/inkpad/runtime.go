package main

import (
	"io"
	"net/http"

	"inkpad/internal/client"
	"inkpad/internal/config"
	"inkpad/internal/logger"
)

// runtime 汇总一次命令运行所需的配置与日志句柄。
type runtime struct {
	cfg     config.Config
	wire    *logger.LogEntry
	closers []io.Closer
}

func loadRuntime(cfgPath string, overrides []string) (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, err
	}
	return config.ApplyKVOverrides(cfg, overrides), nil
}

// setupRuntime 加载配置并把日志写到文件；终端留给 TUI 或命令输出。
func setupRuntime(cfgPath string, overrides []string) (*runtime, error) {
	cfg, err := loadRuntime(cfgPath, overrides)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, wire: logger.Named("wire")}
	logger.Configure(cfg.LogLevel)
	if logFile, _, err := logger.SetupFile(logger.DefaultLogPath); err != nil {
		log.Warnf("failed to initialize log file: %v", err)
	} else {
		rt.closers = append(rt.closers, logFile)
	}
	if entry, closer, _, err := logger.SetupComponentFile("wire", logger.DefaultWireLogPath); err != nil {
		log.Warnf("failed to initialize wire log (%s): %v", logger.DefaultWireLogPath, err)
	} else {
		rt.wire = entry
		rt.closers = append(rt.closers, closer)
	}
	log.WithField("config", cfg.Source).Debug("configuration loaded")
	return rt, nil
}

func (rt *runtime) transport() (*client.Client, error) {
	return client.New(client.Options{
		BaseURL:    rt.cfg.URL,
		CommitPath: rt.cfg.CommitPath,
		ChoosePath: rt.cfg.ChoosePath,
		HTTP:       &http.Client{},
		Log:        rt.wire,
	})
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		_ = rt.closers[i].Close()
	}
}
