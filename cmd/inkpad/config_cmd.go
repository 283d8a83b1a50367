package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"inkpad/internal/config"
)

func configMain(root rootArgs, args []string) {
	if err := runConfig(root, args, os.Stdout); err != nil {
		log.Fatalf("config failed: %v", err)
	}
}

// runConfig 处理 config init / show。
// init 把默认值（叠加 -c 覆盖）写入配置文件；show 输出合并后的有效配置。
func runConfig(root rootArgs, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: inkpad config init|show [--config path] [-c key=value]")
	}
	action := args[0]
	fs, cli := newCommandFlagSet("config " + action)
	var force bool
	if action == "init" {
		fs.BoolVar(&force, "force", false, "Overwrite an existing config file")
	}
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	switch action {
	case "init":
		// 环境变量只影响运行时，不写入文件。
		cfg := config.ApplyKVOverrides(config.Default(), cli.overrides(root))
		path, err := config.Save(cli.cfgPath, cfg, force)
		if errors.Is(err, config.ErrExists) {
			return fmt.Errorf("%w (use --force to replace it)", err)
		}
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "wrote %s\n", path)
		return nil
	case "show":
		cfg, err := loadRuntime(cli.cfgPath, cli.overrides(root))
		if err != nil {
			return err
		}
		body, err := config.Encode(cfg)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "# source: %s\n", cfg.Source)
		_, err = out.Write(body)
		return err
	default:
		return fmt.Errorf("unknown config action %q (use init or show)", action)
	}
}
