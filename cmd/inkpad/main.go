package main

import (
	"errors"
	"fmt"
	"os"

	"inkpad/internal/logger"
	"inkpad/internal/store"
	"inkpad/internal/tui"
)

var log = logger.Named("cli")

func main() {
	root, rest, err := parseRootArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("parse args: %v", err)
	}
	if len(rest) > 0 {
		switch rest[0] {
		case "check":
			checkMain(root, rest[1:])
			return
		case "play":
			playMain(root, rest[1:])
			return
		case "config":
			configMain(root, rest[1:])
			return
		case "history":
			historyMain(rest[1:])
			return
		case "completion":
			completionMain(rest[1:])
			return
		}
	}

	if code := runInteractive(root, rest); code != 0 {
		os.Exit(code)
	}
}

func runInteractive(root rootArgs, args []string) int {
	fs, cli := newCommandFlagSet("inkpad")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse args: %v", err)
	}
	path := fs.Arg(0)
	script, err := readScript(path)
	if err != nil {
		log.Fatalf("failed to read script: %v", err)
	}

	rt, err := setupRuntime(cli.cfgPath, cli.overrides(root))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	defer rt.Close()
	transport, err := rt.transport()
	if err != nil {
		log.Fatalf("failed to init story client: %v", err)
	}

	result, err := tui.Run(tui.Options{
		Config:     rt.cfg,
		Transport:  transport,
		ScriptPath: path,
		Script:     script,
	})
	if err != nil {
		log.Fatalf("program exit: %v", err)
	}
	return printExitSummary(path, result)
}

// readScript 读取脚本；不存在的文件视为新脚本，未指定文件时使用示例脚本。
func readScript(path string) (string, error) {
	if path == "" {
		return tui.StarterScript, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	return string(data), err
}

func printExitSummary(path string, result tui.Result) int {
	lines := []string{}
	if len(result.Entries) > 0 {
		id, err := store.Save(store.Record{
			SessionID:  result.SessionID,
			ScriptPath: absPath(path),
			Script:     result.Script,
			Entries:    result.Entries,
			Ended:      result.Ended,
		})
		if err != nil {
			log.Warnf("failed to save playthrough: %v", err)
		} else {
			lines = append(lines, fmt.Sprintf("Playthrough saved, run inkpad history --show %s to read it again", id))
		}
	}
	if result.Unsaved && path != "" {
		lines = append(lines, fmt.Sprintf("Unsaved changes in %s were discarded", path))
	}
	if result.Fatal != nil {
		lines = append(lines, fmt.Sprintf("Synchronization stopped: %v", result.Fatal))
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	if result.Fatal != nil {
		return 1
	}
	return 0
}
