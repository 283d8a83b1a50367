package main

import (
	"flag"
	"io"
)

// commandArgs captures flags shared by every entrypoint (editor, check, play).
type commandArgs struct {
	cfgPath         string
	configOverrides stringSlice
}

func newCommandFlagSet(name string) (*flag.FlagSet, *commandArgs) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	args := &commandArgs{}

	fs.StringVar(&args.cfgPath, "config", "", "Path to config file (default ~/.inkpad/config.toml)")
	fs.Var(&args.configOverrides, "c", "Override config value key=value (repeatable)")

	return fs, args
}

// overrides 合并根参数与子命令参数，子命令的覆盖优先。
func (a *commandArgs) overrides(root rootArgs) []string {
	return prependOverrides(root.overrides, []string(a.configOverrides))
}
