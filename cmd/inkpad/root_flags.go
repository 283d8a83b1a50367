package main

import (
	"flag"
	"io"
	"strings"
)

type rootArgs struct {
	overrides []string
}

// parseRootArgs 只消费全局参数，遇到第一个非 flag 参数（子命令或脚本路径）即停止。
func parseRootArgs(args []string) (rootArgs, []string, error) {
	fs := flag.NewFlagSet("inkpad", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var overrides stringSlice
	var url string
	fs.Var(&overrides, "c", "Override config value key=value (repeatable, applied before subcommand overrides)")
	fs.StringVar(&url, "url", "", "Story service url. Equivalent to -c url=<value>")
	if err := fs.Parse(args); err != nil {
		return rootArgs{}, nil, err
	}

	all := append([]string{}, overrides...)
	if strings.TrimSpace(url) != "" {
		all = append(all, "url="+strings.TrimSpace(url))
	}
	return rootArgs{overrides: all}, fs.Args(), nil
}

func prependOverrides(root []string, overrides []string) []string {
	merged := append([]string{}, root...)
	return append(merged, overrides...)
}
