package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"inkpad/internal/syncer"
)

func checkMain(root rootArgs, args []string) {
	code, err := runCheck(root, args, os.Stdout)
	if err != nil {
		log.Fatalf("check failed: %v", err)
	}
	os.Exit(code)
}

// runCheck 提交一次脚本：有诊断时输出并返回退出码 1，否则输出第一段故事。
func runCheck(root rootArgs, args []string, out io.Writer) (int, error) {
	fs, cli := newCommandFlagSet("check")
	if err := fs.Parse(args); err != nil {
		return 2, err
	}
	if fs.NArg() != 1 {
		return 2, errors.New("usage: inkpad check [--config path] file.ink")
	}
	path := fs.Arg(0)
	script, err := os.ReadFile(path)
	if err != nil {
		return 2, err
	}

	rt, err := setupRuntime(cli.cfgPath, cli.overrides(root))
	if err != nil {
		return 2, err
	}
	defer rt.Close()
	transport, err := rt.transport()
	if err != nil {
		return 2, err
	}

	h := newHeadless(rt.cfg, transport, string(script))
	req, err := h.sync.Commit(h.text)
	if err != nil {
		return 2, err
	}
	outcome, err := h.sync.Do(context.Background(), req)
	if err != nil {
		return 2, err
	}

	name := filepath.Base(path)
	switch outcome.Status {
	case syncer.StatusTransportError:
		return 2, errors.New(joinNotes(h.takeNotes()))
	case syncer.StatusDiagnostics:
		h.printProblems(out, name)
		return 1, nil
	}
	h.printLatest(out)
	return 0, nil
}

func joinNotes(notes []string) string {
	if len(notes) == 0 {
		return "request failed"
	}
	return strings.Join(notes, "; ")
}
