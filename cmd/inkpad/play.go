package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"inkpad/internal/dispatch"
	"inkpad/internal/narrative"
	"inkpad/internal/store"
	"inkpad/internal/syncer"
)

func playMain(root rootArgs, args []string) {
	if err := runPlay(root, args, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("play failed: %v", err)
	}
}

// runPlay 在标准输入输出上完成一次试玩：输入序号加回车做选择，EOF 或故事结束后保存记录。
func runPlay(root rootArgs, args []string, in io.Reader, out io.Writer) error {
	fs, cli := newCommandFlagSet("play")
	var noSave bool
	fs.BoolVar(&noSave, "no-save", false, "Do not save the playthrough")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: inkpad play [--config path] [--no-save] file.ink")
	}
	path := fs.Arg(0)
	script, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	rt, err := setupRuntime(cli.cfgPath, cli.overrides(root))
	if err != nil {
		return err
	}
	defer rt.Close()
	transport, err := rt.transport()
	if err != nil {
		return err
	}

	h := newHeadless(rt.cfg, transport, string(script))
	ctx := context.Background()
	req, err := h.sync.Commit(h.text)
	if err != nil {
		return err
	}
	outcome, err := h.sync.Do(ctx, req)
	if err != nil {
		return err
	}
	switch outcome.Status {
	case syncer.StatusTransportError:
		return errors.New(joinNotes(h.takeNotes()))
	case syncer.StatusDiagnostics:
		h.printProblems(out, filepath.Base(path))
		return errors.New("script has problems; run inkpad check for details")
	}
	h.printLatest(out)

	gate := dispatch.New(h.renderer, h.sync)
	scanner := bufio.NewScanner(in)
	for h.renderer.State() == narrative.StateActive && len(h.renderer.Options()) > 0 {
		_, _ = fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			_, _ = fmt.Fprintf(out, "type an option number between 1 and %d\n", len(h.renderer.Options()))
			continue
		}
		req, err := gate.Dispatch(n - 1)
		if errors.Is(err, dispatch.ErrNoSuchOption) {
			_, _ = fmt.Fprintf(out, "%v\n", err)
			continue
		}
		if err != nil {
			return err
		}
		outcome, err := h.sync.Do(ctx, req)
		if err != nil {
			return err
		}
		switch outcome.Status {
		case syncer.StatusTransportError:
			_, _ = fmt.Fprintf(out, "%s, try again\n", joinNotes(h.takeNotes()))
			continue
		case syncer.StatusDiagnostics:
			h.printProblems(out, filepath.Base(path))
			continue
		}
		h.printLatest(out)
		if outcome.Narrative.Anomalous {
			_, _ = fmt.Fprintln(out, "(the story cannot continue from here)")
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if noSave {
		return nil
	}
	sessionID, _ := h.sync.SessionID()
	id, err := store.Save(store.Record{
		SessionID:  sessionID,
		ScriptPath: absPath(path),
		Script:     h.text,
		Entries:    h.renderer.Entries(),
		Ended:      h.renderer.Ended(),
	})
	if err != nil {
		log.Warnf("failed to save playthrough: %v", err)
		return nil
	}
	_, _ = fmt.Fprintf(out, "playthrough saved as %s\n", id)
	return nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
