package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"inkpad/internal/narrative"
	"inkpad/internal/store"
	"inkpad/internal/tui/render"
)

func historyMain(args []string) {
	if err := runHistory(args, os.Stdout); err != nil {
		log.Fatalf("history failed: %v", err)
	}
}

// runHistory 列出保存的试玩记录；--show 输出某条记录的完整故事。
func runHistory(args []string, out io.Writer) error {
	fs, _ := newCommandFlagSet("history")
	var show string
	var limit int
	fs.StringVar(&show, "show", "", "Print the transcript of a saved playthrough")
	fs.IntVar(&limit, "n", 20, "Maximum number of playthroughs to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if show != "" {
		rec, err := store.Load(show)
		if err != nil {
			return err
		}
		state := narrative.StateActive
		if rec.Ended {
			state = narrative.StateEnded
		}
		lines := render.RenderTranscript(render.Transcript{Entries: rec.Entries, State: state, Selected: -1}, 80)
		for _, line := range render.LinesToPlain(lines) {
			_, _ = fmt.Fprintln(out, line)
		}
		return nil
	}

	records, err := store.Search(strings.Join(fs.Args(), " "))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.New("no matching playthroughs")
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, rec := range records {
		status := "in progress"
		if rec.Ended {
			status = "ended"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rec.ID, rec.Updated.Format("2006-01-02 15:04"), status, rec.Title())
	}
	return tw.Flush()
}
