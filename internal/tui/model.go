package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"inkpad/internal/config"
	"inkpad/internal/debounce"
	"inkpad/internal/diagnostics"
	"inkpad/internal/dispatch"
	"inkpad/internal/logger"
	"inkpad/internal/narrative"
	"inkpad/internal/syncer"
	"inkpad/internal/tui/render"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StarterScript 在没有指定脚本文件时填入编辑器。
const StarterScript = `Hello, traveller.
* [Ask about the road] The road runs north, past the old mill.
    -> END
* [Keep walking] You walk on in silence.
    -> END
`

type Options struct {
	Config     config.Config
	Transport  syncer.Transport
	ScriptPath string
	Script     string
	// AfterFunc 与 Clock 供测试替换计时。
	AfterFunc debounce.AfterFunc
	Clock     func() time.Time
	// Clipboard 默认写系统剪贴板。
	Clipboard func(string) error
}

type focusPane int

const (
	focusEditor focusPane = iota
	focusStory
)

type commitMsg struct {
	Commit debounce.Commit
}

type responseMsg struct {
	Result syncer.Result
}

type Model struct {
	cfg        config.Config
	editor     textarea.Model
	story      render.StoryViewport
	spin       spinner.Model
	status     *SyncStatus
	toasts     toastQueue
	debouncer  *debounce.Debouncer
	sync       *syncer.Synchronizer
	renderer   *narrative.Renderer
	dispatcher *dispatch.Dispatcher
	markers    []diagnostics.Marker
	focus      focusPane
	selected   int
	fatal      error
	scriptPath string
	savedText  string
	clipboard  func(string) error
	ctx        context.Context
	cancel     context.CancelFunc
	// deferred 收集 Update 期间回调（如 Notify）产生的命令，由 finish 统一返回。
	deferred []tea.Cmd
	log      *logger.LogEntry
	width    int
	height   int
}

func New(opts Options) *Model {
	cfg := opts.Config
	if cfg.URL == "" {
		cfg = config.Default()
	}

	ed := textarea.New()
	ed.Placeholder = "Write your story…"
	ed.ShowLineNumbers = true
	ed.CharLimit = 0
	ed.SetWidth(60)
	ed.SetHeight(20)
	ed.SetValue(opts.Script)
	ed.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		cfg:        cfg,
		editor:     ed,
		story:      render.NewStoryViewport(60, 20),
		spin:       spin,
		status:     NewSyncStatus(opts.Clock),
		renderer:   narrative.NewRenderer(),
		scriptPath: opts.ScriptPath,
		savedText:  opts.Script,
		clipboard:  copyFn,
		ctx:        ctx,
		cancel:     cancel,
		log:        logger.Named("tui"),
		width:      120,
		height:     30,
	}
	m.debouncer = debounce.New(debounce.Options{
		Delay:     cfg.Debounce(),
		AfterFunc: opts.AfterFunc,
		Now:       opts.Clock,
	})
	mapper := diagnostics.NewMapper(m, m, cfg.ToastDuration())
	m.sync = syncer.New(syncer.Options{
		Transport: opts.Transport,
		Mapper:    mapper,
		Renderer:  m.renderer,
		Notifier:  m,
		Timeout:   cfg.RequestTimeout(),
		ToastFor:  cfg.ToastDuration(),
	})
	m.dispatcher = dispatch.New(m.renderer, m.sync)
	m.refreshStory()
	return m
}

// Value 实现 diagnostics.Editor。
func (m *Model) Value() string {
	return m.editor.Value()
}

// SetMarkers 实现 diagnostics.Editor；nil 清空。
func (m *Model) SetMarkers(markers []diagnostics.Marker) {
	m.markers = append([]diagnostics.Marker(nil), markers...)
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.spin.Tick, m.listenCommits()}
	if strings.TrimSpace(m.editor.Value()) != "" {
		cmds = append(cmds, m.issueCommit(m.editor.Value()))
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m.finish(cmds...)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m.finish(cmd)
	case commitMsg:
		cmds = append(cmds, m.issueCommit(msg.Commit.Text), m.listenCommits())
		return m.finish(cmds...)
	case responseMsg:
		m.resolve(msg.Result)
		return m.finish(cmds...)
	case toastExpiredMsg:
		m.toasts.expire(msg.id)
		return m.finish(cmds...)
	case tea.MouseMsg:
		cmds = append(cmds, m.story.HandleUpdate(msg))
		return m.finish(cmds...)
	case tea.KeyMsg:
		if m.fatal != nil {
			return m.finish(m.handleFatalKey(msg))
		}
		switch msg.String() {
		case "ctrl+c":
			return m.finish(m.quit())
		case "tab":
			m.toggleFocus()
			return m.finish(cmds...)
		case "ctrl+s":
			m.saveScript()
			return m.finish(cmds...)
		case "ctrl+y":
			m.copyTranscript()
			return m.finish(cmds...)
		}
		if m.focus == focusStory {
			return m.finish(m.handleStoryKey(msg))
		}
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	cmds = append(cmds, cmd)
	if after := m.editor.Value(); after != before {
		m.debouncer.Notify(after)
	}
	return m.finish(cmds...)
}

func (m *Model) finish(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	if len(m.deferred) > 0 {
		cmds = append(cmds, m.deferred...)
		m.deferred = nil
	}
	return m, tea.Batch(cmds...)
}

// listenCommits 阻塞等待下一次去抖提交；通道关闭后返回 nil 消息。
func (m *Model) listenCommits() tea.Cmd {
	ch := m.debouncer.C()
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return commitMsg{Commit: c}
	}
}

func (m *Model) issueCommit(text string) tea.Cmd {
	req, err := m.sync.Commit(text)
	if err != nil {
		m.fail(err)
		return nil
	}
	return m.send(req)
}

func (m *Model) choose(index int) tea.Cmd {
	req, err := m.dispatcher.Dispatch(index)
	switch {
	case errors.Is(err, dispatch.ErrNotActive), errors.Is(err, dispatch.ErrNoSuchOption):
		m.Notify(diagnostics.KindWarning, err.Error(), 0)
		return nil
	case err != nil:
		m.fail(err)
		return nil
	}
	return m.send(req)
}

// send 把网络往返放到命令 goroutine；只有 Send 在循环外执行。
func (m *Model) send(req syncer.Request) tea.Cmd {
	m.status.Begin()
	ctx, s := m.ctx, m.sync
	return func() tea.Msg {
		return responseMsg{Result: s.Send(ctx, req)}
	}
}

func (m *Model) resolve(res syncer.Result) {
	out, err := m.sync.Resolve(res)
	if err != nil {
		m.fail(err)
		return
	}
	switch out.Status {
	case syncer.StatusStale:
		return
	case syncer.StatusTransportError:
		m.settle(SyncOffline, "")
	case syncer.StatusDiagnostics:
		m.settle(SyncProblems, plural(out.Diagnostics, "problem"))
	case syncer.StatusRendered:
		m.selected = 0
		detail := m.renderer.State().String()
		if out.Narrative.Anomalous {
			detail = "story cannot continue from here"
		}
		m.settle(SyncIdle, detail)
		m.refreshStory()
	}
}

// settle 只在没有更新的请求在途时结束 Busy。
func (m *Model) settle(state SyncState, detail string) {
	if m.sync.Pending() {
		return
	}
	m.status.Settle(state, detail)
}

func (m *Model) fail(err error) {
	if m.fatal != nil {
		return
	}
	m.fatal = err
	m.debouncer.Stop()
	m.status.Settle(SyncHalted, "")
	m.log.Errorf("synchronization stopped: %v", err)
}

func (m *Model) quit() tea.Cmd {
	m.debouncer.Stop()
	m.cancel()
	return tea.Quit
}

func (m *Model) toggleFocus() {
	if m.focus == focusEditor {
		m.focus = focusStory
		m.editor.Blur()
		return
	}
	m.focus = focusEditor
	m.editor.Focus()
}

func (m *Model) handleStoryKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return m.choose(int(key[0] - '1'))
	}
	switch key {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
			m.refreshStory()
		}
	case "down", "j":
		if m.selected < len(m.renderer.Options())-1 {
			m.selected++
			m.refreshStory()
		}
	case "enter":
		return m.choose(m.selected)
	case "pgup":
		m.story.PageUp()
	case "pgdown":
		m.story.PageDown()
	case "home":
		m.story.GotoTop()
	case "end":
		m.story.GotoBottom()
	}
	return nil
}

func (m *Model) saveScript() {
	if m.scriptPath == "" {
		m.Notify(diagnostics.KindWarning, "no script file; start inkpad with a path to save", 0)
		return
	}
	text := m.editor.Value()
	if err := os.WriteFile(m.scriptPath, []byte(text), 0o644); err != nil {
		m.Notify(diagnostics.KindError, fmt.Sprintf("save failed: %v", err), 0)
		return
	}
	m.savedText = text
	m.Notify(diagnostics.KindInfo, "saved "+m.scriptPath, 0)
}

func (m *Model) copyTranscript() {
	text := strings.Join(m.TranscriptText(), "\n")
	if err := m.clipboard(text); err != nil {
		m.Notify(diagnostics.KindError, fmt.Sprintf("copy failed: %v", err), 0)
		return
	}
	m.Notify(diagnostics.KindInfo, "transcript copied", 0)
}

func (m *Model) transcript() render.Transcript {
	selected := -1
	if m.focus == focusStory {
		selected = m.selected
	}
	return render.FromRenderer(m.renderer, selected)
}

func (m *Model) refreshStory() {
	lines := render.RenderTranscript(m.transcript(), m.story.Width)
	m.story.SetLines(render.LinesToStrings(lines))
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	left := maxInt(20, width/2)
	right := maxInt(20, width-left)
	body := maxInt(5, height-m.chromeHeight())
	m.editor.SetWidth(left - 4)
	m.editor.SetHeight(maxInt(3, body-problemsHeight-3))
	m.story.Resize(right-4, body)
	m.refreshStory()
}

// TranscriptText 返回无样式的故事文本，用于复制与保存。
func (m *Model) TranscriptText() []string {
	return render.LinesToPlain(render.RenderTranscript(render.FromRenderer(m.renderer, -1), 80))
}

// Entries returns a copy of the playthrough transcript.
func (m *Model) Entries() []narrative.Entry {
	return m.renderer.Entries()
}

// Ended reports whether the story reached its end.
func (m *Model) Ended() bool {
	return m.renderer.Ended()
}

// SessionID returns the server session id, if one was established.
func (m *Model) SessionID() string {
	id, _ := m.sync.SessionID()
	return id
}

// Script returns the current buffer text.
func (m *Model) Script() string {
	return m.editor.Value()
}

// Unsaved reports whether the buffer differs from the file on disk.
func (m *Model) Unsaved() bool {
	return m.editor.Value() != m.savedText
}

// Fatal returns the error that halted synchronization, if any.
func (m *Model) Fatal() error {
	return m.fatal
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
