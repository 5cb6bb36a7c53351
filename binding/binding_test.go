package binding_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pafthang/enhance/binding"
	"github.com/pafthang/enhance/completion"
	"github.com/pafthang/enhance/dom"
	"github.com/pafthang/enhance/dom/domtest"
	"github.com/pafthang/enhance/editor"
	"github.com/pafthang/enhance/format"
	"github.com/pafthang/enhance/surface"
	"github.com/pafthang/enhance/surface/surfacetest"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type fakeSettings struct {
	mu    sync.Mutex
	mode  format.Mode
	saved chan format.Mode
}

func newFakeSettings(mode format.Mode) *fakeSettings {
	return &fakeSettings{mode: mode, saved: make(chan format.Mode, 8)}
}

func (s *fakeSettings) Mode() format.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *fakeSettings) SetMode(mode format.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

func (s *fakeSettings) Save(context.Context) error {
	s.saved <- s.Mode()
	return nil
}

type fakeHost struct {
	appearance surface.Appearance
}

func (h *fakeHost) Appearance() surface.Appearance {
	return h.appearance
}

func (h *fakeHost) Keymap() interface{} {
	return map[string]interface{}{}
}

// blockingReader 在 release 关闭前阻塞所有读取。
type blockingReader struct {
	release chan struct{}
}

func (r *blockingReader) ReadJSON(_ context.Context, path string, v interface{}) error {
	<-r.release
	data := `[{"label":"\\alpha"},{"label":"\\beta"}]`
	if completion.SnippetsPath == path {
		data = `[{"label":"\\frac{}{}"}]`
	}
	return json.Unmarshal([]byte(data), v)
}

type panicEngine struct{}

func (panicEngine) Mount(dom.Element, *surface.Config) (surface.Surface, error) {
	panic("engine exploded")
}

type harness struct {
	doc      *domtest.Document
	engine   *surfacetest.Engine
	loop     *binding.QueueLoop
	settings *fakeSettings
	ctrl     *binding.Controller
	parent   *domtest.Node
	source   *domtest.Node
}

func newHarness(value string, options ...func(*binding.Config)) *harness {
	h := &harness{
		doc:      domtest.NewDocument(),
		engine:   &surfacetest.Engine{},
		loop:     binding.NewQueueLoop(),
		settings: newFakeSettings(format.Off),
		parent:   domtest.NewNode("div"),
	}
	h.source = domtest.NewTextArea(h.parent, value)
	cfg := binding.Config{
		Document: h.doc,
		Engine:   h.engine,
		Factory:  surface.NewFactory(nil, quietLogger()),
		Settings: h.settings,
		Host:     &fakeHost{},
		Loop:     h.loop,
		Logger:   quietLogger(),
	}
	for _, option := range options {
		option(&cfg)
	}
	h.ctrl = binding.New(cfg)
	h.ctrl.NoticeDuration = 10 * time.Millisecond
	return h
}

func (h *harness) open(t *testing.T, tag string) *surfacetest.Surface {
	t.Helper()
	if err := h.ctrl.Open(context.Background(), binding.BlockOpened{TypeTag: tag, Source: h.source}); nil != err {
		t.Fatalf("Open failed: %v", err)
	}
	return h.engine.Last()
}

func (h *harness) container() *domtest.Node {
	for _, c := range h.parent.Children {
		if editor.ContainerID == c.Attribute("id") {
			return c
		}
	}
	return nil
}

func notices(container *domtest.Node) (ret []string) {
	for _, c := range container.Children {
		if editor.NoticeStyle == c.Attribute("style") {
			ret = append(ret, c.Text)
		}
	}
	return
}

func TestOpenUnsupported(t *testing.T) {
	h := newHarness("text")
	for _, tag := range []string{"NodeParagraph", "NodeCodeBlock", ""} {
		if err := h.ctrl.Open(context.Background(), binding.BlockOpened{TypeTag: tag, Source: h.source}); nil != err {
			t.Errorf("Open(%q) = %v, want nil", tag, err)
		}
	}
	if 0 != len(h.doc.Created) || 1 != len(h.parent.Children) || "" != h.source.Style("display") {
		t.Errorf("unsupported block mutated the DOM")
	}
	if 0 != len(h.engine.Mounted) || h.ctrl.Bound(h.source) {
		t.Errorf("unsupported block mounted a surface")
	}
}

func TestOpenMath(t *testing.T) {
	h := newHarness("x^2")
	s := h.open(t, editor.TypeInlineMath)

	if "x^2" != s.Doc() {
		t.Errorf("doc = %q", s.Doc())
	}
	container := h.container()
	if nil == container || 0 != container.Index() || 1 != h.source.Index() {
		t.Fatalf("container not inserted before the source")
	}
	if "none" != h.source.Style("display") {
		t.Errorf("source still visible")
	}
	if !s.Focused || 0 != s.SelectionFrom || 3 != s.SelectionTo {
		t.Errorf("surface not focused with full selection")
	}
	if nil == container.QuerySelector("select") {
		t.Errorf("math surface has no formatting mode select")
	}
	if 0 != h.source.ListenerCount("input") {
		t.Errorf("math source is listened to")
	}

	s.Type("x^3")
	if "x^3" != h.source.Value() || 1 != h.source.SetValueCalls || 1 != h.source.Count("input") {
		t.Errorf("edit not written back once [value=%q, writes=%d, inputs=%d]", h.source.Value(), h.source.SetValueCalls, h.source.Count("input"))
	}

	// 数学块单向同步
	h.source.Type("y")
	if "x^3" != s.Doc() || 0 != s.SetDocCalls {
		t.Errorf("source change reached a one-way surface")
	}
}

func TestBidirectionalSync(t *testing.T) {
	h := newHarness("<b>hi</b>")
	s := h.open(t, editor.TypeHTMLBlock)

	if nil != h.container().QuerySelector("select") {
		t.Errorf("html surface shows a formatting mode select")
	}

	h.source.Type("<i>hi</i>")
	if "<i>hi</i>" != s.Doc() || 1 != s.SetDocCalls {
		t.Errorf("source change not applied [doc=%q, sets=%d]", s.Doc(), s.SetDocCalls)
	}
	if 0 != h.source.SetValueCalls || 1 != h.source.Count("input") {
		t.Errorf("echo written back to the source")
	}

	s.Type("<u>hi</u>")
	if "<u>hi</u>" != h.source.Value() || 1 != h.source.SetValueCalls || 2 != h.source.Count("input") {
		t.Errorf("edit not written back once")
	}
	if 1 != s.SetDocCalls {
		t.Errorf("echo applied to the surface")
	}

	// 同值编辑不写回
	s.Type("<u>hi</u>")
	if 1 != h.source.SetValueCalls {
		t.Errorf("unchanged doc written back")
	}
}

type teardownState struct {
	Children     int
	Display      string
	Destroyed    bool
	SourceListen int
	WindowListen int
	Listeners    int
	Bound        bool
}

func TestCloseIdempotent(t *testing.T) {
	h := newHarness("select 1")
	h.source.SetStyle("display", "block")
	s := h.open(t, editor.TypeBlockQueryEmbed)

	snapshot := func() teardownState {
		return teardownState{
			Children:     len(h.parent.Children),
			Display:      h.source.Style("display"),
			Destroyed:    s.Destroyed,
			SourceListen: h.source.TotalListeners(),
			WindowListen: h.doc.Win.TotalListeners(),
			Listeners:    s.Listeners(),
			Bound:        h.ctrl.Bound(h.source),
		}
	}

	h.ctrl.Close(h.source)
	first := snapshot()
	want := teardownState{Children: 1, Display: "block", Destroyed: true}
	if diff := cmp.Diff(want, first); "" != diff {
		t.Errorf("teardown mismatch (-want +got):\n%s", diff)
	}

	h.ctrl.Close(h.source)
	h.ctrl.CloseAll()
	if diff := cmp.Diff(first, snapshot()); "" != diff {
		t.Errorf("second teardown changed state (-first +second):\n%s", diff)
	}
}

func TestReopenSameSource(t *testing.T) {
	h := newHarness("a")
	first := h.open(t, editor.TypeHTMLBlock)
	second := h.open(t, editor.TypeHTMLBlock)

	if !first.Destroyed || second.Destroyed {
		t.Errorf("reopen did not replace the previous surface")
	}
	if 2 != len(h.parent.Children) || 1 != h.source.TotalListeners() {
		t.Errorf("previous session leaked [children=%d, listeners=%d]", len(h.parent.Children), h.source.TotalListeners())
	}
	if surface.Surface(second) != h.ctrl.Surface(h.source) {
		t.Errorf("source bound to a stale surface")
	}
}

func TestConstructionFailure(t *testing.T) {
	engines := map[string]surface.Engine{
		"error": &surfacetest.Engine{Err: errors.New("mount failed")},
		"panic": panicEngine{},
	}
	for name, engine := range engines {
		engine := engine
		t.Run(name, func(t *testing.T) {
			h := newHarness("x", func(cfg *binding.Config) { cfg.Engine = engine })
			err := h.ctrl.Open(context.Background(), binding.BlockOpened{TypeTag: editor.TypeMathBlock, Source: h.source})
			if !errors.Is(err, binding.ErrConstruction) {
				t.Fatalf("Open = %v, want ErrConstruction", err)
			}
			if 1 != len(h.parent.Children) || "" != h.source.Style("display") {
				t.Errorf("source not restored after failure")
			}
			if 0 != h.source.TotalListeners() || h.ctrl.Bound(h.source) {
				t.Errorf("failed session left state behind")
			}
		})
	}
}

func TestOpenFromToolbar(t *testing.T) {
	h := newHarness("a")
	if err := h.ctrl.Open(context.Background(), binding.BlockOpened{TypeTag: editor.TypeHTMLBlock, Toolbar: h.parent}); nil != err {
		t.Fatalf("Open failed: %v", err)
	}
	if !h.ctrl.Bound(h.source) {
		t.Errorf("textarea not found through the toolbar")
	}

	err := h.ctrl.Open(context.Background(), binding.BlockOpened{TypeTag: editor.TypeHTMLBlock, Toolbar: domtest.NewNode("div")})
	if !errors.Is(err, binding.ErrConstruction) {
		t.Errorf("Open without textarea = %v", err)
	}

	detached := domtest.NewTextArea(nil, "a")
	err = h.ctrl.Open(context.Background(), binding.BlockOpened{TypeTag: editor.TypeHTMLBlock, Source: detached})
	if !errors.Is(err, binding.ErrConstruction) || "" != detached.Style("display") {
		t.Errorf("Open on detached source = %v", err)
	}
}

func TestCompletionLoad(t *testing.T) {
	reader := &blockingReader{release: make(chan struct{})}
	close(reader.release)
	h := newHarness(`\al`, func(cfg *binding.Config) {
		cfg.Provider = completion.NewProvider(reader, quietLogger())
	})
	s := h.open(t, editor.TypeInlineMath)

	if !h.loop.Next(time.Second) {
		t.Fatalf("completion load never finished")
	}
	if !s.Config.Completion.Ready() {
		t.Fatalf("completion items not installed")
	}
	res := s.Complete(3, false)
	if nil == res || 1 != len(res.Options) || `\alpha` != res.Options[0].Label {
		t.Errorf("Complete = %+v", res)
	}
}

func TestCloseDuringCompletionLoad(t *testing.T) {
	reader := &blockingReader{release: make(chan struct{})}
	h := newHarness(`\al`, func(cfg *binding.Config) {
		cfg.Provider = completion.NewProvider(reader, quietLogger())
	})
	s := h.open(t, editor.TypeMathBlock)

	h.ctrl.Close(h.source)
	close(reader.release)
	h.loop.Next(time.Second)

	if s.Config.Completion.Ready() {
		t.Errorf("completion applied to a closed surface")
	}
	if 1 != len(h.parent.Children) {
		t.Errorf("closed surface reattached")
	}
}

func TestResize(t *testing.T) {
	h := newHarness("a")
	s := h.open(t, editor.TypeHTMLBlock)
	container := h.container()
	container.Width = 300
	handle := container.Children[len(container.Children)-1]
	if editor.DragHandleStyle != handle.Attribute("style") {
		t.Fatalf("drag handle not appended last")
	}

	handle.DispatchEvent(&dom.Event{Type: "mousedown", ClientX: 10, ClientY: 10, Cancelable: true})
	if 2 != h.doc.Win.TotalListeners() {
		t.Fatalf("global listeners not attached")
	}
	h.doc.Win.DispatchEvent(&dom.Event{Type: "mousemove", ClientX: 20, ClientY: 15})
	h.doc.Win.DispatchEvent(&dom.Event{Type: "mousemove", ClientX: 25, ClientY: 15})
	if 315 != container.Width || 125 != s.ScrollerNode.Height {
		t.Errorf("size = %vx%v, want 315x125", container.Width, s.ScrollerNode.Height)
	}

	h.doc.Win.DispatchEvent(&dom.Event{Type: "mouseup"})
	h.doc.Win.DispatchEvent(&dom.Event{Type: "mousemove", ClientX: 100, ClientY: 100})
	if 315 != container.Width || 0 != h.doc.Win.TotalListeners() {
		t.Errorf("drag continued after release")
	}
}

func TestCloseMidDrag(t *testing.T) {
	h := newHarness("a")
	h.open(t, editor.TypeHTMLBlock)
	container := h.container()
	handle := container.Children[len(container.Children)-1]
	handle.DispatchEvent(&dom.Event{Type: "mousedown", ClientX: 1, ClientY: 1})

	h.ctrl.Close(h.source)
	if 0 != h.doc.Win.TotalListeners() || 0 != handle.TotalListeners() {
		t.Errorf("drag listeners survived teardown")
	}
}

func TestModeSelect(t *testing.T) {
	h := newHarness("a  \nb")
	s := h.open(t, editor.TypeMathBlock)
	container := h.container()
	sel := container.QuerySelector("select").(*domtest.Node)
	if "off" != sel.Value() || 3 != len(sel.Children) {
		t.Fatalf("select = %q with %d options", sel.Value(), len(sel.Children))
	}

	sel.SetValue("gentle")
	sel.DispatchEvent(&dom.Event{Type: "change"})
	if format.Gentle != h.settings.Mode() {
		t.Errorf("mode = %v", h.settings.Mode())
	}
	select {
	case saved := <-h.settings.saved:
		if format.Gentle != saved {
			t.Errorf("saved mode = %v", saved)
		}
	case <-time.After(time.Second):
		t.Fatalf("settings not saved")
	}
	if diff := cmp.Diff([]string{"Format: Gentle"}, notices(container)); "" != diff {
		t.Errorf("notices mismatch (-want +got):\n%s", diff)
	}

	// 新模式在下一次按键时生效
	s.Press(editor.ShortcutFormat, false)
	if "a\nb" != s.Doc() || "a\nb" != h.source.Value() {
		t.Errorf("gentle format = %q", s.Doc())
	}

	for 0 < len(notices(container)) {
		if !h.loop.Next(time.Second) {
			t.Fatalf("notice never removed")
		}
	}
}

func TestFullPreformatWarning(t *testing.T) {
	failing := format.FormatterFunc(func(context.Context, string) (string, error) {
		return "", errors.New("unexpected token")
	})
	h := newHarness(`\frac{a}{b}`, func(cfg *binding.Config) {
		cfg.Factory = surface.NewFactory(format.New(failing, quietLogger()), quietLogger())
	})
	h.settings.SetMode(format.Full)
	s := h.open(t, editor.TypeInlineMath)

	if `\frac{a}{b}` != s.Doc() || 0 != h.source.SetValueCalls {
		t.Errorf("failed pre-format changed the document")
	}
	got := notices(h.container())
	if 1 != len(got) || !strings.HasPrefix(got[0], "Format failed: ") {
		t.Errorf("notices = %q", got)
	}
}

func TestKeyPassthrough(t *testing.T) {
	h := newHarness("a")
	s := h.open(t, editor.TypeHTMLBlock)

	s.Press(editor.ShortcutConfirm, false)
	s.Press(editor.ShortcutConfirm, true)
	s.Press(editor.ShortcutCancel, false)
	if 3 != h.source.Count("keydown") {
		t.Fatalf("keydown passthrough count = %d", h.source.Count("keydown"))
	}
	last := h.source.Dispatched[len(h.source.Dispatched)-1]
	if editor.KeyEscape != last.Key || editor.KeyCodeEscape != last.KeyCode {
		t.Errorf("cancel passthrough = %+v", last)
	}

	var hostSaw int
	h.parent.AddEventListener("keydown", func(*dom.Event) { hostSaw++ })
	ev := &dom.Event{Type: "keydown", Key: "a", Bubbles: true}
	s.Root.DispatchEvent(ev)
	if !ev.PropagationStopped() || 0 != hostSaw {
		t.Errorf("editor keydown reached the host")
	}
}

func TestDetachCloses(t *testing.T) {
	var onDetach func()
	stopped := 0
	h := newHarness("a", func(cfg *binding.Config) {
		cfg.Detach = func(_ dom.Element, fn func()) func() {
			onDetach = fn
			return func() { stopped++ }
		}
	})
	h.open(t, editor.TypeHTMLBlock)

	onDetach()
	if h.ctrl.Bound(h.source) || 1 != stopped {
		t.Errorf("detach did not close the session [bound=%v, stopped=%d]", h.ctrl.Bound(h.source), stopped)
	}
}

func TestCloseAll(t *testing.T) {
	h := newHarness("a")
	other := domtest.NewTextArea(h.parent, "b")
	h.open(t, editor.TypeHTMLBlock)
	if err := h.ctrl.Open(context.Background(), binding.BlockOpened{TypeTag: editor.TypeInlineMath, Source: other}); nil != err {
		t.Fatalf("Open failed: %v", err)
	}

	h.ctrl.CloseAll()
	for _, s := range h.engine.Mounted {
		if !s.Destroyed {
			t.Errorf("surface survived CloseAll")
		}
	}
	if 2 != len(h.parent.Children) || h.ctrl.Bound(h.source) || h.ctrl.Bound(other) {
		t.Errorf("CloseAll left sessions behind")
	}
}

// blockingFormatter 通知 started 后阻塞到 release 关闭，再返回 out。
type blockingFormatter struct {
	started chan string
	release chan struct{}
	out     string
}

func newBlockingFormatter(out string) *blockingFormatter {
	return &blockingFormatter{started: make(chan string, 1), release: make(chan struct{}), out: out}
}

func (f *blockingFormatter) Format(_ context.Context, text string) (string, error) {
	f.started <- text
	<-f.release
	return f.out, nil
}

func (f *blockingFormatter) awaitStart(t *testing.T) string {
	t.Helper()
	select {
	case text := <-f.started:
		return text
	case <-time.After(time.Second):
		t.Fatalf("formatter never started")
	}
	return ""
}

func TestFullPreformatWrittenBack(t *testing.T) {
	formatted := format.FormatterFunc(func(context.Context, string) (string, error) {
		return "$\\frac{1}{2}$\n", nil
	})
	h := newHarness(`\frac {1}{2}`, func(cfg *binding.Config) {
		cfg.Factory = surface.NewFactory(format.New(formatted, quietLogger()), quietLogger())
	})
	h.settings.SetMode(format.Full)
	s := h.open(t, editor.TypeMathBlock)

	if `\frac{1}{2}` != s.Doc() {
		t.Fatalf("doc = %q", s.Doc())
	}
	if s.Doc() != h.source.Value() || 1 != h.source.SetValueCalls || 1 != h.source.Count("input") {
		t.Errorf("pre-formatted doc not written back once [source=%q, writes=%d, inputs=%d]", h.source.Value(), h.source.SetValueCalls, h.source.Count("input"))
	}
}

func TestCloseDuringFormat(t *testing.T) {
	formatter := newBlockingFormatter("$z$")
	h := newHarness("y", func(cfg *binding.Config) {
		cfg.Factory = surface.NewFactory(format.New(formatter, quietLogger()), quietLogger())
	})
	h.ctrl.NoticeDuration = time.Hour
	s := h.open(t, editor.TypeInlineMath)

	h.settings.SetMode(format.Full)
	s.Press(editor.ShortcutFormat, false)
	if "$y$" != formatter.awaitStart(t) {
		t.Fatalf("formatter saw unwrapped input")
	}

	h.ctrl.Close(h.source)
	close(formatter.release)
	if !h.loop.Next(time.Second) {
		t.Fatalf("format result never posted")
	}
	if "y" != s.Doc() || 0 != s.SetDocCalls || "y" != h.source.Value() {
		t.Errorf("format applied to a closed surface [doc=%q, source=%q]", s.Doc(), h.source.Value())
	}
}

func TestCloseDuringPreformat(t *testing.T) {
	formatter := newBlockingFormatter("$z$")
	h := newHarness("y", func(cfg *binding.Config) {
		cfg.Factory = surface.NewFactory(format.New(formatter, quietLogger()), quietLogger())
	})
	h.settings.SetMode(format.Full)

	done := make(chan error, 1)
	go func() {
		done <- h.ctrl.Open(context.Background(), binding.BlockOpened{TypeTag: editor.TypeMathBlock, Source: h.source})
	}()
	formatter.awaitStart(t)
	h.ctrl.Close(h.source)
	close(formatter.release)

	select {
	case err := <-done:
		if nil != err {
			t.Errorf("Open = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Open never returned")
	}
	if 0 != len(h.engine.Mounted) || h.ctrl.Bound(h.source) {
		t.Errorf("surface mounted after close")
	}
	if 1 != len(h.parent.Children) || "" != h.source.Style("display") || "y" != h.source.Value() {
		t.Errorf("source not restored [children=%d, display=%q]", len(h.parent.Children), h.source.Style("display"))
	}
	if 0 != h.source.TotalListeners() {
		t.Errorf("listeners left on the source")
	}
}
