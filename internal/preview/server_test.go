package preview

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type staticSource struct {
	a  Artifact
	ok bool
}

func (s staticSource) Artifact() (Artifact, bool) { return s.a, s.ok }

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(Options{})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Shutdown(context.Background())
		ts.Close()
	})
	return s, ts
}

func dial(t *testing.T, s *Server, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	want := s.Clients() + 1
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for s.Clients() < want {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestIndexLoadsPanZoom(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "svg-pan-zoom") || !strings.Contains(string(body), "/ws") {
		t.Fatal("index page does not host the pan/zoom viewport")
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
}

func TestDownloadWithoutArtifact(t *testing.T) {
	s, ts := newTestServer(t)
	for _, src := range []ArtifactSource{nil, staticSource{}} {
		s.SetSource(src)
		resp, err := http.Get(ts.URL + "/download")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", resp.StatusCode)
		}
	}
}

func TestDownload(t *testing.T) {
	s, ts := newTestServer(t)
	s.SetSource(staticSource{ok: true, a: Artifact{
		Name:      "mermaid-code.mmd",
		MediaType: "text/plain; charset=utf-8",
		Body:      []byte("graph TD\nA-->B"),
	}})

	resp, err := http.Get(ts.URL + "/download")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Disposition"); got != `attachment; filename="mermaid-code.mmd"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := resp.Header.Get("Content-Type"); got != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if string(body) != "graph TD\nA-->B" {
		t.Errorf("body = %q", body)
	}
}

func TestAttachAndRelease(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, s, ts)

	ctrl, err := s.Attach(3, "<svg>3</svg>")
	if err != nil {
		t.Fatal(err)
	}
	if f := readFrame(t, conn); f.Type != FrameRender || f.Revision != 3 || f.SVG != "<svg>3</svg>" {
		t.Fatalf("frame = %+v", f)
	}

	ctrl.Release()
	ctrl.Release()
	if f := readFrame(t, conn); f.Type != FrameClear || f.Revision != 3 {
		t.Fatalf("frame = %+v", f)
	}

	// A second Release sent nothing: the next frame is the new render.
	if _, err := s.Attach(4, "<svg>4</svg>"); err != nil {
		t.Fatal(err)
	}
	if f := readFrame(t, conn); f.Type != FrameRender || f.Revision != 4 {
		t.Fatalf("frame = %+v", f)
	}
}

func TestLateClientGetsLatestFrame(t *testing.T) {
	s, ts := newTestServer(t)
	if _, err := s.Attach(7, "<svg>7</svg>"); err != nil {
		t.Fatal(err)
	}
	conn := dial(t, s, ts)
	if f := readFrame(t, conn); f.Type != FrameRender || f.Revision != 7 {
		t.Fatalf("frame = %+v", f)
	}
}

func TestReleasedFrameNotReplayed(t *testing.T) {
	s, ts := newTestServer(t)
	ctrl, err := s.Attach(1, "<svg>1</svg>")
	if err != nil {
		t.Fatal(err)
	}
	ctrl.Release()
	s.Fail(2, "Parse error on line 1")

	conn := dial(t, s, ts)
	if f := readFrame(t, conn); f.Type != FrameError || f.Error != "Parse error on line 1" {
		t.Fatalf("frame = %+v", f)
	}
}

func TestAttachAfterShutdown(t *testing.T) {
	s := New(Options{})
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Attach(1, "<svg/>"); err != ErrClosed {
		t.Fatalf("err = %v", err)
	}
}

func TestStart(t *testing.T) {
	s := New(Options{})
	if err := s.Start("127.0.0.1:0"); err != nil {
		t.Fatal(err)
	}
	defer s.Shutdown(context.Background())
	if !strings.HasPrefix(s.URL(), "http://127.0.0.1:") {
		t.Fatalf("URL = %q", s.URL())
	}
	resp, err := http.Get(s.URL() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
}

func TestClearForgetsLatestFrame(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, s, ts)

	s.Fail(1, "Parse error on line 1")
	if f := readFrame(t, conn); f.Type != FrameError {
		t.Fatalf("frame = %+v", f)
	}
	s.Clear(2)
	if f := readFrame(t, conn); f.Type != FrameClear || f.Revision != 2 {
		t.Fatalf("frame = %+v", f)
	}

	// A page opened after the clear gets nothing until the next frame.
	late := dial(t, s, ts)
	if _, err := s.Attach(3, "<svg>3</svg>"); err != nil {
		t.Fatal(err)
	}
	if f := readFrame(t, late); f.Type != FrameRender || f.Revision != 3 {
		t.Fatalf("late page first frame = %+v", f)
	}
}

func TestFramesCarryDownloadFlag(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, s, ts)

	s.Fail(1, "Parse error on line 1")
	if f := readFrame(t, conn); f.Download {
		t.Fatalf("download offered without a source: %+v", f)
	}

	s.SetSource(staticSource{ok: true, a: Artifact{Name: "a.mmd", Body: []byte("bad")}})
	s.Fail(2, "Parse error on line 1")
	if f := readFrame(t, conn); f.Type != FrameError || !f.Download {
		t.Fatalf("failed render of non-empty text hid the download: %+v", f)
	}

	late := dial(t, s, ts)
	if f := readFrame(t, late); !f.Download {
		t.Fatalf("replayed frame = %+v", f)
	}

	s.SetSource(staticSource{})
	s.Clear(3)
	if f := readFrame(t, conn); f.Type != FrameClear || f.Download {
		t.Fatalf("frame = %+v", f)
	}
}
