package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"stagelink.dev/internal/bridge"
	"stagelink.dev/internal/catalog"
	"stagelink.dev/internal/persistence/journal"
	"stagelink.dev/internal/scene"
)

func testSetup(t *testing.T) (*bridge.Bridge, *journal.Feed, *Server) {
	t.Helper()
	scope := scene.NewMemScope("PersistentLevel")
	scope.RegisterAsset("/Stage/Props/SM_Chair", "StaticMesh")
	table := &catalog.Table{Defs: map[string]catalog.Def{
		"SM_Chair": {Name: "SM_Chair", Path: "/Stage/Props/SM_Chair"},
	}}
	feed := journal.NewFeed()
	b := bridge.New(scope, table, zerolog.Nop(), feed)
	return b, feed, NewServer(b, feed, zerolog.Nop())
}

func TestBootstrapHandler(t *testing.T) {
	b, _, srv := testSetup(t)
	b.Dispatch("AddObject SM_Chair Chair")

	mux := http.NewServeMux()
	srv.Register(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/bootstrap")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	var boot BootstrapResponse
	if err := json.NewDecoder(resp.Body).Decode(&boot); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if boot.ProtocolVersion != Version || boot.Scope != "PersistentLevel" {
		t.Fatalf("bootstrap: %+v", boot)
	}
	if boot.Seq != 1 || boot.Objects != 1 {
		t.Fatalf("bootstrap counters: %+v", boot)
	}
}

func TestBootstrapMethodNotAllowed(t *testing.T) {
	_, _, srv := testSetup(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/bootstrap", nil)
	req.RemoteAddr = "127.0.0.1:50000"
	rec := httptest.NewRecorder()
	srv.BootstrapHandler()(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestHandlersRefuseNonLoopback(t *testing.T) {
	_, _, srv := testSetup(t)
	cases := []struct {
		path    string
		method  string
		handler http.HandlerFunc
	}{
		{"/v1/bootstrap", http.MethodGet, srv.BootstrapHandler()},
		{"/v1/ws", http.MethodGet, srv.FeedHandler()},
		{"/v1/command", http.MethodPost, srv.CommandHandler()},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("FreeName Chair"))
		req.RemoteAddr = "203.0.113.9:4242"
		rec := httptest.NewRecorder()
		tc.handler(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s: status=%d want 403", tc.path, rec.Code)
		}
	}
}

func TestCommandHandler(t *testing.T) {
	_, _, srv := testSetup(t)
	mux := http.NewServeMux()
	srv.Register(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/command", "text/plain", strings.NewReader("AddObject SM_Chair Chair"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	var res bridge.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.OK || res.Value != "Chair" {
		t.Fatalf("result: %+v", res)
	}

	empty, err := http.Post(ts.URL+"/v1/command", "text/plain", strings.NewReader("  "))
	if err != nil {
		t.Fatalf("POST empty: %v", err)
	}
	defer empty.Body.Close()
	if empty.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty command status=%d", empty.StatusCode)
	}
}

func TestFeedStreamsEntries(t *testing.T) {
	b, feed, srv := testSetup(t)
	mux := http.NewServeMux()
	srv.Register(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	sub := SubscribeMsg{Type: "SUBSCRIBE", ProtocolVersion: Version}
	if err := conn.WriteJSON(sub); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// Wait until the server side has registered the subscription before
	// dispatching, or the entry would be published to nobody.
	deadline := time.Now().Add(5 * time.Second)
	for feed.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscription never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	b.Dispatch("AddObject SM_Chair Chair")

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var e journal.Entry
	if err := json.Unmarshal(msg, &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Op != journal.OpSpawn || e.Resulted != "Chair" {
		t.Fatalf("fed entry: %+v", e)
	}
}

func TestFeedRejectsBadHandshake(t *testing.T) {
	_, feed, srv := testSetup(t)
	mux := http.NewServeMux()
	srv.Register(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	if err := conn.WriteJSON(SubscribeMsg{Type: "NOPE", ProtocolVersion: Version}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected the server to close the connection")
	}
	if feed.Subscribers() != 0 {
		t.Fatalf("no subscription should have been registered")
	}
}

func TestIsLoopbackRemote(t *testing.T) {
	cases := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:50000", true},
		{"[::1]:50000", true},
		{"203.0.113.9:80", false},
		{"localhost:80", false},
		{"garbage", false},
	}
	for _, tc := range cases {
		if got := isLoopbackRemote(tc.addr); got != tc.want {
			t.Fatalf("isLoopbackRemote(%q)=%v want %v", tc.addr, got, tc.want)
		}
	}
}
