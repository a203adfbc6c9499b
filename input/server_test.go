package input

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/BeatGlow/pencil/stylus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testState struct {
	Mode   string `json:"mode"`
	Status string `json:"status"`
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	return conn
}

func TestServerHealthAndIndex(t *testing.T) {
	s := NewServer(make(chan stylus.Event), nil)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != statusOK {
		t.Errorf("unexpected health body %v", body)
	}

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/ws") {
		t.Errorf("index: expected page with websocket, got %d", w.Code)
	}
}

func TestServerWebSocket(t *testing.T) {
	events := make(chan stylus.Event, 4)
	s := NewServer(events, nil)
	s.Publish(testState{Mode: "off", Status: "flexmonkey.blogspot.co.uk"})

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	conn := dial(t, srv)
	defer conn.Close()

	type envelope struct {
		Type  string          `json:"type"`
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}

	// Initial state is the last published one.
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	var st testState
	if err := json.Unmarshal(env.Data, &st); err != nil {
		t.Fatal(err)
	}
	if env.Type != TypeState || st.Mode != "off" {
		t.Fatalf("bad initial envelope: %+v", env)
	}

	// Inbound messages become events.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"press","mode":"hue-saturation"}`)); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-events:
		if ev.Kind != stylus.EventPress || ev.Mode != stylus.HueSaturation {
			t.Errorf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	// Invalid messages are answered with an error.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"bogus"}`)); err != nil {
		t.Fatal(err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read error: %v", err)
	}
	if env.Type != TypeError || env.Error == "" {
		t.Fatalf("expected error envelope, got %+v", env)
	}

	// Published states reach connected clients.
	s.Publish(testState{Mode: "hue-saturation", Status: "Hue: 180.00°      Saturation: 8.00"})
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read state: %v", err)
	}
	if err := json.Unmarshal(env.Data, &st); err != nil {
		t.Fatal(err)
	}
	if env.Type != TypeState || st.Mode != "hue-saturation" {
		t.Fatalf("unexpected state %+v", st)
	}
	if n := s.Clients(); n != 1 {
		t.Errorf("expected 1 client, got %d", n)
	}
}

func TestNormalizeAddr(t *testing.T) {
	for in, want := range map[string]string{
		"":               "",
		"8080":           ":8080",
		":8080":          ":8080",
		"localhost:9000": "localhost:9000",
	} {
		if got := normalizeAddr(in); got != want {
			t.Errorf("normalizeAddr(%q): expected %q, got %q", in, want, got)
		}
	}
}
