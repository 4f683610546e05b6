package webrtcserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shoeengine/bayou/internal/netdriver/webrtcdriver/webrtcshared"
)

func TestNewDefaults(t *testing.T) {
	s := New(Options{PublicIP: "127.0.0.1"})
	if len(s.Connections()) != defaultMaxConnections {
		t.Fatalf("expected %d connection slots, got %d", defaultMaxConnections, len(s.Connections()))
	}
	if s.options.HTTPPort != webrtcshared.DefaultHTTPPort || s.options.STUNPort != webrtcshared.DefaultSTUNPort {
		t.Fatalf("unexpected default ports: %+v", s.options)
	}
	if s.IsListening() {
		t.Fatalf("server should not be listening before Start")
	}
}

func TestNewPanicsWithoutIP(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected New to panic without a public ip")
		}
	}()
	New(Options{})
}

func TestHandleSDPRejects(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		body     string
		fillUp   bool
		wantCode int
	}{
		{"preflight", http.MethodOptions, "", false, http.StatusOK},
		{"get", http.MethodGet, "", false, http.StatusBadRequest},
		{"bad offer", http.MethodPost, "{not json", false, http.StatusBadRequest},
		{"full", http.MethodPost, "{}", true, http.StatusServiceUnavailable},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := New(Options{PublicIP: "127.0.0.1"})
			if test.fillUp {
				for _, conn := range s.Connections() {
					conn.claimed = true
				}
			}
			req := httptest.NewRequest(test.method, webrtcshared.SDPPath, strings.NewReader(test.body))
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)
			if rec.Code != test.wantCode {
				t.Fatalf("expected status %d, got %d: %s", test.wantCode, rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Fatalf("expected CORS header, got %q", got)
			}
		})
	}
}

func TestConnectionFree(t *testing.T) {
	s := New(Options{PublicIP: "127.0.0.1"})
	conn := s.claimConnection(nil)
	if conn == nil {
		t.Fatalf("expected a free slot")
	}
	second := s.claimConnection(nil)
	if second == nil || second == conn {
		t.Fatalf("expected a second distinct slot")
	}
	if s.claimConnection(nil) != nil {
		t.Fatalf("expected the server to be full")
	}
	if err := conn.Send([]byte{1}); err != ErrConnectionClosed {
		t.Fatalf("expected ErrConnectionClosed sending without a data channel, got %v", err)
	}
	conn.CloseButDontFree()
	if s.hasFreeConnection() {
		t.Fatalf("closed but not freed slot should still be taken")
	}
	conn.Free()
	if !s.hasFreeConnection() {
		t.Fatalf("freed slot should be available")
	}
}
