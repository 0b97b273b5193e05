package myenergi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDigestTransportAnswersChallenge(t *testing.T) {
	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			w.Header().Set("WWW-Authenticate", `Digest realm="MyEnergi Telemetry", qop="auth", nonce="abc123", opaque="xyz"`)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		authHeader = auth
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	client := &http.Client{Transport: newDigestTransport("hub123", "secret", nil)}
	resp, err := client.Get(srv.URL + "/cgi-jstatus-Z456")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{`username="hub123"`, `realm="MyEnergi Telemetry"`, `nonce="abc123"`, `qop=auth`, `opaque="xyz"`, "response="} {
		if !strings.Contains(authHeader, want) {
			t.Fatalf("authorization %q missing %q", authHeader, want)
		}
	}
}

func TestDigestTransportPassesThroughNonChallenge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := &http.Client{Transport: newDigestTransport("hub123", "secret", nil)}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 passthrough", resp.StatusCode)
	}
}
