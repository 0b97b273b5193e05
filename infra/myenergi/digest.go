package myenergi

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
)

// digestTransport answers HTTP digest challenges the way the myenergi
// director expects: MD5 with qop=auth, hub serial as the username and
// the account API key as the password.
type digestTransport struct {
	username string
	password string
	next     http.RoundTripper
}

func newDigestTransport(username, password string, next http.RoundTripper) *digestTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &digestTransport{username: username, password: password, next: next}
}

func (t *digestTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	challenge := resp.Header.Get("WWW-Authenticate")
	if !strings.HasPrefix(challenge, "Digest ") {
		return resp, nil
	}
	resp.Body.Close()

	params := parseChallenge(challenge)
	auth, err := t.authorization(req.Method, req.URL.RequestURI(), params)
	if err != nil {
		return nil, err
	}
	retry := req.Clone(req.Context())
	retry.Header.Set("Authorization", auth)
	return t.next.RoundTrip(retry)
}

func parseChallenge(header string) map[string]string {
	params := make(map[string]string)
	for _, part := range strings.Split(strings.TrimPrefix(header, "Digest "), ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		params[kv[0]] = strings.Trim(kv[1], `"`)
	}
	return params
}

func (t *digestTransport) authorization(method, uri string, params map[string]string) (string, error) {
	realm := params["realm"]
	nonce := params["nonce"]
	qop := params["qop"]

	cnonceBytes := make([]byte, 8)
	if _, err := rand.Read(cnonceBytes); err != nil {
		return "", err
	}
	cnonce := hex.EncodeToString(cnonceBytes)
	nc := "00000001"

	ha1 := md5hex(t.username + ":" + realm + ":" + t.password)
	ha2 := md5hex(method + ":" + uri)
	var response string
	if qop == "" {
		response = md5hex(ha1 + ":" + nonce + ":" + ha2)
	} else {
		response = md5hex(strings.Join([]string{ha1, nonce, nc, cnonce, qop, ha2}, ":"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Digest username=%q, realm=%q, nonce=%q, uri=%q, response=%q`,
		t.username, realm, nonce, uri, response)
	if qop != "" {
		fmt.Fprintf(&b, `, qop=%s, nc=%s, cnonce=%q`, qop, nc, cnonce)
	}
	if opaque, ok := params["opaque"]; ok {
		fmt.Fprintf(&b, `, opaque=%q`, opaque)
	}
	return b.String(), nil
}

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
