package vraseniors

import (
	"net/http"
	"strings"
	"testing"
)

func TestGate(t *testing.T) {
	ta := newTestApp(t)
	anon := &client{app: ta, cookies: map[string]*http.Cookie{}}
	wrong := &client{app: ta, user: testSiteUser, pass: "nope", cookies: map[string]*http.Cookie{}}

	tests := []struct {
		name      string
		c         *client
		path      string
		wantCode  int
		wantRealm string
		wantBody  string
	}{
		{"missing site credentials", anon, "/", http.StatusUnauthorized, `Basic realm="VRA Seniors Website"`, "Members Only Access"},
		{"wrong site credentials", wrong, "/golf/", http.StatusUnauthorized, `Basic realm="VRA Seniors Website"`, "Invalid Credentials"},
		{"member on site", ta.member(), "/", http.StatusOK, "", "Hello members"},
		{"administration section is not admin", ta.member(), "/administration/", http.StatusOK, "", "Constitution"},
		{"missing admin credentials", anon, "/admin/", http.StatusUnauthorized, `Basic realm="VRA Seniors Admin"`, "Administrator Login Required"},
		{"member on admin", ta.member(), "/admin/", http.StatusUnauthorized, `Basic realm="VRA Seniors Admin"`, "Administrator Login Required"},
		{"wrong admin api", wrong, "/admin/api/commit-push/", http.StatusUnauthorized, `Basic realm="VRA Seniors Admin"`, "Administrator Login Required"},
		{"admin on admin", ta.admin(), "/admin/", http.StatusOK, "", "Content editor"},
		{"admin is not a member", ta.admin(), "/", http.StatusUnauthorized, `Basic realm="VRA Seniors Website"`, "Invalid Credentials"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.c.get(tt.path)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := rec.Header().Get("WWW-Authenticate"); got != tt.wantRealm {
				t.Errorf("WWW-Authenticate = %q, want %q", got, tt.wantRealm)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body missing %q", tt.wantBody)
			}
		})
	}
}

func TestGateSkipsAssets(t *testing.T) {
	ta := newTestApp(t)
	anon := &client{app: ta, cookies: map[string]*http.Cookie{}}
	for _, path := range []string{"/public/assets/site.css", "/favicon.svg", "/public/photos/x.JPG", "/logo.png"} {
		if rec := anon.get(path); rec.Code == http.StatusUnauthorized {
			t.Errorf("%s: asset was challenged", path)
		}
	}
	if rec := anon.get("/public/pdfs/minutes.pdf"); rec.Code != http.StatusUnauthorized {
		t.Errorf("pdf served without credentials: %d", rec.Code)
	}
}

func TestIsAsset(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/public/assets/app.woff2", true},
		{"/favicon.ico", true},
		{"/scripts/app.js", true},
		{"/IMAGE.PNG", true},
		{"/", false},
		{"/golf/", false},
		{"/public/pdfs/a.pdf", false},
		{"/admin/", false},
	}
	for _, tt := range tests {
		if got := isAsset(tt.path); got != tt.want {
			t.Errorf("isAsset(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestCredentialsMatch(t *testing.T) {
	if !credentialsMatch("a", "b", "a", "b") {
		t.Error("expected match")
	}
	for _, c := range [][2]string{{"a", "x"}, {"x", "b"}, {"", ""}, {"a", "b "}} {
		if credentialsMatch(c[0], c[1], "a", "b") {
			t.Errorf("credentialsMatch(%q, %q) should fail", c[0], c[1])
		}
	}
}
