package web

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/go-while/go-pressleaf/internal/config"
	"github.com/go-while/go-pressleaf/internal/database"
)

// newTestServer builds a WebServer on a fresh temp database and wraps its
// router in an httptest server.
func newTestServer(t *testing.T) (*WebServer, *httptest.Server) {
	t.Helper()

	dbcfg := database.DefaultDBConfig()
	dbcfg.DataDir = t.TempDir()
	db, err := database.OpenDatabase(dbcfg)
	if err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}
	t.Cleanup(func() { db.Shutdown() })

	webcfg := &config.WebConfig{
		ListenPort:  11990,
		StaticDir:   "../../web/static",
		TemplateDir: "../../web/templates",
	}
	server := NewServer(db, webcfg)

	ts := httptest.NewServer(server.Router)
	t.Cleanup(ts.Close)
	return server, ts
}

// newClient returns an HTTP client with a cookie jar, like a browser
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func getBody(t *testing.T, client *http.Client, rawURL string) (int, string) {
	t.Helper()
	resp, err := client.Get(rawURL)
	if err != nil {
		t.Fatalf("GET %s: %v", rawURL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func postForm(t *testing.T, client *http.Client, rawURL string, form url.Values) (int, string) {
	t.Helper()
	resp, err := client.PostForm(rawURL, form)
	if err != nil {
		t.Fatalf("POST %s: %v", rawURL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func register(t *testing.T, client *http.Client, base, name, username, email, password string) (int, string) {
	t.Helper()
	return postForm(t, client, base+"/register", url.Values{
		"name":     {name},
		"username": {username},
		"email":    {email},
		"password": {password},
		"confirm":  {password},
	})
}

func login(t *testing.T, client *http.Client, base, username, password string) (int, string) {
	t.Helper()
	return postForm(t, client, base+"/login", url.Values{
		"username": {username},
		"password": {password},
	})
}

func TestPublicPages(t *testing.T) {
	_, ts := newTestServer(t)
	client := newClient(t)

	for _, path := range []string{"/", "/about", "/articles", "/article/1"} {
		status, _ := getBody(t, client, ts.URL+path)
		if status != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, status)
		}
	}

	status, body := getBody(t, client, ts.URL+"/ping")
	if status != http.StatusOK || body != "pong" {
		t.Errorf("GET /ping = (%d, %q)", status, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	client := newClient(t)

	getBody(t, client, ts.URL+"/articles")
	status, body := getBody(t, client, ts.URL+"/metrics")
	if status != http.StatusOK {
		t.Fatalf("GET /metrics status = %d", status)
	}
	if !strings.Contains(body, "pressleaf_http_requests_total") {
		t.Error("metrics output missing pressleaf_http_requests_total")
	}
}

func TestDashboardRequiresLogin(t *testing.T) {
	_, ts := newTestServer(t)
	client := newClient(t)

	for _, path := range []string{"/dashboard", "/add-article", "/edit/1", "/delete/1"} {
		status, body := getBody(t, client, ts.URL+path)
		// Redirects land on the login page with the notice
		if status != http.StatusOK || !strings.Contains(body, "Please login") {
			t.Errorf("GET %s without session: status %d, login notice missing", path, status)
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	srv, ts := newTestServer(t)
	client := newClient(t)

	tests := []struct {
		name     string
		fullname string
		username string
		email    string
		password string
		confirm  string
	}{
		{"short name", "Al", "alice_l", "alice@example.com", "secretpw", "secretpw"},
		{"short username", "Alice Liddell", "ali", "alice@example.com", "secretpw", "secretpw"},
		{"bad email", "Alice Liddell", "alice_l", "not-an-email", "secretpw", "secretpw"},
		{"short password", "Alice Liddell", "alice_l", "alice@example.com", "pw", "pw"},
		{"mismatched confirm", "Alice Liddell", "alice_l", "alice@example.com", "secretpw", "different"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := postForm(t, client, ts.URL+"/register", url.Values{
				"name":     {tt.fullname},
				"username": {tt.username},
				"email":    {tt.email},
				"password": {tt.password},
				"confirm":  {tt.confirm},
			})
			if status != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", status)
			}
			// No row may exist for any of the rejected submissions
			if _, err := srv.DB.GetUserByUsername(tt.username); !database.IsNotFound(err) {
				t.Errorf("user %q created despite invalid form (err=%v)", tt.username, err)
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	_, ts := newTestServer(t)
	client := newClient(t)

	if status, _ := register(t, client, ts.URL, "Alice Liddell", "alice", "alice@example.com", "secretpw"); status != http.StatusOK {
		t.Fatalf("first registration status = %d", status)
	}
	status, body := register(t, client, ts.URL, "Other Alice", "alice", "other@example.com", "secretpw")
	if status != http.StatusBadRequest || !strings.Contains(body, "Username already exists") {
		t.Errorf("duplicate registration: status %d, body missing notice", status)
	}
}

func TestLoginFailures(t *testing.T) {
	_, ts := newTestServer(t)
	client := newClient(t)
	register(t, client, ts.URL, "Alice Liddell", "alice", "alice@example.com", "secretpw")

	status, body := login(t, client, ts.URL, "alice", "wrongpw")
	if status != http.StatusBadRequest || !strings.Contains(body, "Wrong Password") {
		t.Errorf("wrong password: status %d, notice missing", status)
	}

	status, body = login(t, client, ts.URL, "nobody_here", "secretpw")
	if status != http.StatusBadRequest || !strings.Contains(body, "This user doesn't exist") {
		t.Errorf("unknown user: status %d, notice missing", status)
	}
}

// TestBlogScenario walks the full flow: register, login, publish, and a
// foiled cross-user delete.
func TestBlogScenario(t *testing.T) {
	srv, ts := newTestServer(t)

	// alice registers; the confirmation shows on the login page
	alice := newClient(t)
	status, body := register(t, alice, ts.URL, "Alice Liddell", "alice", "alice@example.com", "secretpw")
	if status != http.StatusOK || !strings.Contains(body, "You have successfully registered") {
		t.Fatalf("registration: status %d, confirmation missing", status)
	}

	// alice logs in
	status, body = login(t, alice, ts.URL, "alice", "secretpw")
	if status != http.StatusOK || !strings.Contains(body, "You have successfully logged in") {
		t.Fatalf("login: status %d, confirmation missing", status)
	}

	// alice publishes an article
	status, body = postForm(t, alice, ts.URL+"/add-article", url.Values{
		"title":   {"Hello World!"},
		"content": {"This is my first post."},
	})
	if status != http.StatusOK || !strings.Contains(body, "Article successfully added") {
		t.Fatalf("add article: status %d, confirmation missing", status)
	}

	// It appears on alice's dashboard and on the public list
	_, body = getBody(t, alice, ts.URL+"/dashboard")
	if !strings.Contains(body, "Hello World!") {
		t.Error("article missing from dashboard")
	}
	anon := newClient(t)
	_, body = getBody(t, anon, ts.URL+"/articles")
	if !strings.Contains(body, "Hello World!") {
		t.Error("article missing from public list")
	}

	articles, err := srv.DB.GetAllArticles()
	if err != nil || len(articles) != 1 {
		t.Fatalf("GetAllArticles: %v (%d articles)", err, len(articles))
	}
	articleID := strconv.FormatInt(articles[0].ID, 10)

	// The public single-article view renders it
	_, body = getBody(t, anon, ts.URL+"/article/"+articleID)
	if !strings.Contains(body, "This is my first post.") {
		t.Error("article content missing from single view")
	}

	// bobby logs in and tries to delete alice's article
	bobby := newClient(t)
	register(t, bobby, ts.URL, "Bob Wilson", "bobby", "bobby@example.com", "hunter22")
	login(t, bobby, ts.URL, "bobby", "hunter22")

	_, body = getBody(t, bobby, ts.URL+"/delete/"+articleID)
	if !strings.Contains(body, "No such article, or you are not authorized.") {
		t.Error("forbidden delete: notice missing")
	}
	if _, err := srv.DB.GetArticleByID(articles[0].ID); err != nil {
		t.Errorf("article gone after forbidden delete: %v", err)
	}

	// bobby cannot edit it either
	status, _ = getBody(t, bobby, ts.URL+"/edit/"+articleID)
	if status != http.StatusOK {
		t.Errorf("foreign edit status = %d", status)
	}
	updated, _ := srv.DB.UpdateArticle(articles[0].ID, "Hacked", "hacked here", "bobby")
	if updated {
		t.Error("non-owner update went through")
	}

	// alice edits and finally deletes her article
	status, body = postForm(t, alice, ts.URL+"/edit/"+articleID, url.Values{
		"title":   {"Hello Again!"},
		"content": {"This is the edited post."},
	})
	if status != http.StatusOK || !strings.Contains(body, "Article successfully updated") {
		t.Fatalf("edit article: status %d, confirmation missing", status)
	}
	got, _ := srv.DB.GetArticleByID(articles[0].ID)
	if got.Title != "Hello Again!" {
		t.Errorf("edit not applied: %+v", got)
	}

	_, body = getBody(t, alice, ts.URL+"/delete/"+articleID)
	if strings.Contains(body, "No such article") {
		t.Error("owner delete was refused")
	}
	if _, err := srv.DB.GetArticleByID(articles[0].ID); !database.IsNotFound(err) {
		t.Errorf("article still present after owner delete: %v", err)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	_, ts := newTestServer(t)
	client := newClient(t)

	register(t, client, ts.URL, "Alice Liddell", "alice", "alice@example.com", "secretpw")
	login(t, client, ts.URL, "alice", "secretpw")

	if _, body := getBody(t, client, ts.URL+"/dashboard"); strings.Contains(body, "Please login") {
		t.Fatal("session missing right after login")
	}

	getBody(t, client, ts.URL+"/logout")

	if _, body := getBody(t, client, ts.URL+"/dashboard"); !strings.Contains(body, "Please login") {
		t.Error("dashboard reachable after logout")
	}
}
