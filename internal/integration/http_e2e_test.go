//go:build integration || !unit

package integration

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"guest_reviews/internal/adapters/google"
	"guest_reviews/internal/adapters/hostaway"
	server "guest_reviews/internal/adapters/http_server"
	"guest_reviews/internal/app"
	mysqlrepo "guest_reviews/internal/storage/mysql"
)

// ---------- helpers ----------
func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- fake upstream sources ----------
const hostawayBody = `{"status": "success", "result": [
  {"id": 7453, "type": "guest-to-host", "status": "published", "rating": 5,
   "publicReview": "Spotless", "reviewCategory": [{"category": "cleanliness", "rating": 10}],
   "submittedAt": "2024-05-01 09:00:00", "guestName": "Shane", "listingName": "Camden Loft"},
  {"id": 7454, "type": "guest-to-host", "status": "published", "rating": 3,
   "publicReview": "Noisy", "reviewCategory": [],
   "submittedAt": "2024-05-02 09:00:00", "guestName": "Ana", "listingName": "Camden Loft"}
]}`

const googleBody = `{"reviews": [
  {"id": "7454", "author_name": "Lee", "rating": 4, "text": "Nice", "time": 1717200000, "listing_name": "Camden Loft"}
]}`

func upstreamServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

type publicBody struct {
	Status string `json:"status"`
	Data   struct {
		Reviews []struct {
			ID     json.RawMessage `json:"id"`
			Source string          `json:"source"`
		} `json:"reviews"`
	} `json:"data"`
}

// ---------- the test ----------
func TestHTTP_EndToEnd_ApproveAndPublish(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=reviews",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "reviews")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	// real clients against fake upstreams, real router against real MySQL
	hc, err := hostaway.New(upstreamServer(t, hostawayBody).URL, "tok", 100, 2*time.Second)
	if err != nil {
		t.Fatalf("hostaway client: %v", err)
	}
	gc, err := google.New(upstreamServer(t, googleBody).URL, "", 100, 2*time.Second)
	if err != nil {
		t.Fatalf("google client: %v", err)
	}
	approvals := app.NewApprovalService(mysqlrepo.New(db))
	srv := server.New(5 * time.Second)
	srv.MountHandlers(server.NewHandlers(app.NewQueryService(hc, gc, approvals), approvals, 6))
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// approvals are stored whether or not a source currently returns the id
	res, err := http.Post(ts.URL+"/api/approvals/google_x/toggle", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("toggle status %d", res.StatusCode)
	}
	res, err = http.Post(ts.URL+"/api/approvals/7453/toggle", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	res.Body.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM review_approvals`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 stored approvals, got %d", n)
	}

	// a fresh repo over the same database sees the approvals
	approvals2 := app.NewApprovalService(mysqlrepo.New(db))
	srv2 := server.New(5 * time.Second)
	srv2.MountHandlers(server.NewHandlers(app.NewQueryService(hc, gc, approvals2), approvals2, 6))
	ts2 := httptest.NewServer(srv2.Mux())
	defer ts2.Close()

	res, err = http.Get(ts2.URL + "/api/reviews/public?listing=camden%20loft")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var body publicBody
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 7453 (int) is approved; google "7454" and hostaway 7454 are not
	if len(body.Data.Reviews) != 1 || string(body.Data.Reviews[0].ID) != "7453" || body.Data.Reviews[0].Source != "hostaway" {
		t.Fatalf("unexpected public reviews: %+v", body.Data.Reviews)
	}
}
