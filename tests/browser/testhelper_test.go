package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	web "lessondesk/internal/adapters/http"
	"lessondesk/internal/adapters/http/middleware"
	"lessondesk/internal/adapters/http/perf"
	"lessondesk/internal/adapters/storage"
	accountStore "lessondesk/internal/adapters/storage/account"
	clientStore "lessondesk/internal/adapters/storage/client"
	featureFlagStore "lessondesk/internal/adapters/storage/featureflag"
	lessonStore "lessondesk/internal/adapters/storage/lesson"
	profileStore "lessondesk/internal/adapters/storage/profile"
	"lessondesk/internal/application/orchestrators"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
	AdminID string
	tmpDir  string
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	// Create temp directory for the database
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Run migrations
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	// Create stores
	acctStore := accountStore.NewSQLiteStore(db)
	profStore := profileStore.NewSQLiteStore(db)
	stores := &web.Stores{
		AccountStore:     acctStore,
		ProfileStore:     profStore,
		LessonStore:      lessonStore.NewSQLiteStore(db),
		ClientStore:      clientStore.NewSQLiteStore(db),
		FeatureFlagStore: featureFlagStore.NewSQLiteStore(db),
	}

	// Seed admin and feature flags
	ctx := context.Background()
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore, ProfileStore: profStore}
	if err := orchestrators.ExecuteSeedAdmin(ctx, seedDeps, "admin@test.com", "TestPass123!"); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	adminAcct, err := acctStore.GetByEmail(ctx, "admin@test.com")
	if err != nil {
		t.Fatalf("failed to load seeded admin: %v", err)
	}
	if err := orchestrators.ExecuteSeedFeatureFlags(ctx, orchestrators.SeedFeatureFlagsDeps{
		FeatureFlagStore: stores.FeatureFlagStore,
	}); err != nil {
		t.Fatalf("failed to seed feature flags: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Change to project root so relative template/static paths work
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	// Add test port to CSRF trusted origins before creating mux
	middleware.ExtraTrustedOrigins = append(middleware.ExtraTrustedOrigins,
		fmt.Sprintf("127.0.0.1:%d", port),
		fmt.Sprintf("localhost:%d", port),
	)

	// Start HTTP server
	collector := perf.NewCollector(perf.DefaultRingSize)
	mux := web.NewMux("static", stores, collector)
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/auth")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	// Start Playwright
	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
		AdminID: adminAcct.ID,
		tmpDir:  tmpDir,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// seedTestAccounts creates the four role/tier test accounts.
func (a *testApp) seedTestAccounts(t *testing.T) {
	t.Helper()
	deps := orchestrators.CreateAccountDeps{
		AccountStore: a.Stores.AccountStore,
		ProfileStore: a.Stores.ProfileStore,
	}
	if err := orchestrators.ExecuteSeedTestAccounts(context.Background(), deps); err != nil {
		t.Fatalf("failed to seed test accounts: %v", err)
	}
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// loginAs signs in through the form with the given credentials and waits for the dashboard.
func (a *testApp) loginAs(t *testing.T, page playwright.Page, email, password string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/auth"); err != nil {
		t.Fatalf("failed to navigate to sign-in: %v", err)
	}
	if err := page.Locator("input[name=Email]").Fill(email); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=Password]").Fill(password); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click sign in: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to dashboard: %v", err)
	}
}

// login signs in as the seeded admin.
func (a *testApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	a.loginAs(t, page, "admin@test.com", "TestPass123!")
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
