package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "lessondesk/internal/adapters/email"
	web "lessondesk/internal/adapters/http"
	"lessondesk/internal/adapters/http/perf"
	"lessondesk/internal/adapters/storage"
	accountStore "lessondesk/internal/adapters/storage/account"
	clientStorePkg "lessondesk/internal/adapters/storage/client"
	featureFlagStorePkg "lessondesk/internal/adapters/storage/featureflag"
	lessonStorePkg "lessondesk/internal/adapters/storage/lesson"
	profileStorePkg "lessondesk/internal/adapters/storage/profile"
	"lessondesk/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	env := envOrDefault("LESSONDESK_ENV", "development")
	if env == "production" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("LESSONDESK_DB", "lessondesk.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	// Run database migrations
	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	// Create store instances (using timed DB for query instrumentation)
	acctStore := accountStore.NewSQLiteStore(timedDB)
	profStore := profileStorePkg.NewSQLiteStore(timedDB)
	lsnStore := lessonStorePkg.NewSQLiteStore(timedDB)
	clntStore := clientStorePkg.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:     acctStore,
		ProfileStore:     profStore,
		LessonStore:      lsnStore,
		ClientStore:      clntStore,
		FeatureFlagStore: featureFlagStorePkg.NewSQLiteStore(timedDB),
	}

	ctx := context.Background()
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore, ProfileStore: profStore}

	// Seed default admin account if no accounts exist
	adminEmail := envOrDefault("LESSONDESK_ADMIN_EMAIL", "admin@lessondesk.app")
	adminPassword := envOrDefault("LESSONDESK_ADMIN_PASSWORD", "change me soon")
	if err := orchestrators.ExecuteSeedAdmin(ctx, seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Seed the known feature flags, leaving existing rows untouched
	if err := orchestrators.ExecuteSeedFeatureFlags(ctx, orchestrators.SeedFeatureFlagsDeps{
		FeatureFlagStore: stores.FeatureFlagStore,
	}); err != nil {
		log.Fatalf("failed to seed feature flags: %v", err)
	}

	// Test accounts and synthetic data for development only
	if env != "production" {
		if err := orchestrators.ExecuteSeedTestAccounts(ctx, seedDeps); err != nil {
			log.Fatalf("failed to seed test accounts: %v", err)
		}
		if err := orchestrators.ExecuteSeedSynthetic(ctx, orchestrators.SyntheticSeedDeps{
			AccountStore: acctStore,
			ClientStore:  clntStore,
			LessonStore:  lsnStore,
		}); err != nil {
			log.Fatalf("failed to seed synthetic data: %v", err)
		}
		log.Println("Synthetic seed data loaded (dev mode)")
	}

	// Configure email sender
	resendKey := os.Getenv("LESSONDESK_RESEND_KEY")
	emailFrom := envOrDefault("LESSONDESK_RESEND_FROM", "LessonDesk <noreply@lessondesk.app>")
	emailReply := envOrDefault("LESSONDESK_REPLY_TO", "support@lessondesk.app")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, emailReply)
		if env == "production" {
			log.Println("WARNING: LESSONDESK_RESEND_KEY is not set, email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set LESSONDESK_RESEND_KEY for real delivery)")
		}
	}

	if base := os.Getenv("LESSONDESK_BASE_URL"); base != "" {
		web.BaseURL = base
	}

	// Create HTTP handler with middleware (pass collector for timing + perf API)
	mux := web.NewMux("static", stores, collector)

	addr := envOrDefault("LESSONDESK_ADDR", ":8080")
	log.Printf("LessonDesk %s starting on %s (env=%s, schema=%d)", version, addr, env, storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
