package browser_test

import (
	"testing"
)

// TestNav_FreeTierHidesGatedAreas verifies the free-tier user never sees
// tier-gated navigation and cannot reach the pages directly.
func TestNav_FreeTierHidesGatedAreas(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	app.seedTestAccounts(t)
	page := app.newPage(t)

	app.loginAs(t, page, "dev+free@lessondesk.app", "Desk+free!")

	for _, href := range []string{"/analytics", "/dashboards", "/exports/lessons.csv", "/admin/accounts"} {
		n, err := page.Locator(`nav.site-nav a[href="` + href + `"]`).Count()
		if err != nil {
			t.Fatalf("failed to count nav links: %v", err)
		}
		if n != 0 {
			t.Errorf("nav shows %s to a free-tier basic user", href)
		}
	}
	for _, href := range []string{"/lessons", "/clients"} {
		n, err := page.Locator(`nav.site-nav a[href="` + href + `"]`).Count()
		if err != nil {
			t.Fatalf("failed to count nav links: %v", err)
		}
		if n != 1 {
			t.Errorf("nav is missing %s for a basic user", href)
		}
	}

	// Deep links are enforced server-side, hiding the nav is not enough
	resp, err := page.Goto(app.BaseURL + "/analytics")
	if err != nil {
		t.Fatalf("failed to navigate to analytics: %v", err)
	}
	if resp.Status() != 403 {
		t.Errorf("direct /analytics request: got status %d, want 403", resp.Status())
	}
}

// TestNav_BusinessTierSeesAnalytics verifies the business-tier power user
// gets the analytics and dashboards areas.
func TestNav_BusinessTierSeesAnalytics(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	app.seedTestAccounts(t)
	page := app.newPage(t)

	app.loginAs(t, page, "dev+power@lessondesk.app", "Desk+power!")

	for _, href := range []string{"/analytics", "/dashboards", "/exports/lessons.csv"} {
		n, err := page.Locator(`nav.site-nav a[href="` + href + `"]`).Count()
		if err != nil {
			t.Fatalf("failed to count nav links: %v", err)
		}
		if n != 1 {
			t.Errorf("nav is missing %s for a business-tier power user", href)
		}
	}

	// Admin area stays hidden from non-admins
	n, err := page.Locator(`nav.site-nav a[href="/admin/accounts"]`).Count()
	if err != nil {
		t.Fatalf("failed to count nav links: %v", err)
	}
	if n != 0 {
		t.Errorf("nav shows the admin area to a power user")
	}

	resp, err := page.Goto(app.BaseURL + "/analytics")
	if err != nil {
		t.Fatalf("failed to navigate to analytics: %v", err)
	}
	if resp.Status() != 200 {
		t.Fatalf("analytics request: got status %d, want 200", resp.Status())
	}
	heading, _ := page.Locator("h1").TextContent()
	if heading != "Analytics" {
		t.Errorf("expected 'Analytics' heading, got %q", heading)
	}
}

// TestNav_AdminSeesEverything verifies the admin nav and the role switcher.
func TestNav_AdminSeesEverything(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	page := app.newPage(t)

	app.login(t, page)

	for _, href := range []string{"/lessons", "/clients", "/analytics", "/dashboards", "/admin/accounts", "/admin/features"} {
		n, err := page.Locator(`nav.site-nav a[href="` + href + `"]`).Count()
		if err != nil {
			t.Fatalf("failed to count nav links: %v", err)
		}
		if n != 1 {
			t.Errorf("admin nav is missing %s", href)
		}
	}

	// The devmode role switcher renders for admins only
	n, err := page.Locator(".devmode").Count()
	if err != nil {
		t.Fatalf("failed to count devmode sections: %v", err)
	}
	if n != 1 {
		t.Errorf("role switcher is missing from the admin dashboard")
	}

	// Tier badge reflects the enterprise admin profile
	badge, _ := page.Locator(".tier-badge").TextContent()
	if badge != "enterprise" {
		t.Errorf("tier badge = %q, want enterprise", badge)
	}
}
