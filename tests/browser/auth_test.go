package browser_test

import (
	"testing"

	"github.com/playwright-community/playwright-go"
)

// TestAuth_AdminLogin verifies the seeded admin can sign in and land on the dashboard.
func TestAuth_AdminLogin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	page := app.newPage(t)

	app.login(t, page)

	heading := page.Locator("h1")
	text, _ := heading.TextContent()
	if text != "Dashboard" {
		t.Errorf("expected 'Dashboard' heading, got %q", text)
	}
}

// TestAuth_WrongPassword verifies a bad password stays on the form with an error.
func TestAuth_WrongPassword(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	page := app.newPage(t)

	if _, err := page.Goto(app.BaseURL + "/auth"); err != nil {
		t.Fatalf("failed to navigate to sign-in: %v", err)
	}
	if err := page.Locator("input[name=Email]").Fill("admin@test.com"); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=Password]").Fill("not-the-password"); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click sign in: %v", err)
	}

	if err := page.Locator(".notice.error").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("error notice did not appear: %v", err)
	}
	text, _ := page.Locator(".notice.error").TextContent()
	if text == "" {
		t.Errorf("expected an error message on failed login")
	}
}

// TestAuth_Logout verifies signing out returns to the sign-in screen.
func TestAuth_Logout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	page := app.newPage(t)

	app.login(t, page)

	if err := page.Locator("button.link-button").Click(); err != nil {
		t.Fatalf("failed to click sign out: %v", err)
	}
	if err := page.WaitForURL(app.BaseURL+"/auth", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("logout did not return to sign-in: %v", err)
	}

	// A protected page should now bounce back to sign-in
	if _, err := page.Goto(app.BaseURL + "/dashboard"); err != nil {
		t.Fatalf("failed to navigate to dashboard: %v", err)
	}
	if err := page.WaitForURL(app.BaseURL+"/auth", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("dashboard was reachable after logout: %v", err)
	}
}

// TestAuth_Signup verifies a new account can be created through the form.
func TestAuth_Signup(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	page := app.newPage(t)

	if _, err := page.Goto(app.BaseURL + "/auth/signup"); err != nil {
		t.Fatalf("failed to navigate to signup: %v", err)
	}
	if err := page.Locator("input[name=Email]").Fill("fresh@test.com"); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=DisplayName]").Fill("Fresh User"); err != nil {
		t.Fatalf("failed to fill display name: %v", err)
	}
	if err := page.Locator("input[name=Password]").Fill("FreshPass1"); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("input[name=ConfirmPassword]").Fill("FreshPass1"); err != nil {
		t.Fatalf("failed to fill confirm password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to submit signup: %v", err)
	}
	if err := page.WaitForURL(app.BaseURL+"/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("signup did not land on dashboard: %v", err)
	}

	// Identity badge shows the new user's initials
	initials, _ := page.Locator(".avatar").TextContent()
	if initials != "FU" {
		t.Errorf("expected initials FU, got %q", initials)
	}
}
