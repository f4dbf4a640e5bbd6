// Package auth logs the scraper into the rescue portal.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/browser"
)

// Credentials are the portal account credentials. All three fields are
// required by the login form.
type Credentials struct {
	Pin      string
	User     string
	Password string
}

// Fixed positions of the login form fields on the portal page. The
// portal renders the form as a bare table, so the inputs are addressed
// by row.
const (
	loginPath = "/login#atbh"

	pinInputXPath      = `//*[@id="mainbody"]/form/table/tbody/tr[1]/td[2]/input`
	userInputXPath     = `//*[@id="mainbody"]/form/table/tbody/tr[2]/td[2]/input`
	passwordInputXPath = `//*[@id="mainbody"]/form/table/tbody/tr[3]/td[2]/input`
	submitInputXPath   = `//*[@id="mainbody"]/form/table/tbody/tr[5]/td[2]/input`
)

// Login opens the portal login page, fills in the credentials, and
// submits the form. It returns an error if any form field cannot be
// found or the submission does not leave the login page.
func Login(ctx context.Context, baseURL string, creds Credentials) error {
	if err := browser.Navigate(ctx, baseURL+loginPath); err != nil {
		return err
	}

	if err := chromedp.Run(ctx,
		chromedp.WaitVisible(pinInputXPath, chromedp.BySearch),
		chromedp.SendKeys(pinInputXPath, creds.Pin, chromedp.BySearch),
		chromedp.SendKeys(userInputXPath, creds.User, chromedp.BySearch),
		chromedp.SendKeys(passwordInputXPath, creds.Password, chromedp.BySearch),
		chromedp.Click(submitInputXPath, chromedp.BySearch),
		chromedp.Sleep(2*time.Second),
	); err != nil {
		return fmt.Errorf("could not submit login form: %w", err)
	}

	loggedIn, err := isLoggedIn(ctx)
	if err != nil {
		return err
	}
	if !loggedIn {
		return fmt.Errorf("login rejected: still on the login page")
	}
	return nil
}

// isLoggedIn reports whether the browser has left the login form. The
// portal redirects to the account home on success and re-renders the
// form on bad credentials.
func isLoggedIn(ctx context.Context) (bool, error) {
	var onLoginForm bool
	err := chromedp.Run(ctx,
		chromedp.Evaluate(`
			(function() {
				const form = document.querySelector('#mainbody form input[type="password"]');
				return form !== null;
			})()
		`, &onLoginForm),
	)
	if err != nil {
		return false, fmt.Errorf("could not verify login state: %w", err)
	}
	return !onLoginForm, nil
}
