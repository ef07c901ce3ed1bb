/*
Package peersdk is a small Go client for the peertutor website.

The site is server rendered, so the client drives it the way a browser
would: it posts HTML forms, follows the redirect that answers every POST and
keeps the session cookie in a cookie jar. Each call returns the Page the
browser would have landed on, including any flash messages rendered on it.

	client, err := peersdk.NewClient("http://localhost:8080")

	page, err := client.Signup(ctx, peersdk.SignupForm{
		EmailLocal: "jdoe",
		Password:   "Secret123!",
		FirstName:  "Jane",
		LastName:   "Doe",
		Grade:      10,
		Tutor:      []string{"ap_bio"},
	})
	// page.Path == "/me", page.UserID is the new account.

	page, err = client.Login(ctx, peersdk.LoginForm{Email: "jdoe@menloschool.org", Password: "Secret123!"})
	if len(page.Flashes) > 0 {
		// login failed, page.Path == "/login"
	}

Health endpoints return JSON and are exposed as GetLiveness and GetReadiness.

The package is used by the end-to-end suite and is handy for scripting
against a running instance. It is not a general purpose scraper: it only
understands the markup peertutor renders.
*/
package peersdk
