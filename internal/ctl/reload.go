package ctl

import "fmt"

// ReloadOptions controls the reload command.
type ReloadOptions struct {
	Profile string
	JSON    bool
}

// Reload tells the daemon to reload its configuration, optionally
// switching to a named profile.
func Reload(baseURL string, opts ReloadOptions) error {
	var body any
	if opts.Profile != "" {
		body = map[string]string{"profile": opts.Profile}
	}

	var resp struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
	}
	if err := postJSON(baseURL, "/api/reload", body, &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	if resp.OK {
		fmt.Printf("  %s %s\n", colorize(green, "ok"), resp.Message)
	} else {
		fmt.Printf("  %s %s\n", colorize(red, "failed"), resp.Message)
	}
	return nil
}
