package main

import "net/url"

// redactURL hides the password in a database URL for logging
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
