package handlers

import (
	"net/url"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validation limits for load requests.
const (
	maxSourceLen     = 2_048
	maxUploadNameLen = 200
)

// validateSource checks the source of a load request and returns the first
// error found.
func validateSource(source string) string {
	source = strings.TrimSpace(source)
	if source == "" {
		return "Source is required."
	}
	if utf8.RuneCountInString(source) > maxSourceLen {
		return "Source is too long (max 2,048 characters)."
	}
	if strings.IndexFunc(source, unicode.IsControl) >= 0 {
		return "Source contains control characters."
	}
	return ""
}

// SourcePolicy limits which sources a load request may name. The
// configured source is always allowed. Anything else must be an http(s)
// URL under one of the Allowed prefixes, so local paths and s3://
// locations are reachable only through Configured.
type SourcePolicy struct {
	Configured string
	Allowed    []string
}

func (p SourcePolicy) permits(source string) bool {
	if c := strings.TrimSpace(p.Configured); c != "" && source == c {
		return true
	}
	u, err := url.Parse(source)
	if err != nil || !isHTTP(u) || u.User != nil {
		return false
	}
	reqPath := cleanPath(u.Path)
	for _, prefix := range p.Allowed {
		a, err := url.Parse(strings.TrimSpace(prefix))
		if err != nil || !isHTTP(a) {
			continue
		}
		if strings.EqualFold(u.Scheme, a.Scheme) &&
			strings.EqualFold(u.Host, a.Host) &&
			strings.HasPrefix(reqPath, a.Path) {
			return true
		}
	}
	return false
}

func isHTTP(u *url.URL) bool {
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// cleanPath resolves dot segments, keeping a trailing slash.
func cleanPath(p string) string {
	cleaned := path.Clean("/" + p)
	if strings.HasSuffix(p, "/") && cleaned != "/" {
		cleaned += "/"
	}
	return cleaned
}

// uploadName returns the name an uploaded sheet is recorded under.
func uploadName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return "upload"
	}
	if utf8.RuneCountInString(name) > maxUploadNameLen {
		return string([]rune(name)[:maxUploadNameLen])
	}
	return name
}
