package model

import (
	"fmt"
	"net/url"
)

// CredentialMask is the literal substituted for each credential component in
// the display form of an authenticated URL.
const CredentialMask = "*****"

// MaskedURL pairs an authenticated remote URL with its loggable twin. Real
// is passed only to git or an HTTP client and must never be printed; Display
// has every credential component replaced with CredentialMask and is the only
// form that may reach logs, reports, or comments.
type MaskedURL struct {
	Real    string
	Display string
}

// GitHubMirrorURL builds the push-mirror target for a GitHub repository.
// Both the user and the password count as credentials, so the display form
// masks them independently.
func GitHubMirrorURL(user, pass, org, repo string) MaskedURL {
	return MaskedURL{
		Real:    fmt.Sprintf("https://%s:%s@github.com/%s/%s.git", user, pass, org, repo),
		Display: fmt.Sprintf("https://%s:%s@github.com/%s/%s.git", CredentialMask, CredentialMask, org, repo),
	}
}

// GitLabRemoteURL builds the authenticated push URL for a project under a
// group on the GitLab server at serverURL. The user segment is the literal
// "oauth2" scheme marker and stays visible; only the token is masked.
func GitLabRemoteURL(serverURL, token, group, repo string) (MaskedURL, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return MaskedURL{}, fmt.Errorf("parsing server URL: %w", err)
	}
	return MaskedURL{
		Real:    fmt.Sprintf("%s://oauth2:%s@%s/%s/%s.git", u.Scheme, token, u.Host, group, repo),
		Display: fmt.Sprintf("%s://oauth2:%s@%s/%s/%s.git", u.Scheme, CredentialMask, u.Host, group, repo),
	}, nil
}

// GitLabOriginURL builds the authenticated fetch URL for the pipeline's own
// project path (CI_PROJECT_PATH) on the GitLab server at serverURL.
func GitLabOriginURL(serverURL, token, projectPath string) (MaskedURL, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return MaskedURL{}, fmt.Errorf("parsing server URL: %w", err)
	}
	return MaskedURL{
		Real:    fmt.Sprintf("%s://oauth2:%s@%s/%s", u.Scheme, token, u.Host, projectPath),
		Display: fmt.Sprintf("%s://oauth2:%s@%s/%s", u.Scheme, CredentialMask, u.Host, projectPath),
	}, nil
}

// Redact rewrites any URL so an embedded password is replaced with
// CredentialMask, for arguments that reach logs without a prebuilt MaskedURL.
// Non-URL input is returned unchanged.
func Redact(urlstr string) string {
	u, err := url.Parse(urlstr)
	if err != nil || u.User == nil {
		return urlstr
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), CredentialMask)
	}
	return u.String()
}
