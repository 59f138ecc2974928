package downloader

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mudler/xlog"
)

const (
	HTTPPrefix  = "http://"
	HTTPSPrefix = "https://"
	GithubURI   = "github:"
	GithubURI2  = "github://"
	LocalPrefix = "file://"
)

type URI string

func (uri URI) DownloadWithCallback(basePath string, f func(url string, i []byte) error) error {
	return uri.DownloadWithAuthorizationAndCallback(basePath, "", f)
}

// DownloadWithAuthorizationAndCallback fetches the URI and hands the body to f.
// file:// URIs must resolve inside basePath; bare paths are read as given.
func (uri URI) DownloadWithAuthorizationAndCallback(basePath string, authorization string, f func(url string, i []byte) error) error {
	url, err := uri.resolve()
	if err != nil {
		return err
	}

	if strings.HasPrefix(url, LocalPrefix) {
		rawURL := strings.TrimPrefix(url, LocalPrefix)
		// checks if the file is symbolic, and resolve if so - otherwise, this function returns the path unmodified.
		resolvedFile, err := filepath.EvalSymlinks(rawURL)
		if err != nil {
			return err
		}
		resolvedBasePath, err := filepath.EvalSymlinks(basePath)
		if err != nil {
			return err
		}
		if err := InTrustedRoot(resolvedFile, resolvedBasePath); err != nil {
			xlog.Debug("downloader blocked an attempt to read a file url outside of basePath", "resolvedFile", resolvedFile, "basePath", basePath)
			return err
		}
		body, err := os.ReadFile(resolvedFile)
		if err != nil {
			return err
		}
		return f(url, body)
	}

	if !uri.LooksLikeURL() {
		body, err := os.ReadFile(url)
		if err != nil {
			return err
		}
		return f(url, body)
	}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	if authorization != "" {
		req.Header.Add("Authorization", authorization)
	}

	response, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to download url %q, invalid status code %d", url, response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	return f(url, body)
}

func (u URI) LooksLikeURL() bool {
	return strings.HasPrefix(string(u), HTTPPrefix) ||
		strings.HasPrefix(string(u), HTTPSPrefix) ||
		strings.HasPrefix(string(u), GithubURI) ||
		strings.HasPrefix(string(u), GithubURI2)
}

func (s URI) ResolveURL() string {
	url, err := s.resolve()
	if err != nil {
		return string(s)
	}
	return url
}

func (s URI) resolve() (string, error) {
	switch {
	case strings.HasPrefix(string(s), GithubURI2):
		return githubRawURL(strings.Replace(string(s), GithubURI2, "", 1))
	case strings.HasPrefix(string(s), GithubURI):
		return githubRawURL(strings.Replace(string(s), GithubURI, "", 1))
	}

	return string(s), nil
}

// githubRawURL turns org/project/path[@branch] into a raw.githubusercontent.com URL.
func githubRawURL(repository string) (string, error) {
	repoParts := strings.Split(repository, "@")
	branch := "main"

	if len(repoParts) > 1 {
		branch = repoParts[1]
	}

	repoPath := strings.Split(repoParts[0], "/")
	if len(repoPath) < 3 || slices.Contains(repoPath, "") {
		return "", fmt.Errorf("github URI needs org/repo/path, got %q", repository)
	}
	org := repoPath[0]
	project := repoPath[1]
	projectPath := strings.Join(repoPath[2:], "/")

	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", org, project, branch, projectPath), nil
}

// InTrustedRoot checks that path is located below trustedRoot.
func InTrustedRoot(path string, trustedRoot string) error {
	for path != "/" && path != "." && path != filepath.Dir(path) {
		path = filepath.Dir(path)
		if path == trustedRoot {
			return nil
		}
	}
	return fmt.Errorf("path is outside of trusted root")
}
