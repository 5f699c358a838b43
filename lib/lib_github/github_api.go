package lib_github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/go-resty/resty/v2"
	"github.com/schoolyear/vm-maintenance-cli/static"
)

const (
	requestTimeout  = 10 * time.Second
	retryCount      = 2
	retryWaitTime   = 1 * time.Second
	downloadTimeout = 10 * time.Minute
)

func newRestyClient() *resty.Client {
	return resty.New().
		SetTimeout(requestTimeout).
		SetRetryWaitTime(retryWaitTime).
		SetRetryCount(retryCount)
}

func FetchLatestVersion(ctx context.Context) (version string, downloadUrl string, err error) {
	releaseTag, err := GetLatestReleaseFromGithub(ctx, static.GithubRepository)
	if err != nil {
		return "", "", errors.Wrapf(err, "failed to fetch latest version for %s", static.GithubRepository)
	}

	downloadUrl = fmt.Sprintf("%s/releases/download/%s/%s", static.GithubRepository, releaseTag, static.ReleaseFile)

	return releaseTag, downloadUrl, nil
}

// GetLatestReleaseFromGithub resolves the tag of the latest release by following
// the redirect of /releases/latest, without using the (rate limited) Github API
func GetLatestReleaseFromGithub(ctx context.Context, repositoryUrl string) (string, error) {
	const latestReleasePath = "/releases/latest"
	const releaseTagPathPrefix = "/releases/tag/"

	res, err := newRestyClient().
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(req *http.Request, requests []*http.Request) error {
			if len(requests) == 1 && strings.HasPrefix(req.URL.String(), repositoryUrl+releaseTagPathPrefix) {
				return http.ErrUseLastResponse
			}
			return fmt.Errorf("refusing to redirect to %s", req.URL.String())
		})).
		R().
		SetContext(ctx).
		Head(repositoryUrl + latestReleasePath)
	if err != nil {
		return "", errors.Wrap(err, "failed to request latest release from Github")
	}

	if !res.IsSuccess() && res.StatusCode() != http.StatusFound {
		return "", fmt.Errorf("failed to request latest release from Github: %v", res.Status())
	}

	locationHeader := res.Header().Get("Location")
	tagPrefix := repositoryUrl + releaseTagPathPrefix
	if !strings.HasPrefix(locationHeader, tagPrefix) {
		return "", fmt.Errorf("could not find latest release. redirected to %v", locationHeader)
	}

	return strings.TrimPrefix(locationHeader, tagPrefix), nil
}

// DownloadRelease streams the release asset into w.
// onSize is called with the content length (-1 if unknown) before the body is copied.
func DownloadRelease(ctx context.Context, downloadUrl string, w io.Writer, onSize func(size int64) io.Writer) error {
	res, err := resty.New().
		SetTimeout(downloadTimeout).
		R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(downloadUrl)
	if err != nil {
		return errors.Wrap(err, "failed to request download")
	}
	body := res.RawBody()
	defer body.Close()

	if res.StatusCode() != http.StatusOK {
		return fmt.Errorf("failed to download latest version: %s", res.Status())
	}

	target := w
	if onSize != nil {
		if progress := onSize(res.RawResponse.ContentLength); progress != nil {
			target = io.MultiWriter(w, progress)
		}
	}

	if _, err := io.Copy(target, body); err != nil {
		return errors.Wrap(err, "failed to download")
	}

	return nil
}
