package tidal

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goto/tidewatch/internal/errors"
)

// HTTPClient talks to the scheduler REST API. Transport and HTTP status
// failures are mapped to the domain error taxonomy here so nothing
// upstream has to inspect wire level detail.
type HTTPClient struct {
	client *http.Client
}

func NewHTTPClient(host string, timeout time.Duration) (*HTTPClient, error) {
	httpClient := &http.Client{Timeout: timeout}

	if strings.HasPrefix(host, "https") {
		certPool, err := x509.SystemCertPool()
		if err != nil {
			return nil, errors.InternalError(EntityTidal, "error reading system certificate", err)
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				RootCAs:    certPool,
				MinVersion: tls.VersionTLS12,
			},
		}
	}

	return &HTTPClient{client: httpClient}, nil
}

func (c *HTTPClient) Invoke(ctx context.Context, r tidalRequest, auth SchedulerAuth) ([]byte, error) {
	endpoint := strings.TrimSuffix(auth.host, "/") + "/" + r.path
	if r.query != "" {
		endpoint += "?" + r.query
	}

	request, err := http.NewRequestWithContext(ctx, r.method, endpoint, bytes.NewBuffer(r.body))
	if err != nil {
		return nil, errors.InternalError(EntityTidal, "unable to build scheduler request", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	if auth.username != "" {
		request.SetBasicAuth(auth.username, auth.password)
	}

	response, err := c.client.Do(request)
	if err != nil {
		return nil, toTransportError(err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.NewError(errors.ErrConnection, EntityTidal, "failed to read scheduler response: "+err.Error())
	}

	switch {
	case response.StatusCode >= 200 && response.StatusCode < 300:
		return body, nil
	case response.StatusCode == http.StatusUnauthorized:
		return nil, errors.NewError(errors.ErrUnauthenticated, EntityTidal, "authentication failed, check username and password")
	case response.StatusCode == http.StatusForbidden:
		return nil, errors.NewError(errors.ErrUnauthenticated, EntityTidal, "access denied, check user permissions")
	case response.StatusCode == http.StatusNotFound:
		return nil, errors.NotFound(EntityTidal, "scheduler endpoint not found: "+r.path)
	default:
		return nil, errors.InternalError(EntityTidal, "unexpected scheduler response: "+response.Status, nil)
	}
}

func toTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.NewError(errors.ErrTimeout, EntityTidal, "scheduler request timed out")
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return errors.NewError(errors.ErrTimeout, EntityTidal, "scheduler request timed out")
	}
	return errors.NewError(errors.ErrConnection, EntityTidal, "unable to reach scheduler: "+err.Error())
}
