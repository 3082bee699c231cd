// Package httpcatalog reads programs and projects from the remote JSON data API.
package httpcatalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/evisdrenova/zonaei-skill/internal/catalog"
)

const DefaultBaseURL = "https://alexa-conecta.herokuapp.com/api"

// maxBody caps how much of a reply is read; records are a few hundred bytes.
const maxBody = 1 << 20

type Options struct {
	BaseURL  string
	Timeout  time.Duration
	RetryMax int
}

type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

var _ catalog.Catalog = (*Client)(nil)

func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		baseURL: base,
		http:    newRetryClient(opts.RetryMax, opts.Timeout),
	}
}

func newRetryClient(retryMax int, timeout time.Duration) *retryablehttp.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryMax
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = time.Second
	if timeout > 0 {
		retryClient.HTTPClient.Timeout = timeout
	}
	retryClient.Logger = stdlog.New(io.Discard, "", stdlog.LstdFlags)
	retryClient.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		log.Trace().
			Str(req.Method, req.URL.String()).
			Int("attempt", attempt).
			Msg("catalog request")
	}
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if resp == nil {
			return true, err
		}
		return resp.StatusCode >= 500, nil
	}
	// hand the last response back instead of a generic "giving up" error
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return retryClient
}

func (c *Client) ProgramByName(ctx context.Context, name string) (*catalog.Program, error) {
	var p *catalog.Program
	if err := c.get(ctx, "/program/name", url.Values{"name": {name}}, &p); err != nil {
		return nil, fmt.Errorf("program %q: %w", name, err)
	}
	return p, nil
}

func (c *Client) ProjectsByStage(ctx context.Context, stage string) ([]catalog.Project, error) {
	var ps []catalog.Project
	if err := c.get(ctx, "/project/stage", url.Values{"stage": {stage}}, &ps); err != nil {
		return nil, fmt.Errorf("projects for stage %q: %w", stage, err)
	}
	return ps, nil
}

func (c *Client) ProjectByName(ctx context.Context, name string) (*catalog.Project, error) {
	var p *catalog.Project
	if err := c.get(ctx, "/project/name", url.Values{"name": {name}}, &p); err != nil {
		return nil, fmt.Errorf("project %q: %w", name, err)
	}
	return p, nil
}

// get decodes the JSON reply into out, which must be a pointer to a pointer or
// slice so that a null body or a 404 leaves it nil.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path + "?" + query.Encode()
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: GET %s: %d", catalog.ErrUnexpectedStatus, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
