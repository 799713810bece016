package dwjdbc

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/clove1126/dw-jdbc/internal/spool"
	"github.com/clove1126/dw-jdbc/internal/tasks"
)

const (
	// parameterMarker is the required prefix of a named bound parameter.
	parameterMarker = '$'

	// maxReadTimeout and maxConnectTimeout are hard caps; callers can only
	// shrink them, never exceed them.
	maxReadTimeout    = 60 * time.Second
	maxConnectTimeout = 5 * time.Second

	// defaultSpillThreshold is where the streaming buffer moves from
	// memory to a temporary file.
	defaultSpillThreshold = 16384
)

// QueryRequest describes one query execution. Zero values mean "absent":
// MaxRows of 0 sends no row cap, TimeoutSeconds of 0 uses the defaults.
type QueryRequest struct {
	// Query is the raw query text.
	Query string
	// Parameters maps parameter names (starting with '$', length > 1) to
	// term values. A nil value means the parameter is declared but unbound
	// and is omitted from the request.
	Parameters map[string]Node
	// MaxRows caps the number of rows the server should return.
	MaxRows int
	// TimeoutSeconds is the caller-requested timeout. It can only shrink
	// the effective bounds of 60s read / 5s connect.
	TimeoutSeconds int
}

// Client executes queries against a remote query endpoint over HTTP. It is
// safe for concurrent use; each call gets its own connection and exactly
// one background drain task from a pool scoped to this instance.
type Client struct {
	endpoint        *url.URL
	userAgent       string
	authToken       string
	parsers         []StreamParser
	spillThreshold  int
	transport       http.RoundTripper
	pool            *tasks.Pool
	metrics         *MetricsCollector
	logger          Logger
	debug           bool
	closed          atomic.Bool
	validationError error
}

// New constructs a Client for the given query endpoint using the provided
// functional options. A best effort validation is performed; call
// IsValid / ValidationError for errors.
func New(endpoint string, options ...Option) *Client {
	client := &Client{
		userAgent:      "dw-jdbc-go/" + Version,
		parsers:        StandardParsers(),
		spillThreshold: defaultSpillThreshold,
		pool:           tasks.NewPool("dw-jdbc"),
	}

	parsed, err := url.Parse(endpoint)
	if err == nil && parsed.Host == "" {
		err = fmt.Errorf("endpoint %q has no host", endpoint)
	}
	client.endpoint = parsed

	for _, option := range options {
		option(client)
	}

	if err == nil {
		err = client.ValidateConfiguration()
	}
	if err != nil {
		client.validationError = &QueryError{
			Type:    ErrorTypeValidation,
			Phase:   PhaseRequest,
			Message: "configuration validation failed",
			Cause:   err,
		}
	}

	return client
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// Close shuts down the client's drain task pool. New calls fail with
// ErrClientClosed; drain tasks already running are left to finish. Safe to
// call more than once.
func (c *Client) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		c.pool.Close()
	}
	return nil
}

// ExecuteQuery sends the query and returns the parsed result. Failures are
// surfaced as a *QueryError classified by type and phase; the response
// stream, drain task and any spill file are released on every path.
func (c *Client) ExecuteQuery(ctx context.Context, req QueryRequest) (*Response, error) {
	if c.validationError != nil {
		return nil, c.validationError
	}
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}

	body, err := c.encodeForm(req)
	if err != nil {
		return nil, err
	}

	readTimeout, connectTimeout := resolveTimeouts(req.TimeoutSeconds)

	if c.debug && c.logger != nil {
		c.logger.Debug("executing query", "endpoint", c.endpoint.String(),
			"readTimeout", readTimeout, "connectTimeout", connectTimeout, "bodyBytes", len(body))
	}

	start := time.Now()
	if c.metrics != nil {
		c.metrics.RecordQueryStart()
	}
	resp, qerr := c.post(ctx, body, readTimeout, connectTimeout)
	if c.metrics != nil {
		c.metrics.RecordQueryEnd()
		c.metrics.RecordQuery(statusCodeOf(qerr, resp), time.Since(start))
		if qerr != nil {
			c.metrics.RecordError(errorTypeOf(qerr))
		}
	}
	return resp, qerr
}

// encodeForm builds the form-encoded request body: query first, then bound
// parameters sorted by name, then the optional row cap. Every parameter
// name is validated before any network activity, bound or not.
func (c *Client) encodeForm(req QueryRequest) ([]byte, error) {
	names := make([]string, 0, len(req.Parameters))
	for name := range req.Parameters {
		if len(name) < 2 || name[0] != parameterMarker {
			return nil, &QueryError{
				Type:     ErrorTypeInvalidArgument,
				Phase:    PhaseRequest,
				Endpoint: c.endpoint.String(),
				Message:  fmt.Sprintf("illegal parameter name: %s", name),
			}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var buf strings.Builder
	buf.WriteString("query=")
	buf.WriteString(url.QueryEscape(req.Query))
	for _, name := range names {
		value := req.Parameters[name]
		if value == nil {
			continue
		}
		buf.WriteByte('&')
		buf.WriteString(url.QueryEscape(name))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(value.String()))
	}
	if req.MaxRows > 0 {
		buf.WriteString("&maxRowsReturned=")
		buf.WriteString(strconv.Itoa(req.MaxRows))
	}
	return []byte(buf.String()), nil
}

// resolveTimeouts applies the timeout policy: readTimeout = min(T ?? 60, 60),
// connectTimeout = min(readTimeout, 5). Non-positive T means "absent".
func resolveTimeouts(timeoutSeconds int) (read, connect time.Duration) {
	read = maxReadTimeout
	if timeoutSeconds > 0 && time.Duration(timeoutSeconds)*time.Second < maxReadTimeout {
		read = time.Duration(timeoutSeconds) * time.Second
	}
	connect = maxConnectTimeout
	if read < connect {
		connect = read
	}
	return read, connect
}

func (c *Client) post(ctx context.Context, body []byte, readTimeout, connectTimeout time.Duration) (*Response, error) {
	httpClient := c.newHTTPClient(readTimeout, connectTimeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, c.failure(ErrorTypeUnexpected, PhaseRequest, 0,
			fmt.Sprintf("building HTTP request to '%s'", c.endpoint), err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
	req.Header.Set("Accept", acceptHeader(c.parsers))
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", c.userAgent)
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, c.failure(ErrorTypeTransport, PhaseRequest, 0,
			fmt.Sprintf("I/O exception while making HTTP request to server: %s", c.endpoint), err)
	}

	status := resp.StatusCode
	message := statusMessage(resp)
	contentType := trimHeader(resp.Header.Get("Content-Type"))

	if c.debug && c.logger != nil {
		c.logger.Debug("response received", "status", status, "contentType", contentType)
	}

	// Check for errors, eg. 401 Unauthorized etc.
	if status >= 400 {
		detail := extractErrorDetail(resp.Body, contentType)
		msg := fmt.Sprintf("HTTP request to '%s' failed with response %d: %s", c.endpoint, status, message)
		if detail != "" {
			msg += "; " + detail
		}
		return nil, c.failure(ErrorTypeHTTPStatus, PhaseResponse, status, msg, nil)
	}

	// The endpoint isn't expected to return redirects or other 2xx, 3xx
	// responses, and they are never followed.
	if status != http.StatusOK {
		resp.Body.Close()
		return nil, c.failure(ErrorTypeHTTPStatus, PhaseResponse, status,
			fmt.Sprintf("HTTP request to '%s' failed with unexpected response %d: %s", c.endpoint, status, message), nil)
	}

	chain := newCloseChain(resp.Body)
	defer chain.Close()

	// Drain the body as fast as possible so the connection is released
	// independently of how quickly the parser consumes it.
	spooled, err := spool.New(resp.Body, c.spillThreshold, c.pool)
	if err != nil {
		return nil, c.failure(ErrorTypeUnexpected, PhaseResponse, 0,
			fmt.Sprintf("starting response drain for server: %s", c.endpoint), err)
	}
	chain.set(spooled)
	var in io.ReadCloser = spooled
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordResponseBytes(spooled.Size(), spooled.Spilled())
		}
	}()

	if trimHeader(resp.Header.Get("Content-Encoding")) == "gzip" {
		gz, err := gzip.NewReader(bufio.NewReader(in))
		if err != nil {
			return nil, c.failure(ErrorTypeTransport, PhaseResponse, 0,
				fmt.Sprintf("I/O exception while parsing HTTP response from server: %s", c.endpoint), err)
		}
		layered := &layeredReadCloser{Reader: gz, outer: gz, inner: in}
		chain.set(layered)
		in = layered
	}

	parser := selectParser(c.parsers, contentType)
	if parser == nil {
		return nil, c.failure(ErrorTypeUnsupportedContentType, PhaseParse, 0,
			fmt.Sprintf("HTTP request to '%s' failed with unexpected content type: %s", c.endpoint, contentType), nil)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("parser selected", "contentType", contentType, "drainTask", spooled.Task())
	}

	// The parser becomes responsible for closing the stream. The chain
	// stays armed until it succeeds; every Close in the stack is safe to
	// repeat, so a parser failure cannot leak and cannot double-free.
	result, perr := parser.Parse(in, contentType)
	if perr != nil {
		return nil, c.failure(ErrorTypeParse, PhaseParse, 0,
			fmt.Sprintf("error parsing HTTP response from server: %s", c.endpoint), perr)
	}
	chain.detach()
	return result, nil
}

// newHTTPClient builds the single-use client for one call: connect bound
// by the dialer timeout, the whole exchange bound by the read timeout, no
// connection reuse across calls, no transparent decompression and no
// redirect following.
func (c *Client) newHTTPClient(readTimeout, connectTimeout time.Duration) *http.Client {
	transport := c.transport
	if transport == nil {
		transport = &http.Transport{
			DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
			ResponseHeaderTimeout: readTimeout,
			DisableKeepAlives:     true,
			DisableCompression:    true,
		}
	}
	return &http.Client{
		Transport: transport,
		Timeout:   readTimeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (c *Client) failure(errType string, phase Phase, status int, message string, cause error) *QueryError {
	if c.debug && c.logger != nil {
		c.logger.Warn("query failed", "type", errType, "phase", string(phase), "message", message, "cause", cause)
	}
	return &QueryError{
		Type:       errType,
		Phase:      phase,
		Endpoint:   c.endpoint.String(),
		Message:    message,
		StatusCode: status,
		Cause:      cause,
	}
}

// layeredReadCloser reads through an outer transform (decompression) and
// closes outer then inner, so closing the top of the chain cascades.
type layeredReadCloser struct {
	io.Reader
	outer io.Closer
	inner io.Closer
}

func (l *layeredReadCloser) Close() error {
	err := l.outer.Close()
	if ierr := l.inner.Close(); err == nil {
		err = ierr
	}
	return err
}

// statusMessage extracts the reason phrase from a response status line.
func statusMessage(resp *http.Response) string {
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
}

func statusCodeOf(err error, resp *Response) int {
	if err == nil && resp != nil {
		return http.StatusOK
	}
	if qerr, ok := err.(*QueryError); ok {
		return qerr.StatusCode
	}
	return 0
}

func errorTypeOf(err error) string {
	if qerr, ok := err.(*QueryError); ok {
		return qerr.Type
	}
	return ErrorTypeUnexpected
}
