package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/icholy/digest"

	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/mgmt"
)

// maxResponseBytes caps how much of a management response is read.
const maxResponseBytes = 8 << 20

// HTTPClient talks to the HTTP management interface using JSON (DMR) operations.
// Credentials are sent as HTTP basic auth, and Digest challenges (the default for a
// ManagementRealm) are answered with the same credentials.
// NewHTTPClient should be used to create instances of HTTPClient.
type HTTPClient struct {
	logger  hclog.Logger
	client  *http.Client
	scheme  string
	path    string
	timeout time.Duration

	mu sync.Mutex
	// digests holds one transport per credentials so Digest challenges are reused across requests.
	digests map[domain.Credentials]*digest.Transport
}

// managementResponse is the envelope returned by the HTTP management interface.
type managementResponse struct {
	Outcome            string `json:"outcome"`
	Result             any    `json:"result"`
	FailureDescription any    `json:"failure-description"`
}

// NewHTTPClient creates an HTTP management client.
func NewHTTPClient(logger hclog.Logger, opt ...Option) (*HTTPClient, error) {
	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := opts.HTTPClient
	if c == nil {
		c = &http.Client{}
	}

	return &HTTPClient{
		logger:  logger.Named("http"),
		client:  c,
		scheme:  opts.Scheme,
		path:    opts.ManagementPath,
		timeout: opts.RequestTimeout,
		digests: make(map[domain.Credentials]*digest.Transport),
	}, nil
}

// clientFor returns the client used for requests made with creds.
func (c *HTTPClient) clientFor(creds domain.Credentials) *http.Client {
	if !creds.Complete() {
		return c.client
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.digests[creds]
	if !ok {
		t = &digest.Transport{
			Username:  creds.Username,
			Password:  creds.Password,
			Transport: c.client.Transport,
		}
		c.digests[creds] = t
	}

	return &http.Client{
		Transport:     t,
		CheckRedirect: c.client.CheckRedirect,
		Jar:           c.client.Jar,
		Timeout:       c.client.Timeout,
	}
}

// Execute translates the command into a management operation and posts it to the endpoint.
func (c *HTTPClient) Execute(
	ctx context.Context,
	host string,
	port int,
	command string,
	creds domain.Credentials,
) (mgmt.Reply, error) {
	op, err := mgmt.ParseOperation(command)
	if err != nil {
		return mgmt.Reply{}, err
	}

	body, err := json.Marshal(op)
	if err != nil {
		return mgmt.Reply{}, fmt.Errorf("failed to encode operation: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := url.URL{
		Scheme: c.scheme,
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   c.path,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return mgmt.Reply{}, fmt.Errorf("failed to create management request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if creds.Complete() {
		req.SetBasicAuth(creds.Username, creds.Password)
	}

	c.logger.Trace("Executing management operation", "host", host, "port", port, "command", command)

	resp, err := c.clientFor(creds).Do(req)
	if err != nil {
		return mgmt.Reply{}, classify(ctx, host, port, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return mgmt.Reply{}, &TransportError{
			Kind: ErrorKindUnauthorized,
			Host: host,
			Port: port,
			Err:  fmt.Errorf("management interface returned HTTP %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return mgmt.Reply{}, classify(ctx, host, port, err)
	}

	var envelope managementResponse
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Outcome == "" {
		return mgmt.Reply{
			Succeeded: false,
			Payload:   fmt.Sprintf("unexpected management response (HTTP %d)", resp.StatusCode),
		}, nil
	}

	return envelope.reply(), nil
}

// reply converts the envelope into a Reply, keeping the failure description for failed outcomes.
func (r managementResponse) reply() mgmt.Reply {
	if r.Outcome == "success" {
		return mgmt.Reply{Succeeded: true, Payload: r.Result}
	}

	description := "operation failed"
	if r.FailureDescription != nil {
		description = fmt.Sprint(r.FailureDescription)
	}

	return mgmt.Reply{
		Succeeded: false,
		Payload: map[string]any{
			"outcome":             r.Outcome,
			"failure-description": description,
		},
	}
}
