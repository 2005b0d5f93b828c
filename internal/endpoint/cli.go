package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/mgmt"
)

// CommandRunner runs an executable and returns its stdout and stderr.
type CommandRunner func(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)

// CLIClient shells out to the management CLI script (e.g. jboss-cli.sh) in connect mode.
// NewCLIClient should be used to create instances of CLIClient.
type CLIClient struct {
	logger  hclog.Logger
	path    string
	timeout time.Duration
	run     CommandRunner
}

// authFailureMarkers are fragments the CLI prints when the controller rejects credentials.
var authFailureMarkers = []string{
	"authentication failed",
	"unable to authenticate",
	"unauthorized",
}

// NewCLIClient creates a management CLI client.
func NewCLIClient(logger hclog.Logger, opt ...Option) (*CLIClient, error) {
	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	return &CLIClient{
		logger:  logger.Named("cli"),
		path:    opts.CLIPath,
		timeout: opts.RequestTimeout,
		run:     opts.CommandRunner,
	}, nil
}

// Execute runs the command through the management CLI and decodes its JSON output.
func (c *CLIClient) Execute(
	ctx context.Context,
	host string,
	port int,
	command string,
	creds domain.Credentials,
) (mgmt.Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := []string{
		"-c",
		"--controller=" + net.JoinHostPort(host, strconv.Itoa(port)),
		"--command=" + command,
		"--output-json",
	}
	if creds.Complete() {
		args = append(args, "--user="+creds.Username, "--password="+creds.Password)
	}

	c.logger.Trace("Executing management CLI command", "host", host, "port", port, "command", command)

	stdout, stderr, err := c.run(ctx, c.path, args...)

	// The CLI exits non-zero for failed operations but still prints the outcome.
	if reply, ok := decodeCLIOutput(stdout); ok {
		return reply, nil
	}

	if ctx.Err() != nil {
		return mgmt.Reply{}, classify(ctx, host, port, ctx.Err())
	}

	if err == nil {
		return mgmt.Reply{Succeeded: true, Payload: strings.TrimSpace(string(stdout))}, nil
	}

	message := strings.TrimSpace(string(stderr))
	if message == "" {
		message = strings.TrimSpace(string(stdout))
	}
	lower := strings.ToLower(message)
	for _, marker := range authFailureMarkers {
		if strings.Contains(lower, marker) {
			return mgmt.Reply{}, &TransportError{
				Kind: ErrorKindUnauthorized,
				Host: host,
				Port: port,
				Err:  errors.New(message),
			}
		}
	}

	if message != "" {
		err = fmt.Errorf("%w: %s", err, message)
	}

	return mgmt.Reply{}, &TransportError{Kind: ErrorKindUnreachable, Host: host, Port: port, Err: err}
}

// decodeCLIOutput extracts a reply from the CLI's JSON outcome envelope.
func decodeCLIOutput(stdout []byte) (mgmt.Reply, bool) {
	trimmed := bytes.TrimSpace(stdout)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return mgmt.Reply{}, false
	}

	var envelope managementResponse
	if err := json.Unmarshal(trimmed, &envelope); err != nil || envelope.Outcome == "" {
		return mgmt.Reply{}, false
	}

	return envelope.reply(), true
}

// execRunner is the default CommandRunner backed by os/exec.
func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Stdin = nil

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
