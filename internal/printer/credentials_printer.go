package printer

import (
	"fmt"
	"io"

	"github.com/fleetwatch/fleetwatch/internal/cmd/output"
)

var _ output.Printer[CredentialsResult] = (*CredentialsPrinter)(nil)

// CredentialsResult describes the credentials stored for an environment without revealing the password.
type CredentialsResult struct {
	Environment string `json:"environment" yaml:"environment"`
	Username    string `json:"username"    yaml:"username"`
	PasswordSet bool   `json:"passwordSet" yaml:"passwordSet"`
}

type CredentialsPrinter struct {
	headerFunc output.WriteFunc[CredentialsResult]
	footerFunc output.WriteFunc[CredentialsResult]
}

func (p *CredentialsPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *CredentialsPrinter) SetHeader(fn output.WriteFunc[CredentialsResult]) {
	p.headerFunc = fn
}

func (p *CredentialsPrinter) Item(w io.Writer, c CredentialsResult) error {
	username := c.Username
	if username == "" {
		username = "(not set)"
	}
	password := "(not set)"
	if c.PasswordSet {
		password = "********"
	}

	_, _ = fmt.Fprintf(w, "%s\n  Username: %s\n  Password: %s\n", c.Environment, username, password)

	return nil
}

func (p *CredentialsPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *CredentialsPrinter) SetFooter(fn output.WriteFunc[CredentialsResult]) {
	p.footerFunc = fn
}
