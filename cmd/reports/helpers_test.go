package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	internalcmd "github.com/fleetwatch/fleetwatch/internal/cmd"
	"github.com/fleetwatch/fleetwatch/internal/config"
	configcontext "github.com/fleetwatch/fleetwatch/internal/context"
	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/errors"
)

const (
	firstID  = "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b"
	secondID = "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5c"
)

var testTimestamp = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

type mockConfigLoader struct{}

func (m *mockConfigLoader) Load(_ string) (*config.Config, error) {
	return &config.Config{
		Environments: []config.EnvironmentEntry{{Name: "production"}, {Name: "staging"}},
	}, nil
}

type mockContextLoader struct{}

func (m *mockContextLoader) Load(_ string) (configcontext.Modifier, error) {
	return configcontext.NewSecretsConfig(""), nil
}

type mockBuilder struct {
	archiver *mockArchiver
}

func (m *mockBuilder) Build(hclog.Logger, *config.Config, configcontext.Getter) (*internalcmd.Components, error) {
	return &internalcmd.Components{Archiver: m.archiver}, nil
}

type mockArchiver struct {
	summaries []domain.ReportSummary
	reports   map[string]domain.Report
	err       error

	limit       int
	environment string
}

func (m *mockArchiver) Save(context.Context, domain.FleetStatus, string) (domain.Report, error) {
	return domain.Report{}, fmt.Errorf("not implemented")
}

func (m *mockArchiver) List(_ context.Context, limit int, environment string) ([]domain.ReportSummary, error) {
	m.limit = limit
	m.environment = environment
	if m.err != nil {
		return nil, m.err
	}
	return m.summaries, nil
}

func (m *mockArchiver) Get(_ context.Context, id string) (domain.Report, error) {
	if m.err != nil {
		return domain.Report{}, m.err
	}
	r, ok := m.reports[id]
	if !ok {
		return domain.Report{}, fmt.Errorf("%w: %s", errors.ErrReportNotFound, id)
	}
	return r, nil
}

func newTestBaseCmd() *internalcmd.BaseCmd {
	base := &internalcmd.BaseCmd{}
	base.SetLogger(hclog.NewNullLogger())
	return base
}
