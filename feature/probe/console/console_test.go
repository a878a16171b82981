package console

import (
	"bytes"
	"testing"

	"backend-probe/core/backend"
	"backend-probe/feature/probe"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	pterm.DisableStyling()
}

func TestTarget_MasksKey(t *testing.T) {
	var buf bytes.Buffer
	Target(&buf, backend.Credentials{EndpointURL: "https://x.supabase.co", APIKey: "eyJhbGciOiJIUzI1NiJ9.secret", Role: backend.RoleAnon})

	out := buf.String()
	assert.Contains(t, out, "https://x.supabase.co")
	assert.Contains(t, out, "eyJhbG***")
	assert.NotContains(t, out, "secret")
}

func TestResult(t *testing.T) {
	tests := []struct {
		name   string
		result probe.Result
		want   []string
	}{
		{"Success", probe.Result{Stage: probe.StageAuth, Outcome: probe.OutcomeSuccess, Message: "auth ok"}, []string{"auth_check: auth ok"}},
		{"Warning", probe.Result{Stage: probe.StageRoundTrip, Outcome: probe.OutcomeSuccess, Message: "round trip ok", Warning: "cleanup failed"}, []string{"round trip ok", "warning: cleanup failed"}},
		{"Failure", probe.Result{Stage: probe.StageTable, Outcome: probe.OutcomeSchemaMismatch, Message: "column department does not exist"}, []string{"[schema_mismatch]", "department"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Result(&buf, tt.result)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestReport_SummaryTable(t *testing.T) {
	var buf bytes.Buffer
	err := Report(&buf, probe.Report{Results: []probe.Result{
		{Stage: probe.StageAuth, Outcome: probe.OutcomeSuccess, Message: "ok", LatencyMs: 12},
		{Stage: probe.StageTable, Target: "employees", Outcome: probe.OutcomeNotFound, Message: "missing"},
	}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Stage")
	assert.Contains(t, out, "employees")
	assert.Contains(t, out, "12ms")
	assert.Contains(t, out, "not_found")
}

func TestConfigError(t *testing.T) {
	var buf bytes.Buffer
	ConfigError(&buf, &backend.ConfigError{Key: "SUPABASE_URL", Reason: "is not set"})
	assert.Contains(t, buf.String(), "SUPABASE_URL is not set")
	assert.Contains(t, buf.String(), "set SUPABASE_URL")
}
