// Package console renders probe results for a terminal. It only formats;
// running probes is the probe package's job.
package console

import (
	"fmt"
	"io"
	"strconv"

	"backend-probe/core/backend"
	"backend-probe/core/utils"
	"backend-probe/feature/probe"

	"github.com/pterm/pterm"
)

var (
	okStyle    = pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	warnStyle  = pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	errStyle   = pterm.NewStyle(pterm.FgRed, pterm.Bold)
	infoStyle  = pterm.NewStyle(pterm.FgLightCyan)
	mutedStyle = pterm.NewStyle(pterm.FgGray)
)

// Target prints the backend being probed with its key masked.
func Target(w io.Writer, creds backend.Credentials) {
	fmt.Fprintln(w, pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Backend probe"))
	fmt.Fprintf(w, "  endpoint: %s\n", creds.EndpointURL)
	fmt.Fprintf(w, "  role:     %s\n", creds.Role)
	fmt.Fprintf(w, "  key:      %s\n", utils.MaskSecret(creds.APIKey))
	fmt.Fprintln(w)
}

// Result prints one status line, plus the warning if any.
func Result(w io.Writer, r probe.Result) {
	label := string(r.Stage)
	switch {
	case r.OK() && r.Warning == "":
		fmt.Fprintf(w, "%s %s: %s\n", okStyle.Sprint("✓"), label, r.Message)
	case r.OK():
		fmt.Fprintf(w, "%s %s: %s\n", warnStyle.Sprint("!"), label, r.Message)
	case r.Outcome == probe.OutcomeNotFound:
		fmt.Fprintf(w, "%s %s: %s\n", infoStyle.Sprint("?"), label, r.Message)
	default:
		fmt.Fprintf(w, "%s %s [%s]: %s\n", errStyle.Sprint("✗"), label, r.Outcome, r.Message)
	}
	if r.Warning != "" {
		fmt.Fprintf(w, "  %s %s\n", warnStyle.Sprint("warning:"), r.Warning)
	}
}

// Report prints every result followed by a summary table.
func Report(w io.Writer, report probe.Report) error {
	for _, r := range report.Results {
		Result(w, r)
	}
	if len(report.Results) == 0 {
		return nil
	}

	data := pterm.TableData{{"Stage", "Target", "Outcome", "Latency"}}
	for _, r := range report.Results {
		data = append(data, []string{
			string(r.Stage),
			r.Target,
			outcomeLabel(r),
			strconv.FormatInt(r.LatencyMs, 10) + "ms",
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, table)
	return nil
}

// ConfigError prints a configuration failure with a hint on where to set it.
func ConfigError(w io.Writer, err *backend.ConfigError) {
	fmt.Fprintf(w, "%s %s\n", errStyle.Sprint("✗"), err.Error())
	fmt.Fprintln(w, mutedStyle.Sprintf("  set %s in the environment or in .env", err.Key))
}

func outcomeLabel(r probe.Result) string {
	switch {
	case r.OK() && r.Warning != "":
		return warnStyle.Sprint("success (warning)")
	case r.OK():
		return okStyle.Sprint(string(r.Outcome))
	case r.Outcome == probe.OutcomeNotFound:
		return infoStyle.Sprint(string(r.Outcome))
	default:
		return errStyle.Sprint(string(r.Outcome))
	}
}
