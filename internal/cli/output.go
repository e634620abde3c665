package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/fanout/internal/config"
	"github.com/agbru/fanout/internal/ui"
)

// PrintExecutionConfig displays the run configuration in verbose mode.
// maxWorkers is the effective cap after platform limits were applied.
func PrintExecutionConfig(cfg config.AppConfig, maxWorkers int, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Running %s%d%s workers: %s\n",
		ui.ColorPrimary(), len(cfg.Items), ui.ColorReset(), strings.Join(quoteAll(cfg.Items), ", "))
	fmt.Fprintf(out, "Worker cap: %s%s%s.\n", ui.ColorYellow(), describeCap(maxWorkers), ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorPrimary(), runtime.NumCPU(), ui.ColorReset(), ui.ColorPrimary(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

func describeCap(n int) string {
	if n <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d", n)
}

func quoteAll(labels []string) []string {
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = fmt.Sprintf("%q", l)
	}
	return quoted
}
