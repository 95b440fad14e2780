package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveFileDuration(2 * time.Millisecond)
	pr.ObserveRunDuration(150 * time.Millisecond)
	pr.IncFileResult(ResultError)
	pr.IncIssue("frontmatter-schema", "DuplicateTag")
	pr.IncRunOutcome("errors")
	pr.SetWorkers(4)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, mfs, 6)
	require.Same(t, reg, pr.Registry())
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveFileDuration(time.Second)
	pr.IncIssue("a", "b")
	pr.SetWorkers(1)
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncIssue("components", "UnknownComponent")
	pr.IncIssue("components", "UnknownComponent")

	path := filepath.Join(t.TempDir(), "mdxcheck.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data),
		`mdxcheck_issues_total{code="UnknownComponent",rule="components"} 2`), string(data))
}
