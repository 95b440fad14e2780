package logfields

import (
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Path", KeyPath, "content/a.mdx", Path("content/a.mdx")},
		{"Rule", KeyRule, "components", Rule("components")},
		{"Code", KeyCode, "DuplicateTag", Code("DuplicateTag")},
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Component", KeyComponent, "Callout", Component("Callout")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestNumericHelpers verifies keys for numeric & float helpers.
func TestNumericHelpers(t *testing.T) {
	if v := Line(3); v.Key != KeyLine || v.Value.Int64() != 3 {
		t.Fatalf("Line mismatch: %v", v)
	}
	if v := Files(10); v.Key != KeyFiles {
		t.Fatalf("Files key mismatch: %s", v.Key)
	}
	if v := Issues(2); v.Key != KeyIssues {
		t.Fatalf("Issues key mismatch: %s", v.Key)
	}
	if v := Workers(4); v.Key != KeyWorkers {
		t.Fatalf("Workers key mismatch: %s", v.Key)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS {
		t.Fatalf("DurationMS key mismatch: %s", v.Key)
	}
	if v := Since(time.Now().Add(-time.Second)); v.Key != KeyDurationMS || v.Value.Float64() < 1000 {
		t.Fatalf("Since mismatch: %v", v)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError {
		t.Fatalf("Error key mismatch: %s", attr.Key)
	}
	if attr.Value.String() != "" {
		t.Fatalf("Expected empty error string, got %s", attr.Value.String())
	}
	attr = Error(errTest{})
	if attr.Value.String() != "err-test" {
		t.Fatalf("Expected 'err-test', got %s", attr.Value.String())
	}
}

type errTest struct{}

func (e errTest) Error() string { return "err-test" }
