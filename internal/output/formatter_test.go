package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	// Disable color for tests
	color.NoColor = true
}

// capture redirects both streams during f and returns what was written
func capture(t *testing.T, f func()) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	SetWriters(&out, &errOut)
	defer SetWriters(nil, nil)
	f()
	return out.String(), errOut.String()
}

func TestJSON(t *testing.T) {
	t.Run("struct", func(t *testing.T) {
		type step struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		}

		out, _ := capture(t, func() {
			_ = JSON(step{Name: "fetch", Status: "ok"})
		})

		var result step
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("JSON output is invalid: %v", err)
		}
		if result.Name != "fetch" || result.Status != "ok" {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("indented", func(t *testing.T) {
		out, _ := capture(t, func() {
			_ = JSON(map[string]interface{}{"success": true})
		})
		if !strings.Contains(out, "\n  \"success\": true") {
			t.Errorf("expected two-space indent, got %q", out)
		}
	})
}

func TestTable(t *testing.T) {
	t.Run("basic table", func(t *testing.T) {
		out, _ := capture(t, func() {
			Table([]string{"STEP", "STATUS"}, [][]string{
				{"fetch", "ok"},
				{"stop-service", "failed"},
			})
		})

		for _, want := range []string{"STEP", "STATUS", "fetch", "stop-service", "failed"} {
			if !strings.Contains(out, want) {
				t.Errorf("output should contain %q:\n%s", want, out)
			}
		}
	})

	t.Run("empty headers", func(t *testing.T) {
		out, _ := capture(t, func() {
			Table([]string{}, [][]string{{"data"}})
		})
		if out != "" {
			t.Errorf("expected no output for empty headers, got %s", out)
		}
	})

	t.Run("empty rows", func(t *testing.T) {
		out, _ := capture(t, func() {
			Table([]string{"COL1", "COL2"}, nil)
		})
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 2 {
			t.Errorf("expected 2 lines (header + separator), got %d", len(lines))
		}
	})

	t.Run("uneven columns", func(t *testing.T) {
		out, _ := capture(t, func() {
			Table([]string{"COL1", "COL2", "COL3"}, [][]string{
				{"a", "b"},
				{"x", "y", "z", "w"},
			})
		})
		if strings.Contains(out, "w") {
			t.Error("extra columns should be ignored")
		}
	})

	t.Run("column alignment", func(t *testing.T) {
		out, _ := capture(t, func() {
			Table([]string{"SHORT", "LONGHEADER"}, [][]string{{"a", "b"}})
		})
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if !strings.HasPrefix(lines[2], "a      b") {
			t.Errorf("row not aligned with header: %q", lines[2])
		}
	})
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(string, ...interface{})
		symbol string
		toErr  bool
	}{
		{"success", Success, "✓", false},
		{"error", Error, "✗", true},
		{"warn", Warn, "!", false},
		{"info", Info, "→", false},
		{"print", Print, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut := capture(t, func() {
				tt.fn("Imported %s into %s", "cert.pfx", "keystore.jks")
			})

			got, other := out, errOut
			if tt.toErr {
				got, other = errOut, out
			}
			if !strings.Contains(got, "Imported cert.pfx into keystore.jks") {
				t.Errorf("expected formatted message, got %q", got)
			}
			if tt.symbol != "" && !strings.HasPrefix(got, tt.symbol) {
				t.Errorf("expected %q prefix, got %q", tt.symbol, got)
			}
			if other != "" {
				t.Errorf("message written to the wrong stream: %q", other)
			}
		})
	}
}
