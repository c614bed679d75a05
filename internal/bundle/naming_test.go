package bundle

import (
	"strings"
	"testing"
)

const ts = "20240105_143000"

func TestOutputName_ShortNamesPassThrough(t *testing.T) {
	got := OutputName("Trial Bundle", "Smith v Jones", ts, "")
	want := "Trial_Bundle_Smith_v_Jones_" + ts + ".pdf"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestOutputName_TruncatesTitleFirst(t *testing.T) {
	title := strings.Repeat("T", 90)
	got := OutputName(title, "Smith v Jones", ts, "")
	if len(got) > maxNameLen {
		t.Fatalf("name still too long: %d", len(got))
	}
	if !strings.HasPrefix(got, strings.Repeat("T", 20)+"_") {
		t.Errorf("expected 20-rune title prefix, got %q", got)
	}
}

func TestOutputName_TruncatesBothParts(t *testing.T) {
	title := strings.Repeat("T", 90)
	caseName := strings.Repeat("C", 90)
	got := OutputName(title, caseName, ts, "Hearing")
	want := strings.Repeat("T", 30) + "_" + strings.Repeat("C", 30) + "_" + ts + ".pdf"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if len(got) > maxNameLen {
		t.Errorf("name still too long: %d", len(got))
	}
}

// The last two cascade stages only fire when even the doubly truncated name
// is too long, which takes an oversized timestamp.
func TestOutputName_DeepFallbacks(t *testing.T) {
	longTS := strings.Repeat("9", 40)
	title := strings.Repeat("T", 90)
	caseName := strings.Repeat("C", 90)

	got := OutputName(title, caseName, longTS, "Hearing")
	if want := "Hearing_" + longTS + ".pdf"; got != want {
		t.Errorf("expected fallback label name %q, got %q", want, got)
	}

	got = OutputName(title, caseName, longTS, strings.Repeat("F", 120))
	if want := longTS + ".pdf"; got != want {
		t.Errorf("expected bare timestamp name %q, got %q", want, got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "passwd"},
		{"witness statement.pdf", "witness_statement.pdf"},
		{"exhibit:A?.pdf", "exhibitA.pdf"},
		{"", "unnamed"},
	}
	for _, c := range cases {
		if got := SanitizeFilename(c.in); got != c.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
