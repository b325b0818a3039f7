package stdlib

import (
	"testing"
	"time"

	"github.com/grug-lang/grug/interp"
)

func TestStringSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"basic text", "Hello World", "hello-world"},
		{"with punctuation", "Hello, World!", "hello-world"},
		{"multiple spaces", "  Multiple   Spaces  ", "multiple-spaces"},
		{"leading/trailing dashes", "---test---", "test"},
		{"numbers", "Post 123", "post-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := stringSlugify([]interp.Value{interp.String(tt.input)})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("stringSlugify(%q) = %q, want %q", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestStringLength(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"empty string", "", 0},
		{"ascii string", "hello", 5},
		{"unicode string", "你好世界", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := stringLength([]interp.Value{interp.String(tt.input)})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Number() != tt.want {
				t.Errorf("stringLength(%q) = %v, want %v", tt.input, got.Number(), tt.want)
			}
		})
	}
}

func TestStringContainsAndReplace(t *testing.T) {
	contains, err := stringContains([]interp.Value{interp.String("hello world"), interp.String("wor")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !contains.Bool() {
		t.Errorf("expected contains to be true")
	}

	replaced, err := stringReplace([]interp.Value{interp.String("a-a-a"), interp.String("a"), interp.String("b")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replaced.String() != "b-b-b" {
		t.Errorf("stringReplace = %q, want %q", replaced.String(), "b-b-b")
	}
}

func TestTimeAddDaysRoundTrip(t *testing.T) {
	start := time.Date(2025, time.October, 17, 0, 0, 0, 0, time.UTC)
	in := interp.Number(float64(start.Unix()))

	got, err := timeAddDays([]interp.Value{in, interp.Number(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := start.AddDate(0, 0, 3).Unix()
	if int64(got.Number()) != want {
		t.Errorf("timeAddDays = %v, want %v", got.Number(), want)
	}
}

func TestTimeFormat(t *testing.T) {
	stamp := time.Date(2025, time.October, 17, 14, 30, 0, 0, time.UTC)
	got, err := timeFormat([]interp.Value{interp.Number(float64(stamp.Unix())), interp.String("2006-01-02 15:04:05")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "2025-10-17 14:30:00" {
		t.Errorf("timeFormat = %q", got.String())
	}
}

func TestUUIDGenerateProducesDistinctStrings(t *testing.T) {
	a, err := uuidGenerate(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := uuidGenerate(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.String() == b.String() {
		t.Errorf("expected distinct uuids, got %q twice", a.String())
	}
	if len(a.String()) != 36 {
		t.Errorf("expected a 36-character uuid, got %q", a.String())
	}
}

func TestNewRegistersBareFnNames(t *testing.T) {
	pkg := New("std_")
	found := map[string]bool{}
	for _, fn := range pkg.Fns {
		found[fn.Name] = true
	}
	for _, name := range []string{"string_length", "string_slugify", "time_now", "uuid_generate"} {
		if !found[name] {
			t.Errorf("expected package to register %q", name)
		}
	}
}
