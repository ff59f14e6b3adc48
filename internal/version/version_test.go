package version

import "testing"

func TestString(t *testing.T) {
	got := String()
	if got == "" {
		t.Fatal("String() returned empty")
	}
	// Defaults apply when ldflags are absent
	want := "dev (unknown) built unknown"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
