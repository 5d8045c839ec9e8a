package testkit

import "testing"

var seam = func() string { return "real" }

func TestMustPanic(t *testing.T) {
	if got := MustPanic(t, func() { panic("boom") }); got != "boom" {
		t.Fatalf("recovered %v", got)
	}
}

func TestMustContain(t *testing.T) {
	MustContain(t, `{"level":"warn","slow":true}`, `"slow":true`)
}

func TestSwap(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &seam, func() string { return "fake" })
		if seam() != "fake" {
			t.Fatalf("seam not swapped")
		}
	})
	if seam() != "real" {
		t.Fatalf("seam not restored")
	}
}
