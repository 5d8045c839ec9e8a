package config

import (
	"reflect"
	"testing"
	"time"

	kit "roaming/internal/platform/testkit"
)

func TestPrefixNests(t *testing.T) {
	c := New().Prefix("CORE_").Prefix("RETENTION_")
	if got := c.key("DAYS"); got != "CORE_RETENTION_DAYS" {
		t.Fatalf("key = %q", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("PG_")
	t.Setenv("PG_DBURL", "  postgres://x  ")
	if got := c.MustString("DBURL"); got != "postgres://x" {
		t.Fatalf("MustString = %q", got)
	}
	t.Setenv("PG_BLANK", "   ")
	kit.MustPanic(t, func() { c.MustString("BLANK") })
	kit.MustPanic(t, func() { c.MustString("MISSING") })
}

func TestMayParsers(t *testing.T) {
	c := New().Prefix("T_")
	t.Setenv("T_INT", " 42 ")
	t.Setenv("T_INT_BAD", "forty")
	t.Setenv("T_BOOL", "true")
	t.Setenv("T_BOOL_BAD", "yep")
	t.Setenv("T_DUR", "90s")
	t.Setenv("T_DUR_BAD", "soon")
	t.Setenv("T_STR", " s ")

	if got := c.MayInt("INT", 1); got != 42 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayInt("INT_BAD", 7); got != 7 {
		t.Fatalf("MayInt bad = %d", got)
	}
	if got := c.MayInt("NONE", 3); got != 3 {
		t.Fatalf("MayInt missing = %d", got)
	}
	if !c.MayBool("BOOL", false) || !c.MayBool("BOOL_BAD", true) || c.MayBool("NONE", false) {
		t.Fatalf("MayBool mismatch")
	}
	if got := c.MayDuration("DUR", 0); got != 90*time.Second {
		t.Fatalf("MayDuration = %v", got)
	}
	if got := c.MayDuration("DUR_BAD", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration bad = %v", got)
	}
	if got := c.MayString("STR", "d"); got != "s" {
		t.Fatalf("MayString = %q", got)
	}
	if got := c.MayString("NONE", "d"); got != "d" {
		t.Fatalf("MayString missing = %q", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CSV_")
	t.Setenv("CSV_ORIGINS", " https://a.example , ,https://b.example ")
	t.Setenv("CSV_EMPTY", " , ")

	want := []string{"https://a.example", "https://b.example"}
	if got := c.MayCSV("ORIGINS", nil); !reflect.DeepEqual(got, want) {
		t.Fatalf("MayCSV = %v", got)
	}
	def := []string{"*"}
	if got := c.MayCSV("EMPTY", def); !reflect.DeepEqual(got, def) {
		t.Fatalf("MayCSV empty = %v", got)
	}
	if got := c.MayCSV("NONE", nil); got != nil {
		t.Fatalf("MayCSV missing = %v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("E_")
	t.Setenv("E_MODE", "ARCHIVE")
	t.Setenv("E_BAD", "purge")

	if got := c.MayEnum("MODE", "delete", "delete", "archive"); got != "archive" {
		t.Fatalf("MayEnum = %q", got)
	}
	if got := c.MayEnum("NONE", "delete", "delete", "archive"); got != "delete" {
		t.Fatalf("MayEnum default = %q", got)
	}
	kit.MustPanic(t, func() { c.MayEnum("BAD", "delete", "delete", "archive") })
}
