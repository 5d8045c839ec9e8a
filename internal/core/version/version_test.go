package version

import "testing"

func TestFor(t *testing.T) {
	t.Parallel()

	b := For(RetentionService)
	if b.Service != "roaming-retention" || b.Version == "" || b.Commit == "" || b.Date == "" {
		t.Fatalf("For = %+v", b)
	}
	if Info().Service != APIService {
		t.Fatalf("Info().Service = %q", Info().Service)
	}
}
