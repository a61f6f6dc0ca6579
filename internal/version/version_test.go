package version

import "testing"

func TestUserAgent(t *testing.T) {
	if got := UserAgent("wbindicators"); got != "wbindicators/dev (unknown)" {
		t.Errorf("UserAgent = %q", got)
	}
}
