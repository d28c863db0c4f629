package resolve

import (
	"strings"

	"github.com/roach88/procgen/internal/ginconf"
)

// SanitizeOverride quotes the value of a `key=value` override when the value
// is not a literal and not a reference, so `scene.name=forest` becomes
// `scene.name="forest"`. Overrides with no '=' or with any quote or bracket
// character anywhere are assumed to be well formed and returned unchanged.
func SanitizeOverride(override string) string {
	if !strings.Contains(override, "=") || strings.ContainsAny(override, `"'[]`) {
		return override
	}
	k, v, _ := strings.Cut(override, "=")
	if _, err := ginconf.EvalLiteral(v); err != nil && !strings.Contains(v, "@") {
		return k + `="` + v + `"`
	}
	return override
}
