package cli

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/renci-ner/annotation"
)

// parseProps turns repeated key=value flags into Props. Values stay strings;
// annotators coerce them through the Props accessors.
func parseProps(flag string, pairs []string) (annotation.Props, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	props := make(annotation.Props, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --%s %q: want key=value", flag, pair)
		}
		props[key] = value
	}
	return props, nil
}
