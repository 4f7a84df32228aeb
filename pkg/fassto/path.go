package fassto

import (
	"net/url"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{([^{}/]+)\}`)

// expandPath replaces every {name} placeholder with the URL-encoded value of
// params[name]. Placeholders without a value stay verbatim.
func expandPath(template string, params map[string]string) string {
	if len(params) == 0 {
		return template
	}
	expanded := template
	for name, value := range params {
		expanded = strings.ReplaceAll(expanded, "{"+name+"}", url.PathEscape(value))
	}
	return expanded
}

// placeholders lists the {name} tokens still present in the path.
func placeholders(path string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(path, -1)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}
