package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderRegex = regexp.MustCompile(`\{\{(.*?)\}\}`)

// ResolveTemplates walks a config value and substitutes {{a.b.c}}
// placeholders from the execution context. Strings are substituted in
// place, maps and slices are resolved recursively, everything else
// passes through untouched. A path that does not resolve leaves the
// placeholder literal so misconfigured templates stay visible.
func ResolveTemplates(value interface{}, context map[string]interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return placeholderRegex.ReplaceAllStringFunc(v, func(match string) string {
			path := strings.TrimSpace(placeholderRegex.FindStringSubmatch(match)[1])
			resolved, ok := lookupPath(context, path)
			if !ok || resolved == nil {
				return match
			}
			return stringify(resolved)
		})
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, item := range v {
			result[key] = ResolveTemplates(item, context)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = ResolveTemplates(item, context)
		}
		return result
	default:
		return value
	}
}

// ResolveConfig resolves every value of an action config map
func ResolveConfig(config map[string]interface{}, context map[string]interface{}) map[string]interface{} {
	resolved := ResolveTemplates(map[string]interface{}(config), context)
	if m, ok := resolved.(map[string]interface{}); ok {
		return m
	}
	return config
}

func lookupPath(context map[string]interface{}, path string) (interface{}, bool) {
	if path == "" {
		return nil, false
	}
	parts := strings.Split(path, ".")
	var current interface{} = context
	for _, part := range parts {
		node, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// Render whole numbers without a trailing .0
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
