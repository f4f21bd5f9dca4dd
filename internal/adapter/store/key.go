package store

import "strings"

const imageExtension = ".jpg"

// ImageKey derives the object-store key for a canonical food name. Writer and
// reader must agree bit-exactly or every lookup becomes a miss: lowercase,
// spaces to underscores, fixed extension. Path separators are flattened too;
// the name is model output and must never address outside the store root.
func ImageKey(canonicalName string) string {
	name := strings.ToLower(strings.TrimSpace(canonicalName))
	name = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(name)
	return name + imageExtension
}
