package domain

import "strings"

// NormalizeTags flattens raw tag entries into a clean, bounded list.
// Legacy records pack several hash-delimited tags into a single entry
// ("#logo#print"), so every entry is split on '#', fragments are trimmed,
// empties dropped, and duplicates removed keeping first-seen order. The
// result is truncated to max entries (max <= 0 means unbounded).
func NormalizeTags(raw []string, max int) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, entry := range raw {
		for _, frag := range strings.Split(entry, "#") {
			frag = strings.TrimSpace(frag)
			if frag == "" {
				continue
			}
			if _, ok := seen[frag]; ok {
				continue
			}
			seen[frag] = struct{}{}
			out = append(out, frag)
		}
	}

	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
