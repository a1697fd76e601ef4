package authz

import "strings"

// Resolver derives the catalog resource name candidates for a URL path.
// The permission catalog and the route paths were authored independently
// and drift in pluralization, so the resolver produces spelling variants
// to try in order. An explicit alias table takes precedence; the Spanish
// suffix heuristic is the fallback.
type Resolver struct {
	aliases map[string]string
}

// NewResolver builds a Resolver. Alias keys and values are folded.
func NewResolver(aliases map[string]string) *Resolver {
	folded := make(map[string]string, len(aliases))
	for k, v := range aliases {
		folded[Fold(k)] = Fold(v)
	}
	return &Resolver{aliases: folded}
}

// ResourceFromPath extracts the first path segment, lowercased. Empty when
// the path has no segment.
func ResourceFromPath(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return ""
	}
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return Fold(trimmed)
}

// Variants returns the candidate catalog names for a resource, in the order
// they must be tried: alias first, then the literal segment, then the
// singular/plural guesses. Ordering is deterministic so that collisions
// between variants always resolve the same way.
func (r *Resolver) Variants(resource string) []string {
	resource = Fold(resource)
	if resource == "" {
		return nil
	}

	var variants []string
	if alias, ok := r.aliases[resource]; ok {
		variants = append(variants, alias)
	}
	variants = append(variants, resource)

	switch {
	case strings.HasSuffix(resource, "es"):
		variants = append(variants, resource[:len(resource)-2]) // ciudades -> ciudad
	case strings.HasSuffix(resource, "s"):
		variants = append(variants, resource[:len(resource)-1]) // usuarios -> usuario
	default:
		variants = append(variants, resource+"s", resource+"es") // ciudad -> ciudads, ciudades
	}

	return dedupe(variants)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
