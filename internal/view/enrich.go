package view

// Resolver turns a primary record into a display value. ok is false when the
// reference is absent or cannot be resolved.
type Resolver[R any] func(rec R) (value string, ok bool)

// Rule resolves one display field of an enriched row.
type Rule[R, E any] struct {
	Resolve  Resolver[R]
	Fallback string
	Set      func(row *E, value string)
}

// Enrich applies every rule to rec, writing into row. A rule whose resolver
// misses (or panics) writes its fallback.
func Enrich[R, E any](rec R, row *E, rules ...Rule[R, E]) {
	for _, rule := range rules {
		value, ok := safeResolve(rule.Resolve, rec)
		if !ok || value == "" {
			value = rule.Fallback
		}
		rule.Set(row, value)
	}
}

func safeResolve[R any](resolve Resolver[R], rec R) (value string, ok bool) {
	if resolve == nil {
		return "", false
	}
	defer func() {
		if recover() != nil {
			value, ok = "", false
		}
	}()
	return resolve(rec)
}

// Ref resolves key(rec) through idx and renders the match with display.
func Ref[R, V any](key func(R) string, idx map[string]V, display func(V) string) Resolver[R] {
	return func(rec R) (string, bool) {
		k := key(rec)
		if k == "" {
			return "", false
		}
		v, ok := idx[k]
		if !ok {
			return "", false
		}
		s := display(v)
		return s, s != ""
	}
}

// Field resolves to a value already present on the record.
func Field[R any](get func(R) string) Resolver[R] {
	return func(rec R) (string, bool) {
		s := get(rec)
		return s, s != ""
	}
}

// FirstOf tries each resolver in order and returns the first hit.
func FirstOf[R any](resolvers ...Resolver[R]) Resolver[R] {
	return func(rec R) (string, bool) {
		for _, resolve := range resolvers {
			if s, ok := safeResolve(resolve, rec); ok && s != "" {
				return s, true
			}
		}
		return "", false
	}
}
