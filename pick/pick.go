// Package pick projects a subset of fields out of a value. Dot-separated
// paths are compiled into an Extractor once and cached in a bounded LRU keyed
// by the canonicalized path list, the same sizing discipline as the builder
// pools: a fixed capacity with the oldest-accessed entry evicted first.
package pick

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"

	gokumi "github.com/reoring/gokumi"
	"github.com/reoring/gokumi/i18n"
)

// DefaultCacheSize bounds the compiled-extractor cache.
const DefaultCacheSize = 256

// Extractor is a compiled projection over a fixed set of paths.
type Extractor struct {
	canonical string
	paths     [][]string
}

var (
	cacheMu sync.Mutex
	cache   *lru.Cache[string, *Extractor]
)

func init() {
	cache, _ = lru.New[string, *Extractor](DefaultCacheSize)
}

// Compile resolves paths into an Extractor, consulting the cache first.
// Structurally equal path sets (order-insensitive) share one entry.
func Compile(paths ...string) (*Extractor, error) {
	if len(paths) == 0 {
		return nil, gokumi.Issues{gokumi.Issue{
			Path:    "/",
			Code:    gokumi.CodeEmptyKeyList,
			Message: i18n.T(gokumi.CodeEmptyKeyList, nil),
			Hint:    "a projection needs at least one path",
		}}
	}
	key := canonicalKey(paths)
	cacheMu.Lock()
	c := cache
	cacheMu.Unlock()
	if e, ok := c.Get(key); ok {
		return e, nil
	}
	e, err := compile(key, paths)
	if err != nil {
		return nil, err
	}
	c.Add(key, e)
	return e, nil
}

// Pick projects the given paths out of v. Paths absent from v are omitted
// from the result rather than reported as errors.
func Pick(v any, paths ...string) (map[string]any, error) {
	e, err := Compile(paths...)
	if err != nil {
		return nil, err
	}
	return e.From(v)
}

// Paths returns the compiled dot-paths in canonical (sorted) order.
func (e *Extractor) Paths() []string {
	out := make([]string, len(e.paths))
	for i, segs := range e.paths {
		out[i] = strings.Join(segs, ".")
	}
	return out
}

// From applies the projection to v. Maps are walked directly; any other value
// is first normalized to a map through its JSON form, honoring json tags.
func (e *Extractor) From(v any) (map[string]any, error) {
	m, err := normalize(v)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(e.paths))
	for _, segs := range e.paths {
		if val, ok := lookup(m, segs); ok {
			insert(out, segs, val)
		}
	}
	return out, nil
}

func compile(canonical string, paths []string) (*Extractor, error) {
	seen := make(map[string]struct{}, len(paths))
	compiled := make([][]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		segs := strings.Split(p, ".")
		for _, s := range segs {
			if s == "" {
				return nil, gokumi.Issues{gokumi.Issue{
					Path:    "/",
					Code:    gokumi.CodeParseError,
					Message: i18n.T(gokumi.CodeParseError, nil),
					Hint:    "empty path segment",
					Params:  map[string]any{"path": p},
				}}
			}
		}
		compiled = append(compiled, segs)
	}
	sort.Slice(compiled, func(i, j int) bool {
		return strings.Join(compiled[i], ".") < strings.Join(compiled[j], ".")
	})
	return &Extractor{canonical: canonical, paths: compiled}, nil
}

// canonicalKey sorts, dedupes, and pipe-joins the path list so equivalent
// projections share a cache entry.
func canonicalKey(paths []string) string {
	ps := make([]string, len(paths))
	copy(ps, paths)
	sort.Strings(ps)
	uniq := ps[:0]
	var last string
	for i, p := range ps {
		if i > 0 && p == last {
			continue
		}
		uniq = append(uniq, p)
		last = p
	}
	return strings.Join(uniq, "|")
}

func normalize(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, gokumi.Issues{gokumi.Issue{
			Path: "/", Code: gokumi.CodeParseError, Message: i18n.T(gokumi.CodeParseError, nil), Cause: err,
		}}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, gokumi.Issues{gokumi.Issue{
			Path:    "/",
			Code:    gokumi.CodeInvalidType,
			Message: i18n.T(gokumi.CodeInvalidType, nil),
			Hint:    "projection source must be an object",
			Params:  map[string]any{"got": fmt.Sprintf("%T", v)},
		}}
	}
	return m, nil
}

func lookup(m map[string]any, segs []string) (any, bool) {
	var cur any = m
	for _, s := range segs {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = mm[s]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func insert(out map[string]any, segs []string, v any) {
	cur := out
	for _, s := range segs[:len(segs)-1] {
		next, ok := cur[s].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[s] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = v
}

// ClearCache drops every compiled extractor.
func ClearCache() {
	cacheMu.Lock()
	cache.Purge()
	cacheMu.Unlock()
}

// CacheLen reports the number of cached extractors.
func CacheLen() int {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	return cache.Len()
}

// ResizeCache replaces the cache capacity, evicting oldest entries as needed.
// Non-positive sizes fall back to DefaultCacheSize.
func ResizeCache(n int) {
	if n <= 0 {
		n = DefaultCacheSize
	}
	cacheMu.Lock()
	cache.Resize(n)
	cacheMu.Unlock()
}
