package lint

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"eipw/internal/fetch"
	"eipw/internal/trace"
)

// DefaultProposalFormat names proposal files; "{}" is replaced by the number.
const DefaultProposalFormat = "eip-{}"

type entry struct {
	doc *Document
	err error
}

// cache holds every document fetched during one run, keyed by cleaned path.
// Entries are written once and never invalidated.
type cache struct {
	fetcher fetch.Fetcher
	format  string
	jobs    int

	mu      sync.RWMutex
	entries map[string]entry
	fetches int
}

func newCache(f fetch.Fetcher, format string, jobs int) *cache {
	if jobs <= 0 {
		jobs = 8
	}
	return &cache{
		fetcher: f,
		format:  format,
		jobs:    jobs,
		entries: make(map[string]entry),
	}
}

func (c *cache) get(key string) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// proposalPaths returns the two layouts a proposal may use: a single file
// or a directory with an index.md.
func (c *cache) proposalPaths(origin string, number uint64) (plain, index string) {
	dir := filepath.Dir(origin)
	root := dir
	if filepath.Base(origin) == "index.md" {
		root = filepath.Join(dir, "..")
	}
	base := c.proposalName(number)
	return fetch.Clean(filepath.Join(root, base+".md")), fetch.Clean(filepath.Join(root, base, "index.md"))
}

// proposalName applies the proposal format to number.
func (c *cache) proposalName(number uint64) string {
	return strings.Replace(c.format, "{}", strconv.FormatUint(number, 10), 1)
}

// proposal combines the two cached layouts of a proposal.
func (c *cache) proposal(origin string, number uint64) (entry, bool) {
	plainPath, indexPath := c.proposalPaths(origin, number)
	plain, ok1 := c.get(plainPath)
	index, ok2 := c.get(indexPath)
	if !ok1 || !ok2 {
		return entry{}, false
	}
	switch pf, xf := plain.fetched(), index.fetched(); {
	case pf && xf:
		return entry{err: fmt.Errorf("%w between `%s` and `%s`", ErrAmbiguousProposal, plainPath, indexPath)}, true
	case xf:
		return index, true
	default:
		return plain, true
	}
}

// fetched reports whether the document was read, even if it did not parse.
func (e entry) fetched() bool {
	var perr *ParseError
	return e.doc != nil || errors.As(e.err, &perr)
}

// pending lists the requested keys that are not cached yet, sorted.
func (c *cache) pending(fc *FetchContext) []string {
	fc.mu.Lock()
	want := maps.Clone(fc.paths)
	for n := range fc.proposals {
		plain, index := c.proposalPaths(fc.doc.origin, n)
		want[plain] = struct{}{}
		want[index] = struct{}{}
	}
	fc.mu.Unlock()

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(want))
	for key := range want {
		if _, ok := c.entries[key]; !ok {
			out = append(out, key)
		}
	}
	slices.Sort(out)
	return out
}

// fill fetches and parses every key concurrently. Individual failures are
// cached; only cancellation of ctx is returned, in which case nothing from
// this batch is cached.
func (c *cache) fill(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return ctx.Err()
	}

	results := make([]entry, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.jobs)

	for i, key := range keys {
		g.Go(func() error {
			_, span := trace.Start(gctx, trace.ScopeFetch, "fetch:"+key)
			text, err := c.fetcher.Fetch(gctx, key)
			if err != nil {
				results[i] = entry{err: err}
				span.End(err.Error())
				return nil
			}
			doc, err := ParseDocument(key, text)
			results[i] = entry{doc: doc, err: err}
			span.End("")
			return nil
		})
	}

	_ = g.Wait() // goroutines never fail; errors live in results
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, key := range keys {
		c.entries[key] = results[i]
	}
	c.fetches += len(keys)
	return nil
}
