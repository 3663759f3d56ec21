// Package dedup implements the duplicate-detection-and-deletion
// application, grounded on original_source/hydra_deleteduplicates.py for
// exact work/insert/commit semantics.
package dedup

import (
	"context"
	"regexp"
	"sort"

	"github.com/axcxl/hydra/internal/engine"
	"github.com/axcxl/hydra/internal/hashing"
)

// App holds the librarian-side state: a path→hash map built by DBInsert
// and the accumulating set of paths already reported as duplicates, so a
// duplicate is never pushed to the main channel twice across repeated
// DBCommit ticks.
type App struct {
	hasher     *hashing.Hasher
	reverse    bool
	hashes     map[string]string
	duplicates map[string]bool
	main       *engine.MainChannel
}

// New builds the dedup Capability. reverse inverts the path sort, matching
// the --reverse flag's use for " (1).ext" style naming.
func New(hashAlgo string, reverse bool) (*App, engine.Capability[string]) {
	app := &App{
		hasher:     hashing.New(hashAlgo),
		reverse:    reverse,
		hashes:     make(map[string]string),
		duplicates: make(map[string]bool),
		main:       engine.NewMainChannel(256),
	}

	cap := engine.Capability[string]{
		Work: func(_ int, item any) (string, bool, error) {
			return app.hasher.HashFile(item.(string))
		},
		DBInsert: func(rec engine.ItemMsg[string]) error {
			app.hashes[rec.Path.(string)] = rec.Result
			return nil
		},
		DBCommit: app.commit,
	}
	return app, cap
}

// Main exposes the main-return channel so the caller can pass it into
// engine.Run.
func (a *App) Main() *engine.MainChannel { return a.main }

// commit reproduces hydra_deleteduplicates.py's db_commit: sort the known
// paths, compare every i against every j>i, and report each later path j
// that repeats path i's hash as a duplicate exactly once (the first
// occurrence of a hash is kept, never reported).
func (a *App) commit() error {
	paths := make([]string, 0, len(a.hashes))
	for p := range a.hashes {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		if a.reverse {
			return paths[i] > paths[j]
		}
		return paths[i] < paths[j]
	})

	for i := 0; i < len(paths)-1; i++ {
		target := paths[i]
		targetHash := a.hashes[target]
		for _, elem := range paths[i+1:] {
			if a.hashes[elem] != targetHash || a.duplicates[elem] {
				continue
			}
			a.duplicates[elem] = true
			if err := a.main.Push(context.Background(), elem); err != nil {
				return err
			}
		}
	}
	return nil
}

// suffixWarningPattern matches filenames that already carry a
// disambiguation suffix like "_1.ext" or " (1).ext" — names for which
// deleting the duplicate is uncontroversial.
var suffixWarningPattern = regexp.MustCompile(`_[0-9]{1,2}\.[a-zA-Z0-9]+$|\ \([0-9]+\)\.[a-zA-Z0-9]+$`)

// Decision is one duplicate path paired with whether it carries a
// disambiguating suffix.
type Decision struct {
	Path    string
	Warning bool
}

// Classify pairs each duplicate path with the suffix-naming heuristic from
// the original: a name lacking "_N.ext" or " (N).ext" gets flagged.
func Classify(duplicates []string) []Decision {
	decisions := make([]Decision, 0, len(duplicates))
	for _, p := range duplicates {
		decisions = append(decisions, Decision{Path: p, Warning: !suffixWarningPattern.MatchString(p)})
	}
	return decisions
}

// AnyWarnings reports whether any decision carries a warning, used by
// --batch mode to decide whether to refuse automatically.
func AnyWarnings(decisions []Decision) bool {
	for _, d := range decisions {
		if d.Warning {
			return true
		}
	}
	return false
}
