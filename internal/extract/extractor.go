// Package extract drives language adapters across a file tree, producing one
// SourceUnit per file and aggregating them into a ProjectModel.
//
// Files parse in parallel on a bounded worker pool with no shared mutable
// state; workers return independent units merged at a single barrier, in
// lexicographic path order regardless of completion order.
package extract

import (
	"context"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"docsync/internal/lang"
	"docsync/internal/model"
)

// Directories never worth modeling, regardless of configured excludes.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	".docsync":     true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
}

// Options bounds an extraction run.
type Options struct {
	Root     string
	Excludes []string // gitignore-style patterns relative to Root

	// Workers is the parse pool size; <=0 means one per CPU.
	Workers int

	// ParseTimeout bounds a single file parse; 0 disables the limit.
	ParseTimeout time.Duration

	// MaxFileSize skips larger files entirely; 0 disables the limit.
	MaxFileSize int64
}

// Extractor builds a ProjectModel from a source tree.
type Extractor struct {
	opts   Options
	logger *slog.Logger
	gi     *ignore.GitIgnore
}

// New creates an extractor. The exclusion patterns compile once up front.
func New(opts Options, logger *slog.Logger) *Extractor {
	return &Extractor{
		opts:   opts,
		logger: logger,
		gi:     ignore.CompileIgnoreLines(opts.Excludes...),
	}
}

// Extract walks the root and parses every included file. Parse failures and
// timeouts are recorded on their unit and never abort the run; only walk
// failure at the root or context cancellation returns an error.
func (e *Extractor) Extract(ctx context.Context) (*model.ProjectModel, error) {
	paths, err := e.discover()
	if err != nil {
		return nil, err
	}

	// The group context is only for the workers; it is canceled once Wait
	// returns, so run-level checks below stay on the caller's context.
	g, gctx := errgroup.WithContext(ctx)
	workers := e.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	var mu sync.Mutex
	units := make([]*model.SourceUnit, 0, len(paths))

	for _, rel := range paths {
		rel := rel
		// Cancellation is checked between tasks so a canceled run stops
		// scheduling instead of draining the whole file list.
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			unit := e.parseFile(gctx, rel)
			if unit == nil {
				return gctx.Err()
			}
			mu.Lock()
			units = append(units, unit)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := model.NewProjectModel(units)
	disambiguate(m)
	qualify(m)
	return m, nil
}

// discover lists included files relative to the root, lexicographically.
func (e *Extractor) discover() ([]string, error) {
	var paths []string

	root := e.opts.Root
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // unreadable subtree, skip
		}

		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if skipDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			rel, _ := filepath.Rel(root, path)
			if e.gi.MatchesPath(filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if e.gi.MatchesPath(rel) {
			return nil
		}

		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return paths, nil
}

// parseFile builds the unit for one file. Returns nil only when the run
// context is canceled.
func (e *Extractor) parseFile(ctx context.Context, rel string) *model.SourceUnit {
	full := filepath.Join(e.opts.Root, rel)

	unit := &model.SourceUnit{
		Path:   rel,
		Module: model.ModuleName(rel),
	}

	info, err := os.Stat(full)
	if err != nil {
		unit.Errors = append(unit.Errors, model.ParseError{
			Kind:    model.ParseErrSyntax,
			Message: "stat failed: " + err.Error(),
		})
		return unit
	}
	unit.ModTime = info.ModTime().UTC().Truncate(time.Second)

	if e.opts.MaxFileSize > 0 && info.Size() > e.opts.MaxFileSize {
		e.logger.Debug("skipping oversized file", "path", rel, "size", info.Size())
		return nil
	}

	source, err := os.ReadFile(full)
	if err != nil {
		unit.Errors = append(unit.Errors, model.ParseError{
			Kind:    model.ParseErrSyntax,
			Message: "read failed: " + err.Error(),
		})
		return unit
	}
	unit.Hash = ContentHash(source)

	adapter := lang.ForExtension(strings.ToLower(filepath.Ext(rel)))
	if adapter == nil {
		// Unrecognized extension: modeled with zero symbols, no error.
		return unit
	}
	unit.Language = adapter.Name()

	parseCtx := ctx
	if e.opts.ParseTimeout > 0 {
		var cancel context.CancelFunc
		parseCtx, cancel = context.WithTimeout(ctx, e.opts.ParseTimeout)
		defer cancel()
	}

	res, err := adapter.Parse(parseCtx, source)
	if err != nil {
		if ctx.Err() != nil {
			return nil // run canceled, discard partial work
		}
		kind := model.ParseErrSyntax
		msg := "parse failed: " + err.Error()
		if parseCtx.Err() == context.DeadlineExceeded {
			kind = model.ParseErrTimeout
			msg = fmt.Sprintf("parse exceeded %s", e.opts.ParseTimeout)
		}
		e.logger.Warn("parse error", "path", rel, "kind", string(kind))
		unit.Errors = append(unit.Errors, model.ParseError{Kind: kind, Message: msg})
		return unit
	}

	unit.Symbols = res.Symbols
	unit.Imports = res.Imports
	unit.Errors = res.Errors
	return unit
}

// ContentHash returns the hex fingerprint hash of file content.
func ContentHash(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// disambiguate renames modules when distinct paths strip to the same module
// name ("util.py" and "util.js" both strip to "util"). Colliding units get
// their extension folded into the module name so qualified names derived
// from it stay unique across the model.
func disambiguate(m *model.ProjectModel) {
	count := map[string]int{}
	m.Each(func(u *model.SourceUnit) {
		count[u.Module]++
	})

	taken := map[string]bool{}
	for name, n := range count {
		if n == 1 {
			taken[name] = true
		}
	}

	// Path order keeps the renaming deterministic.
	m.Each(func(u *model.SourceUnit) {
		if count[u.Module] == 1 {
			return
		}
		base := u.Module
		if ext := strings.TrimPrefix(filepath.Ext(u.Path), "."); ext != "" {
			base = u.Module + "_" + ext
		}
		name := base
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s#%d", base, n)
		}
		taken[name] = true
		u.Module = name
	})
}

// qualify assigns qualified names: module.symbol, parent.child. Duplicate
// names within one scope get a #n suffix so qualified names stay unique
// across the model.
func qualify(m *model.ProjectModel) {
	m.Each(func(u *model.SourceUnit) {
		seen := map[string]int{}
		for _, s := range u.Symbols {
			qualifySymbol(s, u.Module, seen)
		}
	})
}

func qualifySymbol(s *model.Symbol, prefix string, seen map[string]int) {
	qn := prefix + "." + s.Name
	if s.Name == "" {
		qn = prefix + ".<anonymous>"
	}
	seen[qn]++
	if n := seen[qn]; n > 1 {
		qn = fmt.Sprintf("%s#%d", qn, n)
	}
	s.QualifiedName = qn

	for _, c := range s.Children {
		qualifySymbol(c, qn, seen)
	}
}
