package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/strict-lang/strict/pkg/ast"
	"github.com/strict-lang/strict/pkg/errs"
	"github.com/strict-lang/strict/pkg/parser"
	"github.com/strict-lang/strict/pkg/resolver"
)

// LoadErrors aggregates every file-level ParseError hit during one
// LoadPackage call; it is an alias for errs.List so callers that only want
// to range over .Errors don't need to import pkg/errs themselves.
type LoadErrors = errs.List

// LoadPackage walks the .strict files under root (and its strict.yml, if
// present) into a fully resolved *ast.Package tree: every type stub
// registered up front so forward references within and across files
// resolve regardless of processing order, every file's declarations and
// method signatures parsed with bounded concurrency, and every trait
// contract validated once the whole tree is in place. It never aborts
// early on a single file's error; instead every error is collected into
// the returned *LoadErrors.
func LoadPackage(root string, opts ...LoaderOption) (*ast.Package, error) {
	settings := &loadSettings{configPath: filepath.Join(root, "strict.yml")}
	for _, opt := range opts {
		opt(settings)
	}
	cfg, err := LoadConfig(settings.configPath)
	if err != nil {
		return nil, err
	}
	for name, explicit := range settings.hasExplicit {
		if !explicit {
			continue
		}
		switch name {
		case "concurrency":
			cfg.Concurrency = settings.config.Concurrency
		case "excludes":
			cfg.Excludes = append(cfg.Excludes, settings.config.Excludes...)
		}
	}
	settings.config = cfg
	if settings.config.Concurrency <= 0 {
		settings.config.Concurrency = 1
	}

	rootCtx := ast.NewRoot()
	rootCtx.User = ast.NewPackage(rootCtx, rootCtx, filepath.Base(root), root)
	userPkg := rootCtx.User

	files, walkErr := discoverFiles(root, settings)
	if walkErr != nil {
		return nil, walkErr
	}

	res := resolver.New()
	for _, t := range rootCtx.Base.Types() {
		res.Wire(t)
	}
	errList := &errs.List{}

	type pending struct {
		pkg   *ast.Package
		owner *ast.Type
		lines []string
	}
	var stubs []pending

	for _, f := range files {
		pkg := packageForFile(userPkg, root, f)
		name := typeNameForFile(f)
		lines, rerr := readLines(f)
		if rerr != nil {
			errList.Add(errs.Syntax(name, 0, "", "reading %s: %v", f, rerr))
			continue
		}
		owner, derr := pkg.RegisterStub(name)
		if derr != nil {
			errList.Add(errs.Syntax(name, 0, "", "%v", derr))
			continue
		}
		owner.Imports = append(owner.Imports, rootCtx.Base)
		stubs = append(stubs, pending{pkg: pkg, owner: owner, lines: lines})
	}

	g := new(errgroup.Group)
	g.SetLimit(settings.config.Concurrency)
	var mu sync.Mutex
	for _, s := range stubs {
		s := s
		g.Go(func() error {
			fileErrs := parser.ParseTypeFile(s.owner, res, s.lines)
			if len(fileErrs) > 0 {
				mu.Lock()
				errList.AddAll(fileErrs)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if errList.HasErrors() {
		return userPkg, errList
	}
	return userPkg, nil
}

// discoverFiles walks root collecting every ".strict" file, skipping any
// directory whose base name is configured as excluded.
func discoverFiles(root string, settings *loadSettings) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := filepath.Base(path)
		if d.IsDir() {
			if path != root && settings.excluded(base) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".strict") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("driver: walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

func packageForFile(userRoot *ast.Package, root, file string) *ast.Package {
	rel, err := filepath.Rel(root, filepath.Dir(file))
	if err != nil || rel == "." {
		return userRoot
	}
	pkg := userRoot
	for _, seg := range strings.Split(rel, string(filepath.Separator)) {
		if seg == "" || seg == "." {
			continue
		}
		pkg = pkg.Child(seg)
	}
	return pkg
}

func typeNameForFile(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}
