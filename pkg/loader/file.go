package loader

import (
	"errors"
	"fmt"
	"os"

	"github.com/jupyter/ipython-py3k/internal/profile"
	"github.com/jupyter/ipython-py3k/internal/search"
	"github.com/jupyter/ipython-py3k/pkg/config"
	"github.com/jupyter/ipython-py3k/pkg/telemetry"
)

// FileLoader loads configuration from a script located on a search path.
// Scripts mutate the in-progress config through dotted assignments and may
// pull in other scripts with load_subconfig; a subconfig that cannot be
// located is skipped so optional profile overlays may be absent.
type FileLoader struct {
	base

	name string
	path []string

	// FullPath holds the resolved script location after a successful load.
	FullPath string
}

// NewFileLoader constructs a loader for the named script searched on path.
func NewFileLoader(name string, path []string, opts ...Option) *FileLoader {
	l := &FileLoader{name: name, path: path}
	l.opts = buildOptions(opts)
	l.Clear()
	return l
}

// LoadConfig locates and evaluates the script, returning the populated
// configuration. A script that cannot be located fails with the search
// package's ErrNotFound; script evaluation errors propagate unmodified.
func (l *FileLoader) LoadConfig() (*config.Config, error) {
	l.Clear()

	full, err := search.FindFile(l.name, l.path)
	if err != nil {
		l.emit(telemetry.Entry{
			Category: telemetry.CategorySearch,
			Message:  "configuration file not located",
			Loader:   "file",
			File:     l.name,
			Error:    err,
		})
		return nil, err
	}
	l.FullPath = full
	l.emit(telemetry.Entry{
		Category: telemetry.CategorySearch,
		Message:  "configuration file located",
		Loader:   "file",
		File:     full,
	})

	src, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", full, err)
	}
	if err := l.execute(full, string(src)); err != nil {
		return nil, err
	}
	return l.cfg, nil
}

func (l *FileLoader) execute(file, src string) error {
	statements, err := parseScript(file, src)
	if err != nil {
		return err
	}

	bound := map[string]struct{}{}
	for _, stmt := range statements {
		switch stmt.kind {
		case stmtBind:
			bound[stmt.ident] = struct{}{}
		case stmtAssign:
			if _, ok := bound[stmt.ident]; !ok {
				return scriptErr(file, stmt.line, "name %q is not bound; call %s = get_config() first", stmt.ident, stmt.ident)
			}
			if err := l.cfg.SetPath(stmt.path, stmt.value); err != nil {
				return &ScriptError{File: file, Line: stmt.line, Err: err}
			}
		case stmtSubconfig:
			if err := l.loadSubconfig(stmt.subName, stmt.subProfile); err != nil {
				return err
			}
		}
	}
	l.emit(telemetry.Entry{
		Category: telemetry.CategoryFile,
		Message:  "configuration script evaluated",
		Loader:   "file",
		File:     file,
		Metadata: map[string]string{"statements": fmt.Sprint(len(statements))},
	})
	return nil
}

// loadSubconfig loads name on the parent's search path, or on the resolved
// profile directory when profileName is given, and merges the result into the
// in-progress config. Keys the parent set before the call are preserved;
// sections merge recursively. A missing subconfig or profile is skipped.
func (l *FileLoader) loadSubconfig(name, profileName string) error {
	path := l.path
	if profileName != "" {
		dir, err := profile.FindDir(l.opts.profileBase, profileName)
		if err != nil {
			l.emit(telemetry.Entry{
				Category: telemetry.CategorySearch,
				Message:  "profile not located, subconfig skipped",
				Severity: telemetry.SeverityWarn,
				Loader:   "file",
				File:     name,
				Metadata: map[string]string{"profile": profileName},
			})
			return nil
		}
		path = []string{dir}
	}

	sub := NewFileLoader(name, path, WithLogger(l.opts.logger), WithProfileBase(l.opts.profileBase))
	subConfig, err := sub.LoadConfig()
	if err != nil {
		if errors.Is(err, search.ErrNotFound) {
			l.emit(telemetry.Entry{
				Category: telemetry.CategorySearch,
				Message:  "subconfig not located, skipped",
				Severity: telemetry.SeverityWarn,
				Loader:   "file",
				File:     name,
			})
			return nil
		}
		return err
	}

	l.cfg.MergeDefaults(subConfig)
	l.emit(telemetry.Entry{
		Category: telemetry.CategoryMerge,
		Message:  "subconfig merged",
		Loader:   "file",
		File:     sub.FullPath,
	})
	return nil
}
