package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/roach88/procgen/internal/ginconf"
	"github.com/roach88/procgen/internal/telemetry"
)

// Request describes the configs a run asks for.
type Request struct {
	// BaseFolder is the top-level folder holding the .gin files, relative
	// to the resolver's RepoRoot or to the working directory.
	BaseFolder string

	// Names are the requested configs, by name or path; only the stem
	// is used for lookup. "base" is always loaded first and need not be
	// listed.
	Names []string

	// Overrides are `key=value` bindings applied after every file.
	Overrides []string

	// MandatoryFolders must each contribute at least one config.
	MandatoryFolders []string

	// ExclusiveFolders may each contribute at most one config.
	ExclusiveFolders []string

	// SkipUnknown is threaded to the store for the consumer's key check.
	SkipUnknown bool
}

// Resolved is the outcome of a successful resolution.
type Resolved struct {
	// Files holds one absolute path per requested name, base first.
	Files []string `json:"files"`

	// Overrides are the sanitized overrides, in request order.
	Overrides []string `json:"overrides"`

	// Store is the effective configuration after the merge.
	Store *ginconf.Store `json:"-"`
}

// Resolver resolves config requests.
type Resolver struct {
	// RepoRoot anchors relative mandatory and exclusive folders.
	RepoRoot string

	// Schema, when set, is checked against the merged store; unknown keys
	// fail resolution unless the request sets SkipUnknown.
	Schema *ginconf.Registry

	Logger *slog.Logger
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Resolve discovers, validates and merges the configs req asks for into
// store, searching the roots derived from req.BaseFolder in order. Nothing
// is merged unless discovery, sanitization and every folder constraint
// succeed.
func (r *Resolver) Resolve(ctx context.Context, req Request, store *ginconf.Store) (*Resolved, error) {
	_, span := telemetry.Tracer("resolve").Start(ctx, "config.resolve")
	defer span.End()

	fail := func(err error) (*Resolved, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "config resolution failed")
		return nil, err
	}

	roots, err := SearchRoots(req.BaseFolder, r.RepoRoot)
	if err != nil {
		return fail(err)
	}

	find := newFinder(roots)
	names := append([]string{BaseConfig + ConfigExt}, req.Names...)
	files := make([]string, 0, len(names))
	stems := make(map[string]bool, len(names))
	for _, name := range names {
		path, err := find.find(name)
		if err != nil {
			return fail(err)
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		files = append(files, path)
		stems[Stem(path)] = true
	}
	r.logger().Debug("configs discovered", "files", files)

	overrides := make([]string, len(req.Overrides))
	for i, o := range req.Overrides {
		overrides[i] = SanitizeOverride(o)
		if overrides[i] != o {
			r.logger().Debug("quoted override", "override", o, "sanitized", overrides[i])
		}
		if err := checkOverride(overrides[i]); err != nil {
			return fail(&OverrideSyntaxError{Override: o, Sanitized: overrides[i], Err: err})
		}
	}

	if err := checkMandatory(req.MandatoryFolders, r.RepoRoot, stems); err != nil {
		return fail(err)
	}
	if err := checkExclusive(req.ExclusiveFolders, r.RepoRoot, stems); err != nil {
		return fail(err)
	}

	store.SkipUnknown = req.SkipUnknown
	loader := &ginconf.Loader{SearchPaths: roots, Logger: r.Logger}
	for _, f := range files {
		if err := loader.ApplyFile(store, f); err != nil {
			return fail(fmt.Errorf("apply %s: %w", f, err))
		}
	}
	for i, o := range overrides {
		if err := loader.ApplyBindings(store, o); err != nil {
			return fail(&OverrideSyntaxError{Override: req.Overrides[i], Sanitized: o, Err: err})
		}
	}

	if r.Schema != nil {
		if err := store.Validate(r.Schema); err != nil {
			return fail(err)
		}
	}

	span.SetAttributes(
		attribute.Int("config.files", len(files)),
		attribute.Int("config.overrides", len(overrides)),
		attribute.Int("config.keys", store.Len()),
	)
	r.logger().Info("configuration resolved", "files", len(files), "overrides", len(overrides), "keys", store.Len())

	return &Resolved{Files: files, Overrides: overrides, Store: store}, nil
}

// checkOverride parses a sanitized override without applying it.
func checkOverride(o string) error {
	stmts, err := ginconf.Parse("<override>", o)
	if err != nil {
		return err
	}
	if len(stmts) == 0 {
		return fmt.Errorf("empty override")
	}
	return nil
}
