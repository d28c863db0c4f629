package cli

import (
	"context"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/roach88/procgen/internal/device"
	"github.com/roach88/procgen/internal/ginconf"
	"github.com/roach88/procgen/internal/resolve"
	"github.com/roach88/procgen/internal/seed"
	"github.com/roach88/procgen/internal/telemetry"
)

// Run setup phases. Seed and device phases are traced here; config
// resolution opens its own span.

// resolveSeed resolves raw. Given a store it also seeds gens and publishes
// the seed as a constant.
func resolveSeed(ctx context.Context, logger *slog.Logger, raw *string, fresh bool, store *ginconf.Store, gens *seed.Generators) (seed.Result, error) {
	_, span := telemetry.Tracer("cli").Start(ctx, "seed.resolve")
	defer span.End()

	r := &seed.Resolver{Logger: logger}
	var (
		res seed.Result
		err error
	)
	if store != nil {
		res, err = r.Apply(raw, fresh, store, gens)
	} else {
		res, err = r.Resolve(raw, fresh)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "seed resolution failed")
		return res, err
	}
	span.SetAttributes(
		attribute.String("seed.value", strconv.FormatUint(res.Value, 10)),
		attribute.String("seed.provenance", res.Provenance.String()),
	)
	return res, nil
}

func resolveConfig(ctx context.Context, logger *slog.Logger, o *ConfigOptions, store *ginconf.Store) (*resolve.Resolved, error) {
	schema, err := loadSchema(o.Schema, o.RepoRoot)
	if err != nil {
		return nil, err
	}
	r := &resolve.Resolver{RepoRoot: o.RepoRoot, Schema: schema, Logger: logger}
	return r.Resolve(ctx, resolve.Request{
		BaseFolder:       o.ConfigsFolder,
		Names:            o.Configs,
		Overrides:        o.Overrides,
		MandatoryFolders: o.MandatoryFolders,
		ExclusiveFolders: o.ExclusiveFolders,
		SkipUnknown:      o.SkipUnknown,
	}, store)
}

func selectDevices(ctx context.Context, logger *slog.Logger, backend device.Backend, useGPU bool) (*device.Selection, error) {
	_, span := telemetry.Tracer("cli").Start(ctx, "device.select")
	defer span.End()

	sel, err := device.NewSelector(logger).Select(backend, useGPU)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "device selection failed")
		return nil, err
	}
	span.SetAttributes(
		attribute.String("device.mode", string(sel.Mode)),
		attribute.String("device.kind", string(sel.Kind)),
		attribute.Int("device.enabled", len(sel.Enabled)),
	)
	return sel, nil
}
