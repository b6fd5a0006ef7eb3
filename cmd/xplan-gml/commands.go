package main

import (
	"context"
	"fmt"
	"io"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"

	"github.com/diwise/xplan-gml/internal/pkg/application/planservice"
	xerrors "github.com/diwise/xplan-gml/pkg/xplan/errors"
)

func withService(ctx context.Context, flags FlagMap, requireDatabase bool, run func(context.Context, planservice.PlanService) error) error {
	cfg, err := loadAppConfig(ctx, flags)
	if err != nil {
		return err
	}

	store, err := newStore(ctx, cfg, requireDatabase)
	if err != nil {
		return err
	}
	defer store.Close()

	svc, err := planservice.New(ctx, cfg.serviceConfig, store)
	if err != nil {
		return err
	}

	return run(ctx, svc)
}

func runConvert(ctx context.Context, svc planservice.PlanService, flags FlagMap, inputPath string) (err error) {
	rev, err := revisionFrom(flags)
	if err != nil {
		return err
	}

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := openOutput(flags[outputPath])
	if err != nil {
		return err
	}
	defer func() { err = closeOutput(out, flags[outputPath], err) }()

	result, err := svc.Convert(ctx, in, rev, out)
	if err != nil {
		return err
	}

	logDiagnostics(ctx, result.Diagnostics)

	return nil
}

func runImport(ctx context.Context, svc planservice.PlanService, stdout io.Writer, inputPath string) error {
	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	result, err := svc.Import(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s %s (%s, %d problems)\n", result.PlanType, result.PlanID, result.Revision, len(result.Diagnostics))

	return nil
}

func runExport(ctx context.Context, svc planservice.PlanService, flags FlagMap, planID string, asArchive bool) (err error) {
	rev, err := revisionFrom(flags)
	if err != nil {
		return err
	}

	out, err := openOutput(flags[outputPath])
	if err != nil {
		return err
	}
	defer func() { err = closeOutput(out, flags[outputPath], err) }()

	if asArchive {
		return svc.ExportArchive(ctx, planID, rev, out)
	}

	return svc.Export(ctx, planID, rev, out)
}

func logDiagnostics(ctx context.Context, diagnostics xerrors.Diagnostics) {
	if err := diagnostics.Err(); err != nil {
		logging.GetFromContext(ctx).Warn("document read with problems", "err", err.Error())
	}
}
