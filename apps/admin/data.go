package main

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/trezcool/gce/core"
	"github.com/trezcool/gce/core/audit"
	"github.com/trezcool/gce/services/export"
)

func (cli *commandLine) export(ctx context.Context, format, out string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	if out == "" {
		out = f.Filename(core.NowFunc())
	}

	file, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	if err = export.Render(ctx, file, f, cli.c.CandidateSvc); err != nil {
		_ = file.Close()
		_ = os.Remove(out)
		return err
	}
	if err = file.Close(); err != nil {
		return errors.Wrap(err, "closing export file")
	}
	color.New(color.FgGreen).Fprintf(cli.out, "Exported %s\n", out)
	return nil
}

func (cli *commandLine) importFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening import file")
	}
	defer file.Close()

	n, err := cli.c.CandidateSvc.Import(ctx, file, audit.SystemActor)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cli.out, "Imported %d records\n", n)
	return nil
}

func (cli *commandLine) factoryReset(ctx context.Context) error {
	if err := cli.c.FactoryReset(ctx); err != nil {
		return err
	}
	color.New(color.FgRed).Fprintln(cli.out, "System reset to factory defaults")
	return nil
}
