package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/gce/apps/container"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	c   *container.Container
	out io.Writer
}

func newCommandLine(c *container.Container, out io.Writer) *commandLine {
	return &commandLine{c: c, out: out}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  resetpassword -username USERNAME - reset user's password (prompted)")
	fmt.Fprintln(cli.out, "  approve -username USERNAME - approve a pending account")
	fmt.Fprintln(cli.out, "  users - list accounts")
	fmt.Fprintln(cli.out, "  stats - show dashboard statistics")
	fmt.Fprintln(cli.out, "  subjects - show exam entries per subject")
	fmt.Fprintln(cli.out, "  export -format csv|xlsx|subjects.xlsx|stats.xlsx|json [-out FILE] - export registrations")
	fmt.Fprintln(cli.out, "  import -file FILE - restore a JSON backup")
	fmt.Fprintln(cli.out, "  audit [-clear] - show (or clear) the audit trail")
	fmt.Fprintln(cli.out, "  factoryreset -yes - delete every record, account and setting")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	if err := cli.c.Init(ctx); err != nil {
		return err
	}

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's username. The password will be prompted next.")

	approveCmd := flag.NewFlagSet("approve", flag.ContinueOnError)
	approveUname := approveCmd.String("username", "", "The username of the pending account.")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportFormat := exportCmd.String("format", "csv", "csv, xlsx, subjects.xlsx, stats.xlsx or json.")
	exportOut := exportCmd.String("out", "", "The output file. Defaults to the dated export name.")

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importFile := importCmd.String("file", "", "The JSON backup to restore.")

	auditCmd := flag.NewFlagSet("audit", flag.ContinueOnError)
	auditClear := auditCmd.Bool("clear", false, "Clear the audit trail.")

	resetCmd := flag.NewFlagSet("factoryreset", flag.ContinueOnError)
	resetYes := resetCmd.Bool("yes", false, "Confirm the factory reset.")

	for _, fs := range []*flag.FlagSet{resetPasswordCmd, approveCmd, exportCmd, importCmd, auditCmd, resetCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(ctx, *resetPasswordUname, string(pwd))
	case "approve":
		if err := approveCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *approveUname == "" {
			approveCmd.Usage()
			return errHelp
		}
		return cli.approve(ctx, *approveUname)
	case "users":
		return cli.users(ctx)
	case "stats":
		return cli.stats(ctx)
	case "subjects":
		return cli.subjects(ctx)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.export(ctx, *exportFormat, *exportOut)
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importFile(ctx, *importFile)
	case "audit":
		if err := auditCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *auditClear {
			return cli.clearAudit(ctx)
		}
		return cli.audit(ctx)
	case "factoryreset":
		if err := resetCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if !*resetYes {
			resetCmd.Usage()
			return errHelp
		}
		return cli.factoryReset(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}
