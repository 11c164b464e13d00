package main

import (
	"context"

	"github.com/fatih/color"

	"github.com/trezcool/gce/core/user"
)

func (cli *commandLine) resetPassword(ctx context.Context, uname, pwd string) error {
	if err := cli.c.UserSvc.UpdatePassword(ctx, uname, user.PasswordChange{Password: pwd, PasswordConfirm: pwd}); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cli.out, "Password updated for %s\n", uname)
	return nil
}

func (cli *commandLine) approve(ctx context.Context, uname string) error {
	usr, err := cli.c.UserSvc.Approve(ctx, uname)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cli.out, "Approved %s (%s)\n", usr.Username, usr.Name)
	return nil
}
