package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

func (cli *commandLine) newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(cli.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func (cli *commandLine) title(s string) {
	color.New(color.FgYellow).Fprintln(cli.out, "\n"+s)
}

func money(v float64) string {
	return "K" + strconv.FormatFloat(v, 'f', 2, 64)
}

func (cli *commandLine) users(ctx context.Context) error {
	users, err := cli.c.UserSvc.QueryAll(ctx)
	if err != nil {
		return err
	}

	cli.title("Accounts")
	table := cli.newTable("Username", "Name", "Role", "Status", "Created")
	for _, usr := range users {
		table.Append([]string{
			usr.Username,
			usr.Name,
			string(usr.Role),
			string(usr.Status),
			usr.CreatedAt.Format("2006-01-02"),
		})
	}
	table.Render()
	return nil
}

func (cli *commandLine) stats(ctx context.Context) error {
	st, err := cli.c.CandidateSvc.Stats(ctx)
	if err != nil {
		return err
	}

	cli.title("System Statistics")
	table := cli.newTable("Metric", "Value")
	table.AppendBulk([][]string{
		{"Total Registered Candidates", strconv.Itoa(st.Total)},
		{"Registered Today", strconv.Itoa(st.Today)},
		{"Registered This Month", strconv.Itoa(st.ThisMonth)},
		{"School Fees Collected", money(st.SchoolFees)},
		{"ECZ Fees Collected", money(st.EczFees)},
		{"Form Fees Collected", money(st.FormFees)},
		{"Total Collected", money(st.TotalFees)},
		{"Balance Due", money(st.BalanceDue)},
		{"Fully Paid", strconv.Itoa(st.FullyPaid)},
		{"Partial Payment", strconv.Itoa(st.Partial)},
		{"Pending", strconv.Itoa(st.Pending)},
		{"Districts", strconv.Itoa(st.Districts)},
	})
	table.Render()
	return nil
}

func (cli *commandLine) subjects(ctx context.Context) error {
	rep, err := cli.c.CandidateSvc.SubjectTotals(ctx)
	if err != nil {
		return err
	}

	cli.title("Subject Analysis")
	table := cli.newTable("Subject Name", "Total Candidates")
	for _, row := range rep.Subjects {
		table.Append([]string{row.Subject, strconv.Itoa(row.Count)})
	}
	table.SetFooter([]string{"Total Exam Entries", strconv.Itoa(rep.Total)})
	table.Render()
	return nil
}

func (cli *commandLine) audit(ctx context.Context) error {
	entries, err := cli.c.AuditSvc.List(ctx)
	if err != nil {
		return err
	}

	cli.title(fmt.Sprintf("Audit Trail (%d)", len(entries)))
	table := cli.newTable("Time", "User", "Action")
	for _, e := range entries {
		table.Append([]string{e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.User, e.Action})
	}
	table.Render()
	return nil
}

func (cli *commandLine) clearAudit(ctx context.Context) error {
	if err := cli.c.AuditSvc.Clear(ctx); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintln(cli.out, "Audit trail cleared")
	return nil
}
