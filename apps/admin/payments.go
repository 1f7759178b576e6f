package main

import (
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/trezcool/schooldesk/apps"
	"github.com/trezcool/schooldesk/core/payment"
	"github.com/trezcool/schooldesk/core/person"
)

type periodFlags struct {
	year, month *int
}

// newPeriodFlags defaults to the month configured in the settings.
func (cli *commandLine) newPeriodFlags(fs *flag.FlagSet) periodFlags {
	st := cli.app.People.Settings()
	return periodFlags{
		year:  fs.Int("year", st.DefaultYear, "year"),
		month: fs.Int("month", st.DefaultMonth, "month (1-12)"),
	}
}

func (pf periodFlags) period() payment.Period {
	return payment.Period{Year: *pf.year, Month: *pf.month}
}

// parseKey parses the flags shared by the per-person payment commands.
func (cli *commandLine) parseKey(fs *flag.FlagSet, args []string) (payment.Key, error) {
	kindStr := kindFlag(fs)
	id := fs.String("id", "", "person ID")
	pf := cli.newPeriodFlags(fs)
	if err := parse(fs, args); err != nil {
		return payment.Key{}, err
	}
	kind, err := parseKind(fs, *kindStr)
	if err != nil {
		return payment.Key{}, err
	}
	if *id == "" {
		fs.Usage()
		return payment.Key{}, errHelp
	}
	return payment.Key{Kind: kind, PersonID: *id, Period: pf.period()}, nil
}

// defaultAmount is the monthly fee or salary from the settings.
func (cli *commandLine) defaultAmount(kind person.Kind) decimal.Decimal {
	st := cli.app.People.Settings()
	if kind == person.KindTeacher {
		return decimal.NewFromFloat(st.DefaultTeacherSalary)
	}
	return decimal.NewFromFloat(st.DefaultStudentFee)
}

func parseAmount(arg, s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apps.NewArgumentError(arg, fmt.Sprintf("invalid number %q", s))
	}
	return amount, nil
}

func (cli *commandLine) payCmd(args []string) error {
	fs := cli.newFlagSet("pay")
	statusStr := fs.String("status", "paid", "paid or pending")
	amountStr := fs.String("amount", "", "amount (keeps the stored one when empty)")
	key, err := cli.parseKey(fs, args)
	if err != nil {
		return err
	}
	status, err := payment.ParseStatusStrict(*statusStr)
	if err != nil {
		return err
	}

	var rec payment.Record
	if *amountStr == "" {
		rec, err = cli.app.Payments.SetStatus(key, status)
	} else {
		var amount decimal.Decimal
		if amount, err = parseAmount("amount", *amountStr); err != nil {
			return err
		}
		rec, err = cli.app.Payments.SetPayment(key, status, amount)
	}
	if err != nil {
		return err
	}
	cli.printf("%s %s %s: %s %s\n", rec.Kind, rec.PersonID, rec.Period, rec.Status, rec.Amount)
	return nil
}

func (cli *commandLine) toggleCmd(args []string) error {
	key, err := cli.parseKey(cli.newFlagSet("toggle"), args)
	if err != nil {
		return err
	}
	rec, err := cli.app.Payments.Toggle(key)
	if err != nil {
		return err
	}
	cli.printf("%s %s %s: %s\n", rec.Kind, rec.PersonID, rec.Period, rec.Status)
	return nil
}

func (cli *commandLine) arrearsCmd(args []string) error {
	fs := cli.newFlagSet("arrears")
	defStr := fs.String("default", "", "amount owed for months without one (defaults to the settings)")
	key, err := cli.parseKey(fs, args)
	if err != nil {
		return err
	}
	def := cli.defaultAmount(key.Kind)
	if *defStr != "" {
		if def, err = parseAmount("default", *defStr); err != nil {
			return err
		}
	}

	months, err := cli.app.Payments.PendingMonths(key.Kind, key.PersonID, key.Period, def)
	if err != nil {
		return err
	}
	if len(months) == 0 {
		cli.printf("nothing pending\n")
		return nil
	}
	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MONTH\tAMOUNT")
	for _, m := range months {
		fmt.Fprintf(tw, "%s\t%s\n", m.Period, m.Amount)
	}
	fmt.Fprintf(tw, "TOTAL\t%s\n", payment.Sum(months))
	return tw.Flush()
}

func (cli *commandLine) statsCmd(args []string) error {
	fs := cli.newFlagSet("stats")
	kindStr := kindFlag(fs)
	pf := cli.newPeriodFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	kind, err := parseKind(fs, *kindStr)
	if err != nil {
		return err
	}

	stats, err := cli.app.Payments.Stats(kind, pf.period())
	if err != nil {
		return err
	}
	cli.printf("%s %s: %d paid, %d pending, %d total\n", kind, pf.period(), stats.Paid, stats.Pending, stats.Total)
	return nil
}

func (cli *commandLine) activityCmd(args []string) error {
	fs := cli.newFlagSet("activity")
	limit := fs.Int("limit", 20, "number of events (0 for all)")
	if err := parse(fs, args); err != nil {
		return err
	}

	events, err := cli.app.Activity.Recent(*limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tACTION\tENTITY\tID\tDETAILS")
	for _, ev := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", ev.Timestamp, ev.Action, ev.EntityType, ev.EntityID, ev.Details)
	}
	return tw.Flush()
}
