package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/robfig/cron/v3"

	"github.com/trezcool/schooldesk/apps"
	"github.com/trezcool/schooldesk/storage/sheet"
)

// waitFunc blocks until the watch command should stop.
var waitFunc = func() { // mockable
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	signal.Stop(sig)
}

func (cli *commandLine) initCmd(args []string) error {
	if err := parse(cli.newFlagSet("init"), args); err != nil {
		return err
	}
	repairs, err := cli.app.Ensure()
	if err != nil {
		return err
	}
	cli.printRepairs(repairs, false)
	cli.printf("workbook ready: %s\n", cli.app.Backend.Path())
	return nil
}

func (cli *commandLine) doctorCmd(args []string) error {
	fs := cli.newFlagSet("doctor")
	fix := fs.Bool("fix", false, "apply the repairs")
	if err := parse(fs, args); err != nil {
		return err
	}

	repairs, err := cli.app.Check()
	if err != nil {
		return err
	}
	if !cli.printRepairs(repairs, true) {
		cli.printf("all sheets are healthy\n")
		return nil
	}
	if !*fix {
		cli.printf("run doctor -fix to apply\n")
		return nil
	}
	if _, err := cli.app.Ensure(); err != nil {
		return err
	}
	cli.printf("repaired\n")
	return nil
}

// printRepairs reports the changed tables and whether there were any.
func (cli *commandLine) printRepairs(repairs []sheet.Repair, diff bool) bool {
	var changed bool
	for _, rep := range repairs {
		if !rep.Changed() {
			continue
		}
		changed = true
		cli.printf("%s: %s\n", rep.Table, summarize(rep))
		if !diff {
			continue
		}
		text, err := headerDiff(rep)
		if err != nil {
			cli.app.Log.Warn("diffing header", map[string]interface{}{"table": rep.Table}, err)
			continue
		}
		cli.printf("%s", text)
	}
	return changed
}

func summarize(rep sheet.Repair) string {
	var parts []string
	if rep.WroteHeader {
		parts = append(parts, "header written")
	}
	if rep.DroppedBlankRow {
		parts = append(parts, "blank first row dropped")
	}
	if len(rep.Appended) > 0 {
		parts = append(parts, "columns added: "+strings.Join(rep.Appended, ", "))
	}
	if rep.RowsRemoved > 0 {
		parts = append(parts, fmt.Sprintf("%d blank or duplicate header rows removed", rep.RowsRemoved))
	}
	return strings.Join(parts, "; ")
}

// headerDiff renders the header change one column per line.
func headerDiff(rep sheet.Repair) (string, error) {
	lines := func(cols []string) []string {
		out := make([]string, len(cols))
		for i, c := range cols {
			out[i] = c + "\n"
		}
		return out
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        lines(rep.Before),
		B:        lines(rep.After),
		FromFile: rep.Table + " (found)",
		ToFile:   rep.Table + " (repaired)",
		Context:  1,
	})
}

func (cli *commandLine) watchCmd(args []string) error {
	fs := cli.newFlagSet("watch")
	interval := fs.Duration("interval", cli.app.Conf.WatchInterval, "poll interval")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *interval < time.Second {
		return apps.NewArgumentError("interval", "must be at least 1s")
	}

	w := cli.app.Watcher(func() {
		cli.printf("%s: workbook changed on disk\n", time.Now().Format("15:04:05"))
		repairs, err := cli.app.Check()
		if err != nil {
			cli.printf("  %s\n", describeError(err))
			return
		}
		cli.printRepairs(repairs, false)
	})
	if _, err := w.Check(); err != nil {
		return err
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", *interval), func() {
		if _, err := w.Check(); err != nil {
			cli.app.Log.Error("watching workbook", err)
		}
	}); err != nil {
		return errors.Wrap(err, "scheduling watcher")
	}
	cli.printf("watching %s every %s\n", cli.app.Backend.Path(), *interval)
	c.Start()
	waitFunc()
	<-c.Stop().Done()
	return nil
}
