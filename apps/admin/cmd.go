package main

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldesk/apps"
	"github.com/trezcool/schooldesk/apps/shared"
	"github.com/trezcool/schooldesk/core"
	"github.com/trezcool/schooldesk/core/person"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	app *shared.App
	out io.Writer
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	fmt.Fprintf(cli.out, format, args...)
}

func (cli *commandLine) printUsage() {
	cli.printf("Usage:\n")
	cli.printf("  init                                   - create the workbook or repair its sheets\n")
	cli.printf("  doctor [-fix]                          - show sheet repairs as header diffs\n")
	cli.printf("  list -kind KIND                        - list students or teachers\n")
	cli.printf("  add -kind KIND -first NAME -last NAME  - add a person (see add -h)\n")
	cli.printf("  edit -kind KIND -id ID                 - change the given fields of a person\n")
	cli.printf("  delete -kind KIND -id ID               - delete a person\n")
	cli.printf("  pay -kind KIND -id ID -year Y -month M - set a payment status and amount\n")
	cli.printf("  toggle -kind KIND -id ID -year Y -month M\n")
	cli.printf("  arrears -kind KIND -id ID              - list unpaid months\n")
	cli.printf("  stats -kind KIND [-year Y -month M]    - paid/pending counts for a month\n")
	cli.printf("  activity [-limit N]                    - recent activity, newest first\n")
	cli.printf("  settings [flags]                       - show or change the settings\n")
	cli.printf("  watch [-interval D]                    - report edits made by other programs\n")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	var cmd func(args []string) error
	switch args[1] {
	case "init":
		cmd = cli.initCmd
	case "doctor":
		cmd = cli.doctorCmd
	case "list":
		cmd = cli.listCmd
	case "add":
		cmd = cli.addCmd
	case "edit":
		cmd = cli.editCmd
	case "delete":
		cmd = cli.deleteCmd
	case "pay":
		cmd = cli.payCmd
	case "toggle":
		cmd = cli.toggleCmd
	case "arrears":
		cmd = cli.arrearsCmd
	case "stats":
		cmd = cli.statsCmd
	case "activity":
		cmd = cli.activityCmd
	case "settings":
		cmd = cli.settingsCmd
	case "watch":
		cmd = cli.watchCmd
	default:
		cli.printUsage()
		return errHelp
	}
	return cmd(args[2:])
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// parse maps -h to errHelp and rejects stray positional arguments.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return errHelp
	}
	return nil
}

// visited returns the names of the flags given on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func kindFlag(fs *flag.FlagSet) *string {
	return fs.String("kind", "student", "student or teacher")
}

func parseKind(fs *flag.FlagSet, s string) (person.Kind, error) {
	kind, err := person.ParseKind(s)
	if err != nil {
		fs.Usage()
		return "", err
	}
	return kind, nil
}

// fieldFlags collects repeated -field key=value flags.
type fieldFlags map[string]string

func (f fieldFlags) String() string {
	pairs := make([]string, 0, len(f))
	for k, v := range f {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (f fieldFlags) Set(v string) error {
	key, val, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return apps.NewArgumentError("", fmt.Sprintf("expected key=value, got %q", v))
	}
	f[key] = val
	return nil
}

// describeError renders validation errors field by field.
func describeError(err error) string {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		return joinFieldErrors(core.TranslateErrors(vErrs))
	}
	var vErr *core.ValidationError
	if errors.As(err, &vErr) && vErr.Err == nil {
		fields := make(map[string]string, len(vErr.Fields))
		for _, fld := range vErr.Fields {
			fields[fld.Field] = fld.Error
		}
		return joinFieldErrors(fields)
	}
	var pErr *core.PersistenceError
	if errors.As(err, &pErr) {
		return fmt.Sprintf("%s (%s)", pErr.Error(), pErr.Hint())
	}
	return err.Error()
}

func joinFieldErrors(fields map[string]string) string {
	msgs := make([]string, 0, len(fields))
	for fld, msg := range fields {
		msgs = append(msgs, fld+": "+msg)
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}
