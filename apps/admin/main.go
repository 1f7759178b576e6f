package main

import (
	"fmt"
	"os"

	"github.com/trezcool/schooldesk/apps"
	"github.com/trezcool/schooldesk/apps/shared"
	"github.com/trezcool/schooldesk/core"
)

func main() {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	conf, err := core.NewConfig(wd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading config: %s\n", err)
		os.Exit(1)
	}
	app, err := shared.NewApp(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	cli := commandLine{app: app, out: os.Stdout}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			if !core.IsValidation(err) && !core.IsPersistence(err) && !apps.IsArgument(err) {
				app.Log.Error("admin command failed", err, map[string]interface{}{"args": os.Args[1:]})
			}
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", describeError(err))
		}
		os.Exit(1)
	}
}
