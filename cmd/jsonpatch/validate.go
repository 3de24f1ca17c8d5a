package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli"
)

// ValidateCommand returns the command that checks patch documents without
// applying them.
func ValidateCommand() cli.Command {
	return cli.Command{
		Name:      "validate",
		Usage:     "Check that patch documents are well formed.",
		ArgsUsage: "PATCH [PATCH...]",
		Action:    validateEntrypoint,
	}
}

func validateEntrypoint(cliContext *cli.Context) error {
	if cliContext.NArg() == 0 {
		return errors.WithStackTrace(WrongArgCount{Command: "validate", Expected: "at least 1", Actual: 0})
	}

	bad := color.New(color.FgRed)
	good := color.New(color.FgGreen)
	w := cliContext.App.Writer

	invalid := 0
	for _, path := range cliContext.Args() {
		patch, err := readPatch(path)
		if err == nil {
			err = patch.Validate()
		}
		if err == nil {
			good.Fprintf(w, "%s: ok (%d operations)\n", path, len(patch))
			continue
		}

		invalid++
		if merr, ok := err.(*multierror.Error); ok {
			for _, e := range merr.Errors {
				bad.Fprintf(w, "%s: %s\n", path, e)
			}
			continue
		}
		bad.Fprintf(w, "%s: %s\n", path, err)
	}

	if invalid > 0 {
		return errors.WithStackTrace(InvalidPatches{Count: invalid})
	}
	fmt.Fprintln(w, "All patch documents are valid.")
	return nil
}
