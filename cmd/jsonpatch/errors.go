package main

import (
	"fmt"
)

// MissingFlag is returned when a required flag is not set.
type MissingFlag struct {
	Name string
}

func (err MissingFlag) Error() string {
	return fmt.Sprintf("Missing required flag --%s.", err.Name)
}

// WrongArgCount is returned when a command gets an unexpected number of
// positional arguments.
type WrongArgCount struct {
	Command  string
	Expected string
	Actual   int
}

func (err WrongArgCount) Error() string {
	return fmt.Sprintf("%s expects %s argument(s), got %d.", err.Command, err.Expected, err.Actual)
}

// InvalidPatches is returned by validate when at least one patch document
// has problems.
type InvalidPatches struct {
	Count int
}

func (err InvalidPatches) Error() string {
	return fmt.Sprintf("%d patch document(s) are invalid.", err.Count)
}
