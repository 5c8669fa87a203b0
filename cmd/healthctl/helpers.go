package main

import (
	"github.com/spf13/pflag"
)

// intFlag returns a pointer to v when the flag was given on the command line
func intFlag(flags *pflag.FlagSet, name string, v int) *int {
	if !flags.Changed(name) {
		return nil
	}
	return &v
}

func floatFlag(flags *pflag.FlagSet, name string, v float64) *float64 {
	if !flags.Changed(name) {
		return nil
	}
	return &v
}

func stringFlag(flags *pflag.FlagSet, name string, v string) *string {
	if !flags.Changed(name) {
		return nil
	}
	return &v
}
