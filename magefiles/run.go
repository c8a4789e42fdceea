//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Serve builds the binary and starts the dashboard.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "serve")
}

// Search builds the binary and runs a grounded search for query.
func Search(query string) error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "search", query)
}

// Simulate builds the binary and runs an outcome simulation.
func Simulate(hypothesis, parameters string) error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "simulate", "--hypothesis", hypothesis, "--parameters", parameters)
}

// Journal builds the binary and lists recent model calls.
func Journal() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "journal")
}
