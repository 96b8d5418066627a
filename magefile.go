//go:build mage

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binPath = "./bin/overrun"

// Default target - build the binary
var Default = Build

// Build builds the overrun binary with version information.
func Build() error {
	version := gitVersion()
	ldflags := fmt.Sprintf("-s -w -X github.com/stillriver/overrun/internal/cli/commands.Version=%s", version)

	fmt.Println("Building overrun...")
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, "./cmd/cli"); err != nil {
		return err
	}
	fmt.Printf("Built: %s (%s)\n", binPath, version)
	return nil
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs the tests with the race detector.
func Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs go vet and golangci-lint.
func Lint() error {
	mg.Deps(Vet)
	if err := sh.RunV("golangci-lint", "run", "./..."); err != nil {
		fmt.Println("golangci-lint not available or failed (install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@latest)")
		return err
	}
	return nil
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	return sh.Rm("./bin")
}

func gitVersion() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty", "--match=v*")
	if err != nil {
		return "dev"
	}
	return strings.TrimSpace(out)
}
