//go:build mage

// Package main provides build targets for the tradestate project using Mage.
//
// Usage:
//
//	mage build      Compile the tradestate binary to bin/
//	mage test       Run all tests
//	mage race       Run all tests with the race detector
//	mage golden     Regenerate golden files
//	mage lint       Run golangci-lint
//	mage clean      Remove build artifacts
//	mage install    Install tradestate to GOPATH/bin
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "tradestate"
	binaryDir  = "bin"
	cmdDir     = "./cmd/tradestate"
)

// goldenPkgs hold tests that compare against testdata/golden.
var goldenPkgs = []string{"./internal/persist/..."}

// Build compiles the tradestate binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// Race runs all tests with the race detector.
func Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Golden regenerates golden files from the current output.
func Golden() error {
	args := append([]string{"test"}, goldenPkgs...)
	return sh.RunV(binGo, append(args, "-update")...)
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
