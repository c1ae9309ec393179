//go:build mage

// Package main provides build targets for the keeper project using Mage.
//
// Usage:
//
//	mage build          Compile keeper binary to bin/
//	mage test:all       Run all tests
//	mage test:unit      Run tests without the CLI package
//	mage test:race      Run all tests with the race detector
//	mage test:cover     Run all tests and write coverage.out
//	mage lint           Run golangci-lint
//	mage vet            Run go vet
//	mage clean          Remove build artifacts
//	mage install        Install keeper to GOPATH/bin
//	mage stats          Print Go LOC per package
package main
