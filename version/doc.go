// Package version reports build information for the apicall binary.
//
// Values are set at link time and fall back to the VCS stamps of the
// build:
//
//	go build -ldflags "-X github.com/kbukum/apiclient/version.Version=1.0.0" ./cmd/apicall
package version
