// Package version provides build version information for the library.
//
// Version can be overridden at build time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/twitterkit/version.Version=1.2.0"
package version

import "runtime/debug"

// Version is the library version. Set at build time, or resolved from
// module build info when left at its default.
var Version = "dev"

// String returns the effective library version.
func String() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == "github.com/kbukum/twitterkit" {
				return dep.Version
			}
		}
	}
	return Version
}

// UserAgent returns the default value for the x-user-agent header
// sent with every request that does not override it.
func UserAgent() string {
	return "twitterkit-go/" + String()
}
