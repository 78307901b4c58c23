// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Run store (sqlite/postgres), simulation time events, config file and env support
// 0.2.0 - Sky view with generated population, evolution over simulation time
// 0.1.0 - Initial release: PARSEC track catalog, population generator, headless summary
