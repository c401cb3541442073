// Package version reports the build version. config uses it as the default
// service version for telemetry.
package version
