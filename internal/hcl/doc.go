// Package hcl implements config.Loader for HCL pipeline files.
//
// Expressions may reference two variables: `mode` (an object with the
// boolean `production` and the string `name`) and `env` (a map of the
// process environment), so a single file can describe both builds:
//
//	output_dir = mode.production ? "build" : "dist"
package hcl
