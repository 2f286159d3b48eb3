// Package registry provides the central "glue" for the module system.
//
// The Registry maps the task names used on the command line and in targets
// (e.g., "styles") to the compiled Go implementations registered by the
// packages under modules/. It is populated once at startup and then
// validated against every target the application knows, so a typo in a
// target definition fails before any file is touched.
package registry
