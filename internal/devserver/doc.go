// Package devserver serves the output tree during development, with a health
// endpoint and the live-reload hub mounted alongside the static files.
package devserver
