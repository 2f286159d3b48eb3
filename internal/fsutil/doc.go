// Package fsutil provides file system utility functions shared by the tasks:
// glob discovery with `**` patterns and copy/write helpers that create parent
// directories on demand.
package fsutil
