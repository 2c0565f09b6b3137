// Package mmap provides read-only memory-mapped file access.
//
// The data files of a record store can be many gigabytes; mapping them
// lets record reads return views into the page cache instead of copying
// through read(2). Mappings are immutable and safe for concurrent reads.
// Close is idempotent; views into Bytes() become invalid after Close.
//
// Unix platforms use mmap(2) with optional madvise(2) hints. Windows uses
// CreateFileMapping/MapViewOfFile and treats hints as no-ops.
package mmap
