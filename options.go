package voxdata

import (
	"github.com/voxkit/voxdata/internal/fs"
)

// AccessPattern hints how a mapped data file will be read.
type AccessPattern int

const (
	// AccessDefault gives no specific advice.
	AccessDefault AccessPattern = iota
	// AccessSequential expects records to be read front to back.
	AccessSequential
	// AccessRandom expects scattered record lookups (shuffled iteration).
	AccessRandom
	// AccessWillNeed expects the whole data file to be touched soon.
	AccessWillNeed
)

type options struct {
	fs      fs.FileSystem
	logger  *Logger
	preload bool
	advise  AccessPattern
}

// Option configures Create, Open and NewDataset.
type Option func(*options)

// WithFileSystem overrides the file system used for writer output.
// Intended for tests; the default is the local file system.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithLogger configures structured logging. Pass nil to disable.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPreload selects the eager reader variant: both the index and the data
// file are loaded fully into memory at open time and no file handle is kept.
// Memory cost scales with dataset size; prefer the default memory-mapped
// variant for large corpora.
func WithPreload() Option {
	return func(o *options) {
		o.preload = true
	}
}

// WithAccessPattern sets the madvise hint applied to the mapped data file.
// The default is AccessRandom, matching shuffled dataset iteration. Ignored
// by the preload variant.
func WithAccessPattern(p AccessPattern) Option {
	return func(o *options) {
		o.advise = p
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		fs:     fs.Default,
		logger: NoopLogger(),
		advise: AccessRandom,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
