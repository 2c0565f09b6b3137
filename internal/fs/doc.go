// Package fs abstracts the handful of file system operations the store
// performs so that failure paths (short writes, failing sync or close)
// can be exercised in tests.
package fs
