// Package fetch downloads prepared voxdata store files from remote
// storage. Speech corpora are typically preprocessed once (mel spectrograms,
// token id sequences, alignments) and published as .idx/.bin pairs on object
// storage or an HTTP mirror; training hosts pull them down before opening
// local readers.
//
// A Source abstracts where objects come from (S3, MinIO, HTTP). Download
// fetches the index and data file of one prefix concurrently, transparently
// decompressing objects published with a .gz or .lz4 suffix, and renames
// completed files into place so an interrupted download never leaves a
// half-written store behind.
//
//	src, _ := fetch.NewS3SourceFromEnv(ctx, "corpora", "ljspeech/v1")
//	if err := fetch.Download(ctx, src, "mel", "data/mel"); err != nil { ... }
//	r, _ := voxdata.Open("data/mel")
//
// Downloads are not retried; errors surface to the caller.
package fetch
