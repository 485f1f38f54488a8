// Package crawl walks the HTML directory listings of a repository and
// collects the locations of artifact metadata documents.
//
// # Traversal
//
// [Crawler.Discover] walks one directory tree with an explicit work stack.
// A directory whose listing contains a metadata document is terminal: its
// metadata files are collected and its sub-directories are not visited.
// A listing that cannot be fetched abandons that branch only.
//
// # Checkpointing
//
// [Crawler.Crawl] processes the top-level directories of the repository
// one at a time and records each finished directory in a [Store] before
// starting the next, so an interrupted crawl resumes where it stopped.
// Directories that produced no metadata are recorded too, so "finished,
// nothing found" is distinguishable from "not yet processed". Directories
// in which a listing failed are not recorded and are retried on resume.
package crawl
