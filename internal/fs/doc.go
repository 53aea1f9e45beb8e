// Package fs abstracts the filesystem writes of the kernel cache for fault
// injection.
//
//   - [LocalFS]: production implementation on the os package
//   - [FaultyFS]: test wrapper that fails writes, syncs or renames
//
// [WriteFileAtomic] writes a file through a temporary sibling and a rename,
// so readers never observe a partially written kernel.
package fs
