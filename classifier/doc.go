// Package classifier implements the per-packet verdict engine in pure Go.
//
// The same policy runs in kernelspace as an XDP program; this package is the
// userspace rendition of it, used by the nfqueue dataplane and as the
// reference for the packet-handling semantics. It mirrors the sandbox's
// discipline: every field read is preceded by an explicit bounds check, and a
// packet that cannot be parsed safely is aborted rather than inspected
// further.
//
// The package has no dependencies on kernel interfaces and no business logic
// beyond classification itself.
package classifier
