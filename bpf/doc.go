// Package bpf provides an interface for interacting with the kernelspace
// components of the pingdrop program.
//
// LoadFilter loads the XDP collection from an ELF object and Filter.Attach
// binds it to an interface's ingress hook. Filter.Start drains the packet
// event ring buffer until its context is canceled; Filter.PollEvents surfaces
// the security-monitor event table.
//
// This package is intended as an interface to kernelspace, without containing
// specific business logic.
package bpf
