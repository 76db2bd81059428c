// Package archive wraps external serialization libraries behind a uniform
// save/load interface so the benchmark harness can time any of them
// without knowing which library is in use.
//
// Key Components:
//
//   - IArchive: Core interface that all archive adapters must satisfy.
//
//   - protobufArchive: Protocol Buffers wire format written and read with
//     protowire. Records and children are repeated embedded messages; the
//     base record of a child is its first field.
//
//   - capnpArchive: Cap'n Proto messages built from schema-less structs and
//     lists. Records are composite lists with a 24 byte data section.
//
//   - flatbuffersArchive: FlatBuffers tables with records stored as inline
//     structs. Limited to buffers below 2 GiB by the format.
//
//   - gobArchive: Go's gob encoding of the payload slices.
//
//   - binaryArchive: A fixed-width big-endian framing written with
//     encoding/binary, useful as a lower bound for the other formats.
//
// Registry:
//
//	Every adapter registers itself by name during package initialisation.
//	Get and Names give the command line access to the registered adapters:
//
//	  a, err := archive.Get("capnp")
//	  err = a.Save(&buf, data)
//	  out := data.Empty()
//	  err = a.Load(&buf, out)
//
// Thread Safety:
//
//	All adapters are stateless and safe for concurrent use.
package archive
