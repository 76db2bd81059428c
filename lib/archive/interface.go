package archive

import (
	"errors"
	"github.com/ValentinKolb/archbench/lib/payload"
	"io"
)

var (
	// ErrUnsupportedPayload is returned for payload kinds an archive cannot handle
	ErrUnsupportedPayload = errors.New("unsupported payload")
	// ErrUnknownArchive is returned by Get for names that were never registered
	ErrUnknownArchive = errors.New("unknown archive")
)

// IArchive is the interface for all archive adapters
type IArchive interface {
	// Name returns the name the archive is registered under
	Name() string
	// Save writes the complete encoding of data to w before returning
	Save(w io.Writer, data payload.Payload) error
	// Load reads an encoding from r and stores the result in out.
	// out must be an empty payload of the kind that was saved, as
	// returned by payload.Payload.Empty. Checking the kind is best effort:
	// formats that record it return an error on a mismatch, protobuf and
	// capnp do not record it and may reinterpret the data.
	Load(r io.Reader, out payload.Payload) error
}

// Pair groups the two archives a test compares. Ratios are always
// reported as Candidate / Baseline.
type Pair struct {
	Baseline  IArchive
	Candidate IArchive
}

// Binary returns the fixed pairing of the two binary archives compared by
// default: protobuf wire format as the baseline and Cap'n Proto as the
// candidate
func Binary() Pair {
	return Pair{
		Baseline:  NewProtobufArchive(),
		Candidate: NewCapnpArchive(),
	}
}
