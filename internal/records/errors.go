package records

import "errors"

var (
	// ErrStorageUnavailable wraps any failure of the underlying store to
	// read or write. The repository never retries; that policy belongs to
	// the caller.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrMissingID is returned by Update for a record with no id.
	ErrMissingID = errors.New("record missing id")
)

// IsStorageUnavailable reports whether err is a storage failure.
func IsStorageUnavailable(err error) bool { return errors.Is(err, ErrStorageUnavailable) }

// ImportError records one failed item of an import batch.
type ImportError struct {
	Index int
	Err   error
}

func (e ImportError) Error() string { return e.Err.Error() }

func (e ImportError) Unwrap() error { return e.Err }

// ImportReport summarizes a batch import. Per-item failures never abort the
// rest of the batch; partial success is reported, not escalated.
type ImportReport struct {
	Added  int
	Failed int
	Errors []ImportError
}
