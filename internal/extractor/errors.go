package extractor

import "errors"

// Error taxonomy for the extraction pipeline. Only ErrUnreadableInput is
// fatal to a whole extraction; every other failure is caught at the stage
// that produced it and degrades to field absence.
var (
	// ErrUnreadableInput means the file's byte buffer could not be read at
	// all. The orchestrator surfaces this to the caller as an overall
	// failure.
	ErrUnreadableInput = errors.New("input bytes unreadable")

	// ErrDecodeTimeout means a bounded image/media decode ran past its
	// deadline.
	ErrDecodeTimeout = errors.New("decode timed out")

	// ErrDecodeFailure means a decoder rejected the bytes outright.
	ErrDecodeFailure = errors.New("decode failed")

	// ErrStructuralParse means a heuristic structural scan (PDF, ZIP)
	// could not make sense of the buffer.
	ErrStructuralParse = errors.New("structural parse failed")

	// ErrClassificationMiss means no format extractor applies to the
	// declared type; only universal fields are populated.
	ErrClassificationMiss = errors.New("no format extractor applies")

	// ErrSuperseded means a newer submission cancelled this extraction;
	// its result must be discarded, never merged.
	ErrSuperseded = errors.New("extraction superseded by newer submission")
)
