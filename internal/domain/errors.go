package domain

import "errors"

var (
	// ErrPrescriptionNotFound is returned when a prescription ID does not exist.
	ErrPrescriptionNotFound = errors.New("prescription not found")

	// ErrConfigNotFound is returned when an extraction config ID does not exist.
	ErrConfigNotFound = errors.New("extraction config not found")

	// ErrNoImageData is returned when processing is requested for a
	// prescription that has no stored image bytes.
	ErrNoImageData = errors.New("prescription has no image data")

	// ErrAllProvidersFailed is returned when every selected model extractor
	// failed for one processing attempt.
	ErrAllProvidersFailed = errors.New("all extraction providers failed")

	// ErrInvalidStatusTransition is returned for lifecycle moves the state
	// machine does not allow (e.g. retrying a completed prescription).
	ErrInvalidStatusTransition = errors.New("invalid processing status transition")

	// ErrForceRequired is returned when deleting a completed prescription
	// without the force flag.
	ErrForceRequired = errors.New("force flag required to delete a completed prescription")

	// ErrUnsupportedFileType is returned for uploads that are not JPEG or PNG.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrFileTooLarge is returned when an uploaded image exceeds the size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")

	// ErrTooManyFiles is returned when an upload batch exceeds the file limit.
	ErrTooManyFiles = errors.New("too many files in upload batch")

	// ErrNoFieldUpdates is returned when a field-correction request carries
	// no updates.
	ErrNoFieldUpdates = errors.New("no field updates provided")
)
