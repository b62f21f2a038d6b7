package domain

// DuplicatePolicy decides what happens to cards Anki reports as duplicates
type DuplicatePolicy string

const (
	DuplicateSkip      DuplicatePolicy = "skip"
	DuplicateAddAnyway DuplicatePolicy = "add_anyway"
)

// Valid reports whether p is a known policy
func (p DuplicatePolicy) Valid() bool {
	return p == DuplicateSkip || p == DuplicateAddAnyway
}

// ProcessingError records a per-card or per-chunk failure that did not abort the batch
type ProcessingError struct {
	Context string `json:"context"`
	Message string `json:"message"`
}

// UploadBatchResult is the outcome of one upload call.
//
// Every input card is counted exactly once as successful, failed or skipped
// duplicate, so SuccessfulUploads+FailedUploads+SkippedDuplicates equals
// TotalCards. NoteIDs has one entry per input card, nil where no note was
// created. AddedDuplicates counts duplicates uploaded under add_anyway; they
// are also counted as successful.
type UploadBatchResult struct {
	Success           bool              `json:"success"`
	Error             string            `json:"error,omitempty"`
	BatchID           string            `json:"batch_id,omitempty"`
	DeckName          string            `json:"deck_name"`
	TotalCards        int               `json:"total_cards"`
	SuccessfulUploads int               `json:"successful_uploads"`
	FailedUploads     int               `json:"failed_uploads"`
	SkippedDuplicates *int              `json:"skipped_duplicates,omitempty"`
	AddedDuplicates   *int              `json:"added_duplicates,omitempty"`
	NoteIDs           []*int64          `json:"note_ids"`
	ProcessingErrors  []ProcessingError `json:"processing_errors"`
	Warnings          []string          `json:"warnings,omitempty"`
}

// Skipped returns the skipped duplicate count, zero when duplicates were not checked
func (r *UploadBatchResult) Skipped() int {
	if r.SkippedDuplicates == nil {
		return 0
	}
	return *r.SkippedDuplicates
}

// Added returns the added duplicate count, zero when duplicates were not checked
func (r *UploadBatchResult) Added() int {
	if r.AddedDuplicates == nil {
		return 0
	}
	return *r.AddedDuplicates
}

// CreatedNoteIDs returns the ids of notes that were created, in input order
func (r *UploadBatchResult) CreatedNoteIDs() []int64 {
	ids := make([]int64, 0, len(r.NoteIDs))
	for _, id := range r.NoteIDs {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}
