package domain

// BatchDocument is one document submitted to a batch extraction.
type BatchDocument struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// BatchResult pairs a document with either its extraction result or the
// error that stopped it. Exactly one of Result and Err is set; a failed
// document never affects the other documents in the batch.
type BatchResult struct {
	DocumentID string            `json:"document_id"`
	Result     *ExtractionResult `json:"result,omitempty"`
	Err        error             `json:"-"`
}
