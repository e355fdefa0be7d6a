package services

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// recordNamespace seeds deterministic record IDs.
var recordNamespace = uuid.MustParse("6f1c2b1e-4d0a-4a5e-9a43-5f3b0e8c7d21")

// NewDocID returns a fresh random document ID.
func NewDocID() string {
	return uuid.NewString()
}

// NewBatchID returns the ID shared by every record written in one ingest call.
func NewBatchID() string {
	return uuid.NewString()
}

// RecordID returns the ID for the ordinal-th record of kind written by
// batch into docID. IDs are stable within a batch and distinct across
// batches, so a second ingest into the same document adds records.
// Without a doc ID a random ID is returned.
func RecordID(docID, batch string, kind domain.RecordKind, ordinal int) string {
	if docID == "" {
		return uuid.NewString()
	}
	name := docID + "/" + batch + "/" + kind.String() + "/" + strconv.Itoa(ordinal)
	return uuid.NewSHA1(recordNamespace, []byte(name)).String()
}
