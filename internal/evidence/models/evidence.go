// Package models defines evidence file metadata. File bytes live in object
// storage keyed by StorageKey; the service only tracks metadata and issues
// upload locations.
package models

import (
	"time"

	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
)

const maxFileSizeBytes = 25 << 20

var allowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

type EvidenceFile struct {
	ID         id.EvidenceID `json:"id"`
	ClaimID    id.ClaimID    `json:"claim_id"`
	UploadedBy id.UserID     `json:"uploaded_by"`

	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	StorageKey  string `json:"storage_key"`

	CreatedAt time.Time `json:"created_at"`
}

func NewEvidenceFile(fileID id.EvidenceID, claimID id.ClaimID, uploadedBy id.UserID,
	fileName, contentType string, sizeBytes int64, storageKey string, now time.Time) (*EvidenceFile, error) {
	switch {
	case fileName == "":
		return nil, dErrors.New(dErrors.CodeValidation, "file_name is required")
	case !allowedContentTypes[contentType]:
		return nil, dErrors.New(dErrors.CodeValidation, "content_type must be application/pdf, image/jpeg, or image/png")
	case sizeBytes <= 0:
		return nil, dErrors.New(dErrors.CodeValidation, "size_bytes must be positive")
	case sizeBytes > maxFileSizeBytes:
		return nil, dErrors.New(dErrors.CodeValidation, "file exceeds the 25MB limit")
	}
	return &EvidenceFile{
		ID:          fileID,
		ClaimID:     claimID,
		UploadedBy:  uploadedBy,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		StorageKey:  storageKey,
		CreatedAt:   now,
	}, nil
}
