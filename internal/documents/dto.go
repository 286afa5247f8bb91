package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID     string          `json:"documentId"`
	Type           string          `json:"type"`
	FileName       string          `json:"fileName"`
	FileID         string          `json:"fileId"`
	UploadedAt     time.Time       `json:"uploadedAt"`
	Status         string          `json:"status"`
	AnalysisResult *AnalysisResult `json:"analysisResult,omitempty"`
}

// DocumentDetailResponse adds the resolved file URL for single-document reads.
// FileURL is null when the stored file could not be resolved.
type DocumentDetailResponse struct {
	DocumentResponse
	FileURL *string `json:"fileUrl"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:     doc.ID,
		Type:           doc.Type,
		FileName:       doc.FileName,
		FileID:         doc.FileID,
		UploadedAt:     doc.UploadedAt,
		Status:         doc.Status,
		AnalysisResult: doc.AnalysisResult,
	}
}

func toDetailResponse(doc Document, fileURL string) DocumentDetailResponse {
	resp := DocumentDetailResponse{DocumentResponse: toResponse(doc)}
	if fileURL != "" {
		resp.FileURL = &fileURL
	}
	return resp
}
