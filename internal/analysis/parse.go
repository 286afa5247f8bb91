package analysis

import (
	"encoding/json"
	"strings"

	"visadocs-backend/internal/documents"
)

const summaryTruncateLen = 200

// ExtractJSON slices the candidate JSON object out of free-form model output:
// everything from the first '{' through the last '}'. Models tend to wrap the
// object in prose or code fences.
func ExtractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// ParseResult turns raw model output into an analysis result. When the output
// carries a parseable JSON object it is decoded as-is; otherwise a degraded
// result built from the raw text is returned, with ok=false.
func ParseResult(text string) (documents.AnalysisResult, bool) {
	if candidate, found := ExtractJSON(text); found {
		var result documents.AnalysisResult
		if err := json.Unmarshal([]byte(candidate), &result); err == nil {
			return result, true
		}
	}
	return degradedResult(text), false
}

func degradedResult(text string) documents.AnalysisResult {
	return documents.AnalysisResult{
		Summary:   truncateSummary(text),
		KeyDates:  []documents.KeyDate{},
		NextSteps: []string{"Review the document carefully", "Consult with an immigration attorney"},
		Warnings:  []string{"Unable to fully parse document. Please review manually."},
		Details:   map[string]any{"rawText": text},
	}
}

func truncateSummary(text string) string {
	runes := []rune(text)
	if len(runes) > summaryTruncateLen {
		runes = runes[:summaryTruncateLen]
	}
	return string(runes) + "..."
}
