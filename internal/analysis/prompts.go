package analysis

import "visadocs-backend/internal/documents"

const basePrompt = `Analyze this immigration document and extract key information. Return your response in the following JSON format:
{
  "summary": "Brief 2-3 sentence summary of the document",
  "keyDates": [
    {
      "label": "Date description",
      "date": "YYYY-MM-DD",
      "importance": "critical|important|info"
    }
  ],
  "nextSteps": ["Step 1", "Step 2", "Step 3"],
  "warnings": ["Warning 1", "Warning 2"],
  "details": {
    // Document-specific fields
  }
}`

const i94Prompt = basePrompt + `

For I-94 documents, extract:
- Admission number
- Entry date
- Admit until date (or D/S for duration of status)
- Class of admission (visa type)
- Port of entry
- Any important warnings about status expiration

In the details object, include: admissionNumber, entryDate, admitUntilDate, classOfAdmission, portOfEntry`

const i20Prompt = basePrompt + `

For I-20 documents, extract:
- SEVIS ID
- Program start and end dates
- School name
- Degree level and major
- OPT/CPT eligibility dates
- Travel signature expiration
- Any important warnings about maintaining F-1 status

In the details object, include: sevisId, schoolName, programStartDate, programEndDate, degreeLevel, major`

const h1bPrompt = basePrompt + `

For H-1B documents, extract:
- Petition receipt number
- Validity period (start and end dates)
- Employer name
- Job title
- Prevailing wage
- Any important warnings about status maintenance

In the details object, include: receiptNumber, validityStart, validityEnd, employerName, jobTitle`

// AnalysisPrompt returns the extraction prompt for a document type. Unknown
// types get the base envelope only.
func AnalysisPrompt(docType string) string {
	switch docType {
	case documents.TypeI94:
		return i94Prompt
	case documents.TypeI20:
		return i20Prompt
	case documents.TypeH1B:
		return h1bPrompt
	default:
		return basePrompt
	}
}
