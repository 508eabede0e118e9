package domain

// AnalysisStatus tracks an analysis through the upload pipeline
type AnalysisStatus string

const (
	AnalysisPending    AnalysisStatus = "pending"
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisCompleted  AnalysisStatus = "completed"
	AnalysisFailed     AnalysisStatus = "failed"
)

var analysisStatusLabels = map[AnalysisStatus]string{
	AnalysisPending:    "Pending",
	AnalysisProcessing: "Processing",
	AnalysisCompleted:  "Completed",
	AnalysisFailed:     "Failed",
}

// Label returns a human-readable label for an analysis status.
func (s AnalysisStatus) Label() string {
	if label, ok := analysisStatusLabels[s]; ok {
		return label
	}

	return "Unknown"
}
