package manifest

// ReductionManifest represents the structure of the run summary file.
// It records what went in, what came out, and the counts at each stage,
// so a build can check the trimmed files without opening them.
type ReductionManifest struct {
	GeneratedAt string          `json:"generated_at" yaml:"generated_at"`
	Limit       int             `json:"limit" yaml:"limit"`
	Inputs      Inputs          `json:"inputs" yaml:"inputs"`
	Counts      Counts          `json:"counts" yaml:"counts"`
	Outputs     []OutputSummary `json:"outputs" yaml:"outputs"`
	TotalMB     float64         `json:"total_mb" yaml:"total_mb"`
}

// Inputs names the two source documents.
type Inputs struct {
	Vocabulary string `json:"vocabulary" yaml:"vocabulary"`
	Examples   string `json:"examples" yaml:"examples"`
}

// Counts mirrors the console progress report.
type Counts struct {
	Vocabulary       int `json:"vocabulary" yaml:"vocabulary"`
	Examples         int `json:"examples" yaml:"examples"`
	WithExamples     int `json:"with_examples" yaml:"with_examples"`
	Kept             int `json:"kept" yaml:"kept"`
	SelectedExamples int `json:"selected_examples" yaml:"selected_examples"`
}

// OutputSummary describes one written output file.
type OutputSummary struct {
	Kind      string  `json:"kind" yaml:"kind"` // "vocabulary" or "examples"
	Path      string  `json:"path" yaml:"path"`
	Records   int     `json:"records" yaml:"records"`
	SizeBytes int64   `json:"size_bytes" yaml:"size_bytes"`
	SizeMB    float64 `json:"size_mb" yaml:"size_mb"`
	SHA256    string  `json:"sha256" yaml:"sha256"`
}
