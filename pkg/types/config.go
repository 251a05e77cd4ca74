package types

// LayoutConfig holds the page geometry thresholds used by line building and
// event segmentation. The defaults are tuned to one calendar export format
// and are expected to be adjusted for others.
type LayoutConfig struct {
	// LineTolerance is the maximum vertical distance between consecutive
	// tokens that still belong to the same line (default 3).
	LineTolerance float64 `json:"line_tolerance" yaml:"line_tolerance" mapstructure:"line_tolerance"`

	// TimeColumnX is the x position at or left of which a token belongs to
	// the time column (default 70).
	TimeColumnX float64 `json:"time_column_x" yaml:"time_column_x" mapstructure:"time_column_x"`

	// IndentThreshold is how far right of the open event's leftmost
	// position a line must start to be treated as a new entry (default 25).
	IndentThreshold float64 `json:"indent_threshold" yaml:"indent_threshold" mapstructure:"indent_threshold"`

	// FooterMinX is the x position right of which a digits-only line is
	// taken as a page number footer (default 200).
	FooterMinX float64 `json:"footer_min_x" yaml:"footer_min_x" mapstructure:"footer_min_x"`
}

// DefaultLayoutConfig returns the thresholds for the calendar format the
// heuristics were developed against.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		LineTolerance:   3,
		TimeColumnX:     70,
		IndentThreshold: 25,
		FooterMinX:      200,
	}
}

// withDefaults fills zero thresholds from DefaultLayoutConfig.
func (c LayoutConfig) withDefaults() LayoutConfig {
	d := DefaultLayoutConfig()
	if c.LineTolerance <= 0 {
		c.LineTolerance = d.LineTolerance
	}
	if c.TimeColumnX <= 0 {
		c.TimeColumnX = d.TimeColumnX
	}
	if c.IndentThreshold <= 0 {
		c.IndentThreshold = d.IndentThreshold
	}
	if c.FooterMinX <= 0 {
		c.FooterMinX = d.FooterMinX
	}
	return c
}

// ExtractConfig groups everything the extraction pipeline needs.
type ExtractConfig struct {
	Layout     LayoutConfig `json:"layout" yaml:"layout" mapstructure:"layout"`
	Vocabulary Vocabulary   `json:"vocabulary" yaml:"vocabulary" mapstructure:"vocabulary"`
}

// DefaultExtractConfig returns the default layout and vocabulary.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		Layout:     DefaultLayoutConfig(),
		Vocabulary: DefaultVocabulary(),
	}
}

// Normalized returns a copy with zero thresholds and empty vocabulary
// tables replaced by their defaults.
func (c ExtractConfig) Normalized() ExtractConfig {
	c.Layout = c.Layout.withDefaults()
	c.Vocabulary = c.Vocabulary.Merge(DefaultVocabulary())
	return c
}

// OutputFormat selects the record output format.
type OutputFormat string

const (
	FormatCSV  OutputFormat = "csv"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatICS  OutputFormat = "ics"
)

// StoreConfig holds settings for the calendar store.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "calendar.db").
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// MaxResults is the default query limit (default 100).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ServeConfig holds settings for the web UI.
type ServeConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// MaxUploadMB caps the size of an uploaded archive (default 64).
	MaxUploadMB int64 `json:"max_upload_mb" yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
}
