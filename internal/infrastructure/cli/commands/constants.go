package commands

// Error messages
const (
	ErrDoctorServiceUnavailable   = "doctor service unavailable"
	ErrHistoryStoreUnavailable    = "history store unavailable"
	ErrAnalysisServiceUnavailable = "analysis service unavailable"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgNoMatchingHistory        = "No matching history entries."
	MsgHistoryCleared           = "History cleared."
	MsgClearCancelled           = "Clear cancelled."
)

// Output formatting
const (
	// TimestampFormat is used when printing absolute times
	TimestampFormat = "2006-01-02 15:04:05"
	// PreviewLength is the number of code characters shown in history listings
	PreviewLength = 48
	// SpinnerMessage accompanies the spinner while a request is in flight
	SpinnerMessage = "Analyzing..."
)
