package errors

// ErrorCode identifies an application error category.
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1003

	// Input
	ErrorCode_INVALID_TIER          ErrorCode = 2000
	ErrorCode_UNSUPPORTED_FILE_TYPE ErrorCode = 2001
	ErrorCode_FILE_TOO_LARGE        ErrorCode = 2002
	ErrorCode_EMPTY_FILE            ErrorCode = 2003
	ErrorCode_PARSE_FAILED          ErrorCode = 2004

	// Pipeline ports
	ErrorCode_EXTRACTION_FAILED ErrorCode = 3000
	ErrorCode_SENTIMENT_FAILED  ErrorCode = 3001
	ErrorCode_REDACTION_FAILED  ErrorCode = 3002
	ErrorCode_PROCESSING_FAILED ErrorCode = 3003

	// Storage
	ErrorCode_STORAGE_FAILED ErrorCode = 4000
	ErrorCode_SEARCH_FAILED  ErrorCode = 4001
	ErrorCode_ARCHIVE_FAILED ErrorCode = 4002
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:               "OK",
	ErrorCode_INTERNAL:              "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:      "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:             "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:       "INVALID_PAYLOAD",
	ErrorCode_INVALID_TIER:          "INVALID_TIER",
	ErrorCode_UNSUPPORTED_FILE_TYPE: "UNSUPPORTED_FILE_TYPE",
	ErrorCode_FILE_TOO_LARGE:        "FILE_TOO_LARGE",
	ErrorCode_EMPTY_FILE:            "EMPTY_FILE",
	ErrorCode_PARSE_FAILED:          "PARSE_FAILED",
	ErrorCode_EXTRACTION_FAILED:     "EXTRACTION_FAILED",
	ErrorCode_SENTIMENT_FAILED:      "SENTIMENT_FAILED",
	ErrorCode_REDACTION_FAILED:      "REDACTION_FAILED",
	ErrorCode_PROCESSING_FAILED:     "PROCESSING_FAILED",
	ErrorCode_STORAGE_FAILED:        "STORAGE_FAILED",
	ErrorCode_SEARCH_FAILED:         "SEARCH_FAILED",
	ErrorCode_ARCHIVE_FAILED:        "ARCHIVE_FAILED",
}

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
