package codes

// ErrorCodes maps conventional process exit codes to their descriptions.
// Preprocessors and minifiers invoked by filters follow POSIX shell conventions.
var ErrorCodes = map[int]string{
	0:   "Success",
	1:   "General failure",
	2:   "Misuse of command or invalid arguments",
	64:  "Command line usage error",
	65:  "Data format error",
	66:  "Cannot open input",
	69:  "Service unavailable",
	70:  "Internal software error",
	73:  "Cannot create output file",
	74:  "Input/output error",
	126: "Command found but not executable",
	127: "Command not found",
	128: "Invalid exit argument",
	130: "Terminated by Ctrl-C",
	137: "Killed",
	143: "Terminated",
}

// IsSuccess returns true if the exit code indicates a successful run
func IsSuccess(code int) bool {
	return code == 0
}

// GetErrorMessage returns the error message for a given exit code, or a generic message if unknown
func GetErrorMessage(code int) string {
	if msg, ok := ErrorCodes[code]; ok {
		return msg
	}

	return "Unknown error"
}
