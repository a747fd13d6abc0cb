package connectors

import "fmt"

// BinanceErrorCodes maps the Binance REST error codes a ticker lookup can
// return to short names.
var BinanceErrorCodes = map[int]string{
	-1000: "UNKNOWN",                // unknown error while processing the request
	-1001: "DISCONNECTED",           // internal error, unable to process
	-1003: "TOO_MANY_REQUESTS",      // request weight limit exceeded
	-1007: "TIMEOUT",                // backend timed out
	-1013: "INVALID_MESSAGE",        // request rejected by filters
	-1021: "INVALID_TIMESTAMP",      // timestamp outside recvWindow
	-1100: "ILLEGAL_CHARS",          // illegal characters in a parameter
	-1102: "MANDATORY_PARAM_EMPTY",  // symbol missing
	-1121: "INVALID_SYMBOL",         // pair does not exist
	-1122: "INVALID_SYMBOL_STATUS",  // pair exists but is not trading
	-2013: "NO_SUCH_ORDER",          // not expected on market data, kept for completeness
	-2015: "REJECTED_MBX_KEY",       // api key rejected
}

// GetErrorMsg returns a name for a Binance error code, or a generic one
// including the code.
func GetErrorMsg(code int) string {
	if msg, ok := BinanceErrorCodes[code]; ok {
		return msg
	}
	return fmt.Sprintf("UNKNOWN_BINANCE_ERROR_%d", code)
}
