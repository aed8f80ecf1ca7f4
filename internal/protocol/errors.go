package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Request layer.
	ErrBadRequest = "E_BAD_REQUEST"
	ErrBadOp      = "E_BAD_OP"
	ErrBatchLimit = "E_BATCH_LIMIT"

	// Per-element results.
	ErrOutOfRange = "E_OUT_OF_RANGE"

	// Construction-time config problems, surfaced over admin paths.
	ErrBadConfig = "E_BAD_CONFIG"

	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadRequest:      {},
	ErrBadOp:           {},
	ErrBatchLimit:      {},
	ErrOutOfRange:      {},
	ErrBadConfig:       {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
