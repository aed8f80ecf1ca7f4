package protocol

import "fmt"

// ValidateQuery checks a QUERY structurally. It returns an error code and a
// human message, or "" when the request is acceptable. maxBatch <= 0 means
// unlimited.
func ValidateQuery(q QueryMsg, maxBatch int) (code, msg string) {
	if q.ProtocolVersion != Version {
		return ErrProtoBadRequest, fmt.Sprintf("protocol_version %q, want %q", q.ProtocolVersion, Version)
	}
	if q.ID == "" {
		return ErrBadRequest, "missing id"
	}
	if !IsKnownOp(q.Op) {
		return ErrBadOp, fmt.Sprintf("unknown op %q", q.Op)
	}
	if len(q.X) != len(q.Z) {
		return ErrBadRequest, fmt.Sprintf("length mismatch: %d x vs %d z", len(q.X), len(q.Z))
	}
	if len(q.X) == 0 {
		return ErrBadRequest, "empty batch"
	}
	if maxBatch > 0 && len(q.X) > maxBatch {
		return ErrBatchLimit, fmt.Sprintf("batch of %d exceeds limit %d", len(q.X), maxBatch)
	}
	return "", ""
}
