package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeQuery   = "QUERY"
	TypeResult  = "RESULT"
	TypeError   = "ERROR"
)

// Query operations.
const (
	OpElevation           = "elevation"
	OpElevationWithRivers = "elevation_with_rivers"
	OpClimate             = "climate"
	OpRiver               = "river"
	OpBiome               = "biome"
	OpRegionOf            = "region_of"
)

// IsKnownOp reports whether op names a query operation.
func IsKnownOp(op string) bool {
	switch op {
	case OpElevation, OpElevationWithRivers, OpClimate, OpRiver, OpBiome, OpRegionOf:
		return true
	}
	return false
}

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
