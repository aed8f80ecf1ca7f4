package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name,omitempty"`
	// MaxQueue caps the server-side outbound queue for this connection.
	MaxQueue int `json:"max_queue,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	WorldParams     WorldParams `json:"world_params"`
	// MaxBatch is the largest query batch the server accepts.
	MaxBatch int `json:"max_batch"`
}

// WorldParams pin down the generated world: a client holding equal params
// can reproduce every query result locally.
type WorldParams struct {
	Seed       int64   `json:"seed"`
	MixVersion int     `json:"mix_version"`
	VoxelScale float64 `json:"voxel_scale"`
	RegionSize float64 `json:"region_size"`
	// ConfigDigest is the sha256 hex of the canonical serialized config.
	ConfigDigest string `json:"config_digest"`
}

// QUERY (client -> server). X and Z are parallel arrays; element i of the
// result depends only on (X[i], Z[i]).
type QueryMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	ID              string    `json:"id"`
	Op              string    `json:"op"`
	X               []float64 `json:"x"`
	Z               []float64 `json:"z"`
}

// RESULT (server -> client). Only the arrays for the requested op are
// populated; all populated arrays are parallel to the query coordinates.
// Codes[i] is empty for a clean element, or a per-element error code.
type ResultMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id"`
	Op              string `json:"op"`
	Count           int    `json:"count"`

	Elevation []float64 `json:"elevation,omitempty"`

	Temperature   []float64 `json:"temperature,omitempty"`
	Precipitation []float64 `json:"precipitation,omitempty"`
	Humidity      []float64 `json:"humidity,omitempty"`

	HasRiver []bool    `json:"has_river,omitempty"`
	Width    []float64 `json:"width,omitempty"`
	Depth    []float64 `json:"depth,omitempty"`
	Flow     []float64 `json:"flow,omitempty"`
	Velocity []float64 `json:"velocity,omitempty"`
	Order    []int     `json:"order,omitempty"`

	Biome []string `json:"biome,omitempty"`

	RegionX []int `json:"region_x,omitempty"`
	RegionZ []int `json:"region_z,omitempty"`

	Codes []string `json:"codes,omitempty"`
}

// ERROR (server -> client): the whole request failed, no per-element results.
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id,omitempty"`
	Code            string `json:"code"`
	Message         string `json:"message,omitempty"`
}
