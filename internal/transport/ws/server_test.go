package ws

import (
	"log"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lebowski36/Voxel-Castle-sub000/internal/protocol"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen"
)

type memRecorder struct {
	mu      sync.Mutex
	entries []QueryLogEntry
}

func (m *memRecorder) WriteQuery(v QueryLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, v)
	return nil
}

func dialTestServer(t *testing.T, rec QueryRecorder, maxBatch int) *websocket.Conn {
	t.Helper()
	gen, err := worldgen.New(12345, worldgen.DefaultConfig())
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	logger := log.New(os.Stderr, "[test] ", 0)
	srv := httptest.NewServer(NewServer(gen, logger, rec, maxBatch).Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func handshakeTest(t *testing.T, conn *websocket.Conn) protocol.WelcomeMsg {
	t.Helper()
	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      "test",
	}
	if err := conn.WriteJSON(hello); err != nil {
		t.Fatalf("send HELLO: %v", err)
	}
	var welcome protocol.WelcomeMsg
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read WELCOME: %v", err)
	}
	if welcome.Type != protocol.TypeWelcome {
		t.Fatalf("unexpected handshake reply: %+v", welcome)
	}
	return welcome
}

func TestHandshake_WorldParams(t *testing.T) {
	conn := dialTestServer(t, nil, 1024)
	welcome := handshakeTest(t, conn)
	if welcome.WorldParams.Seed != 12345 {
		t.Fatalf("seed = %d", welcome.WorldParams.Seed)
	}
	if welcome.WorldParams.ConfigDigest != worldgen.DefaultConfig().Digest() {
		t.Fatalf("config digest mismatch")
	}
	if welcome.MaxBatch != 1024 {
		t.Fatalf("max_batch = %d", welcome.MaxBatch)
	}
}

func TestQuery_ElevationMatchesGenerator(t *testing.T) {
	rec := &memRecorder{}
	conn := dialTestServer(t, rec, 1024)
	handshakeTest(t, conn)

	q := protocol.QueryMsg{
		Type:            protocol.TypeQuery,
		ProtocolVersion: protocol.Version,
		ID:              "q1",
		Op:              protocol.OpElevation,
		X:               []float64{-6250, 1000, 0},
		Z:               []float64{-6250, 2000, 0},
	}
	if err := conn.WriteJSON(q); err != nil {
		t.Fatalf("send QUERY: %v", err)
	}
	var res protocol.ResultMsg
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	if err := conn.ReadJSON(&res); err != nil {
		t.Fatalf("read RESULT: %v", err)
	}
	if res.Type != protocol.TypeResult || res.ID != "q1" || res.Count != 3 {
		t.Fatalf("unexpected result header: %+v", res)
	}

	gen, _ := worldgen.New(12345, worldgen.DefaultConfig())
	for i := range q.X {
		if res.Codes[i] != "" {
			t.Fatalf("element %d code %q", i, res.Codes[i])
		}
		want, _ := gen.Elevation(q.X[i], q.Z[i])
		if res.Elevation[i] != want {
			t.Fatalf("element %d: %v, want %v", i, res.Elevation[i], want)
		}
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.entries) != 1 || rec.entries[0].Op != protocol.OpElevation || rec.entries[0].Count != 3 {
		t.Fatalf("query log entries: %+v", rec.entries)
	}
}

func TestQuery_BadOpAndBatchLimit(t *testing.T) {
	conn := dialTestServer(t, nil, 2)
	handshakeTest(t, conn)

	send := func(q protocol.QueryMsg) protocol.ErrorMsg {
		t.Helper()
		if err := conn.WriteJSON(q); err != nil {
			t.Fatalf("send: %v", err)
		}
		var e protocol.ErrorMsg
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&e); err != nil {
			t.Fatalf("read: %v", err)
		}
		if e.Type != protocol.TypeError {
			t.Fatalf("expected ERROR, got %+v", e)
		}
		return e
	}

	e := send(protocol.QueryMsg{
		Type: protocol.TypeQuery, ProtocolVersion: protocol.Version,
		ID: "bad-op", Op: "volcano", X: []float64{0}, Z: []float64{0},
	})
	if e.Code != protocol.ErrBadOp || e.ID != "bad-op" {
		t.Fatalf("bad op reply: %+v", e)
	}

	e = send(protocol.QueryMsg{
		Type: protocol.TypeQuery, ProtocolVersion: protocol.Version,
		ID: "too-big", Op: protocol.OpElevation,
		X: []float64{0, 1, 2}, Z: []float64{0, 1, 2},
	})
	if e.Code != protocol.ErrBatchLimit {
		t.Fatalf("batch limit reply: %+v", e)
	}

	e = send(protocol.QueryMsg{
		Type: protocol.TypeQuery, ProtocolVersion: "0.1",
		ID: "old", Op: protocol.OpElevation, X: []float64{0}, Z: []float64{0},
	})
	if e.Code != protocol.ErrProtoBadRequest {
		t.Fatalf("version reply: %+v", e)
	}
}

func TestQuery_MalformedBody(t *testing.T) {
	conn := dialTestServer(t, nil, 0)
	handshakeTest(t, conn)

	// 1e999 overflows float64, so decoding the coordinate array fails.
	q := []byte(`{"type":"QUERY","protocol_version":"1.0","id":"q1","op":"elevation","x":[1e999],"z":[0]}`)
	if err := conn.WriteMessage(websocket.TextMessage, q); err != nil {
		t.Fatalf("send: %v", err)
	}
	var e protocol.ErrorMsg
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&e); err != nil {
		t.Fatalf("read: %v", err)
	}
	if e.Type != protocol.TypeError || e.Code != protocol.ErrProtoBadRequest {
		t.Fatalf("expected %s ERROR, got %+v", protocol.ErrProtoBadRequest, e)
	}
}

func TestQuery_RegionOfAndRiver(t *testing.T) {
	conn := dialTestServer(t, nil, 1024)
	handshakeTest(t, conn)

	q := protocol.QueryMsg{
		Type:            protocol.TypeQuery,
		ProtocolVersion: protocol.Version,
		ID:              "r1",
		Op:              protocol.OpRegionOf,
		X:               []float64{-6250, 0},
		Z:               []float64{-6250, 0},
	}
	if err := conn.WriteJSON(q); err != nil {
		t.Fatalf("send: %v", err)
	}
	var res protocol.ResultMsg
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&res); err != nil {
		t.Fatalf("read: %v", err)
	}
	if res.RegionX[0] != -1 || res.RegionZ[0] != -1 || res.RegionX[1] != 0 || res.RegionZ[1] != 0 {
		t.Fatalf("region_of result: %+v", res)
	}

	q = protocol.QueryMsg{
		Type:            protocol.TypeQuery,
		ProtocolVersion: protocol.Version,
		ID:              "r2",
		Op:              protocol.OpRiver,
		X:               []float64{-6250},
		Z:               []float64{-6250},
	}
	if err := conn.WriteJSON(q); err != nil {
		t.Fatalf("send: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	if err := conn.ReadJSON(&res); err != nil {
		t.Fatalf("read: %v", err)
	}
	if res.ID != "r2" || res.Count != 1 || res.Codes[0] != "" {
		t.Fatalf("river result header: %+v", res)
	}
	if !res.HasRiver[0] || res.Flow[0] <= 0 || res.Width[0] <= 0 {
		t.Fatalf("expected a river at the source point: %+v", res)
	}
	if len(res.Velocity) != 1 || res.Velocity[0] <= 0 {
		t.Fatalf("river result missing velocity: %+v", res)
	}
}
