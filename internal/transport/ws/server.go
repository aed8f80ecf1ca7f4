package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lebowski36/Voxel-Castle-sub000/internal/protocol"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/seed"
)

// QueryRecorder receives one entry per answered query, for the audit log.
type QueryRecorder interface {
	WriteQuery(v QueryLogEntry) error
}

// QueryLogEntry is the audit record of one QUERY.
type QueryLogEntry struct {
	Time    time.Time `json:"time"`
	Client  string    `json:"client"`
	ID      string    `json:"id"`
	Op      string    `json:"op"`
	Count   int       `json:"count"`
	Code    string    `json:"code,omitempty"`
	Elapsed float64   `json:"elapsed_ms"`
}

type Server struct {
	gen      *worldgen.Generator
	log      *log.Logger
	recorder QueryRecorder
	maxBatch int

	upgrader websocket.Upgrader
}

// NewServer serves the query protocol over websocket connections. recorder
// may be nil to disable the audit log; maxBatch <= 0 disables the batch
// size limit.
func NewServer(gen *worldgen.Generator, logger *log.Logger, recorder QueryRecorder, maxBatch int) *Server {
	return &Server{
		gen:      gen,
		log:      logger,
		recorder: recorder,
		maxBatch: maxBatch,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		client, out := s.handshake(conn)
		if out == nil {
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				return
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeQuery {
				continue
			}
			var q protocol.QueryMsg
			if err := json.Unmarshal(msg, &q); err != nil {
				s.send(ctx, out, protocol.ErrorMsg{
					Type:            protocol.TypeError,
					ProtocolVersion: protocol.Version,
					Code:            protocol.ErrProtoBadRequest,
					Message:         "malformed QUERY",
				})
				continue
			}
			s.serveQuery(ctx, out, client, q)
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) (client string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", nil
	}
	if hello.ClientName == "" {
		hello.ClientName = "client"
	}

	maxQ := hello.MaxQueue
	if maxQ <= 0 {
		maxQ = 8
	}
	if maxQ > 64 {
		maxQ = 64
	}
	out = make(chan []byte, maxQ)

	cfg := s.gen.Config()
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		MaxBatch:        s.maxBatch,
		WorldParams: protocol.WorldParams{
			Seed:         s.gen.Seed(),
			MixVersion:   seed.MixVersion,
			VoxelScale:   cfg.VoxelScale,
			RegionSize:   cfg.Rivers.RegionSize,
			ConfigDigest: cfg.Digest(),
		},
	}
	if err := writeJSON(conn, welcome); err != nil {
		return "", nil
	}
	return hello.ClientName, out
}

func (s *Server) serveQuery(ctx context.Context, out chan []byte, client string, q protocol.QueryMsg) {
	start := time.Now()
	code, msg := protocol.ValidateQuery(q, s.maxBatch)
	if code != "" {
		s.record(client, q, code, start)
		s.send(ctx, out, protocol.ErrorMsg{
			Type:            protocol.TypeError,
			ProtocolVersion: protocol.Version,
			ID:              q.ID,
			Code:            code,
			Message:         msg,
		})
		return
	}

	res, err := s.execute(q)
	if err != nil {
		s.log.Printf("query %s op=%s failed: %v", q.ID, q.Op, err)
		s.record(client, q, protocol.ErrInternal, start)
		s.send(ctx, out, protocol.ErrorMsg{
			Type:            protocol.TypeError,
			ProtocolVersion: protocol.Version,
			ID:              q.ID,
			Code:            protocol.ErrInternal,
		})
		return
	}
	s.record(client, q, "", start)
	s.send(ctx, out, res)
}

// execute maps one QUERY onto the matching generator batch call. The
// response arrays stay parallel to the request coordinates; per-element
// failures become codes, never holes.
func (s *Server) execute(q protocol.QueryMsg) (protocol.ResultMsg, error) {
	res := protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		ID:              q.ID,
		Op:              q.Op,
		Count:           len(q.X),
	}

	switch q.Op {
	case protocol.OpElevation:
		vals, errs, err := s.gen.ElevationBatch(q.X, q.Z)
		if err != nil {
			return res, err
		}
		res.Elevation = vals
		res.Codes = toCodes(errs)

	case protocol.OpElevationWithRivers:
		vals, errs, err := s.gen.ElevationWithRiversBatch(q.X, q.Z)
		if err != nil {
			return res, err
		}
		res.Elevation = vals
		res.Codes = toCodes(errs)

	case protocol.OpClimate:
		vals, errs, err := s.gen.ClimateBatch(q.X, q.Z)
		if err != nil {
			return res, err
		}
		res.Temperature = make([]float64, len(vals))
		res.Precipitation = make([]float64, len(vals))
		res.Humidity = make([]float64, len(vals))
		for i, v := range vals {
			res.Temperature[i] = v.Temperature
			res.Precipitation[i] = v.Precipitation
			res.Humidity[i] = v.Humidity
		}
		res.Codes = toCodes(errs)

	case protocol.OpRiver:
		vals, errs, err := s.gen.RiverBatch(q.X, q.Z)
		if err != nil {
			return res, err
		}
		res.HasRiver = make([]bool, len(vals))
		res.Width = make([]float64, len(vals))
		res.Depth = make([]float64, len(vals))
		res.Flow = make([]float64, len(vals))
		res.Velocity = make([]float64, len(vals))
		res.Order = make([]int, len(vals))
		for i, v := range vals {
			res.HasRiver[i] = v.HasRiver
			res.Width[i] = v.Width
			res.Depth[i] = v.Depth
			res.Flow[i] = v.Flow
			res.Velocity[i] = v.Velocity
			res.Order[i] = v.Order
		}
		res.Codes = toCodes(errs)

	case protocol.OpBiome:
		vals, errs, err := s.gen.BiomeBatch(q.X, q.Z)
		if err != nil {
			return res, err
		}
		res.Biome = make([]string, len(vals))
		for i, v := range vals {
			res.Biome[i] = string(v)
		}
		res.Codes = toCodes(errs)

	case protocol.OpRegionOf:
		res.RegionX = make([]int, len(q.X))
		res.RegionZ = make([]int, len(q.X))
		codes := make([]string, len(q.X))
		for i := range q.X {
			k, err := s.gen.RegionOf(q.X[i], q.Z[i])
			if err != nil {
				codes[i] = toCode(err)
				continue
			}
			res.RegionX[i] = k.X
			res.RegionZ[i] = k.Z
		}
		res.Codes = codes
	}
	return res, nil
}

func toCodes(errs []error) []string {
	codes := make([]string, len(errs))
	for i, err := range errs {
		codes[i] = toCode(err)
	}
	return codes
}

func toCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, worldgen.ErrOutOfRange):
		return protocol.ErrOutOfRange
	default:
		return protocol.ErrInternal
	}
}

func (s *Server) record(client string, q protocol.QueryMsg, code string, start time.Time) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.WriteQuery(QueryLogEntry{
		Time:    start.UTC(),
		Client:  client,
		ID:      q.ID,
		Op:      q.Op,
		Count:   len(q.X),
		Code:    code,
		Elapsed: float64(time.Since(start).Microseconds()) / 1000,
	})
	if err != nil {
		s.log.Printf("query log: %v", err)
	}
}

// send queues a message without blocking the reader forever when the client
// stops draining.
func (s *Server) send(ctx context.Context, out chan []byte, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Printf("marshal response: %v", err)
		return
	}
	select {
	case <-ctx.Done():
	case out <- b:
	case <-time.After(10 * time.Second):
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
