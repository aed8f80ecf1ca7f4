// Command client runs one query against a worldgen server and prints the
// result, one line per coordinate. Coordinates are "x,z" pairs separated by
// semicolons.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/lebowski36/Voxel-Castle-sub000/internal/protocol"
)

func main() {
	var (
		url    = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name   = flag.String("name", "client", "client name")
		op     = flag.String("op", protocol.OpElevation, "query op")
		points = flag.String("points", "0,0", "coordinates: x,z;x,z;...")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[client] ", log.LstdFlags)

	xs, zs, err := parsePoints(*points)
	if err != nil {
		logger.Fatalf("points: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      *name,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	query := protocol.QueryMsg{
		Type:            protocol.TypeQuery,
		ProtocolVersion: protocol.Version,
		ID:              "q1",
		Op:              *op,
		X:               xs,
		Z:               zs,
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			logger.Fatalf("read: %v", err)
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME seed=%d digest=%s max_batch=%d",
				w.WorldParams.Seed, w.WorldParams.ConfigDigest[:12], w.MaxBatch)
			if err := conn.WriteJSON(query); err != nil {
				logger.Fatalf("send QUERY: %v", err)
			}

		case protocol.TypeResult:
			var res protocol.ResultMsg
			if err := json.Unmarshal(msg, &res); err != nil {
				logger.Fatalf("decode RESULT: %v", err)
			}
			printResult(xs, zs, res)
			return

		case protocol.TypeError:
			var e protocol.ErrorMsg
			if err := json.Unmarshal(msg, &e); err != nil {
				logger.Fatalf("decode ERROR: %v", err)
			}
			logger.Fatalf("server error %s: %s", e.Code, e.Message)
		}
	}
}

func parsePoints(s string) (xs, zs []float64, err error) {
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ",", 2)
		if len(parts) != 2 {
			return nil, nil, fmt.Errorf("bad pair %q", pair)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, nil, err
		}
		z, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, nil, err
		}
		xs = append(xs, x)
		zs = append(zs, z)
	}
	if len(xs) == 0 {
		return nil, nil, fmt.Errorf("no coordinates")
	}
	return xs, zs, nil
}

func printResult(xs, zs []float64, res protocol.ResultMsg) {
	for i := range xs {
		if i < len(res.Codes) && res.Codes[i] != "" {
			fmt.Printf("%g,%g\t%s\n", xs[i], zs[i], res.Codes[i])
			continue
		}
		switch res.Op {
		case protocol.OpElevation, protocol.OpElevationWithRivers:
			fmt.Printf("%g,%g\telev=%.3f\n", xs[i], zs[i], res.Elevation[i])
		case protocol.OpClimate:
			fmt.Printf("%g,%g\ttemp=%.2f precip=%.1f humidity=%.3f\n",
				xs[i], zs[i], res.Temperature[i], res.Precipitation[i], res.Humidity[i])
		case protocol.OpRiver:
			fmt.Printf("%g,%g\thas_river=%v width=%.2f depth=%.2f flow=%.3f velocity=%.2f order=%d\n",
				xs[i], zs[i], res.HasRiver[i], res.Width[i], res.Depth[i], res.Flow[i], res.Velocity[i], res.Order[i])
		case protocol.OpBiome:
			fmt.Printf("%g,%g\tbiome=%s\n", xs[i], zs[i], res.Biome[i])
		case protocol.OpRegionOf:
			fmt.Printf("%g,%g\tregion=(%d,%d)\n", xs[i], zs[i], res.RegionX[i], res.RegionZ[i])
		}
	}
}
