// Package eccodes adapts the external ecCodes-based BUFR codec.
//
// ecCodes is the reference WMO implementation of BUFR bit packing and has
// no Go bindings, so encoding is delegated to a small wrapper binary built
// against it. The wrapper reads a structured message as JSON on stdin and
// writes the packed BUFR message to stdout; with -d it decodes a BUFR
// message from stdin back to the same JSON shape. This process boundary is
// the codec collaborator contract: bit-level encoding never happens here.
package eccodes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/promice/aws2bufr/internal/bufr"
)

// wireMessage is the JSON shape exchanged with the wrapper binary.
type wireMessage struct {
	TemplateID int          `json:"template_id"`
	Header     wireHeader   `json:"header"`
	Elements   []wireElement `json:"elements"`
}

type wireHeader struct {
	Edition                      int    `json:"edition"`
	MasterTableNumber            int    `json:"master_table_number"`
	MasterTablesVersionNumber    int    `json:"master_tables_version_number"`
	LocalTablesVersionNumber     int    `json:"local_tables_version_number"`
	OriginatingCentre            int    `json:"originating_centre"`
	OriginatingSubCentre         int    `json:"originating_subcentre"`
	UpdateSequenceNumber         int    `json:"update_sequence_number"`
	DataCategory                 int    `json:"data_category"`
	InternationalDataSubCategory int    `json:"international_data_subcategory"`
	StationID                    string `json:"station_id"`
	BlockNumber                  int    `json:"block_number"`
	StationNumber                int    `json:"station_number"`
	StationType                  int    `json:"station_type"`
	ObservedAt                   string `json:"observed_at"` // RFC 3339, UTC
}

type wireElement struct {
	Key   string   `json:"key"`
	FXY   string   `json:"fxy"`
	Value *float64 `json:"value"` // null encodes the BUFR missing marker
}

// Codec shells out to the wrapper binary for every message. Implements
// bufr.Codec.
type Codec struct {
	binary  string
	timeout time.Duration
}

// New creates a Codec invoking the given wrapper binary.
func New(binary string, timeout time.Duration) *Codec {
	return &Codec{binary: binary, timeout: timeout}
}

// Encode packs one structured message into BUFR wire bytes.
func (c *Codec) Encode(ctx context.Context, msg bufr.Message) ([]byte, error) {
	payload, err := json.Marshal(toWire(msg))
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}

	out, err := c.run(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("bufr encode: %w", err)
	}
	return out, nil
}

// Decode unpacks BUFR wire bytes back into a structured message.
func (c *Codec) Decode(ctx context.Context, data []byte) (bufr.Message, error) {
	out, err := c.run(ctx, data, "-d")
	if err != nil {
		return bufr.Message{}, fmt.Errorf("bufr decode: %w", err)
	}

	var wire wireMessage
	if err := json.Unmarshal(out, &wire); err != nil {
		return bufr.Message{}, fmt.Errorf("unmarshal decoded message: %w", err)
	}
	return fromWire(wire)
}

func (c *Codec) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("%s: %s: %w", c.binary, msg, err)
		}
		return nil, fmt.Errorf("%s: %w", c.binary, err)
	}
	return stdout.Bytes(), nil
}

func toWire(msg bufr.Message) wireMessage {
	wire := wireMessage{
		TemplateID: msg.TemplateID,
		Header: wireHeader{
			Edition:                      msg.Header.Edition,
			MasterTableNumber:            msg.Header.MasterTableNumber,
			MasterTablesVersionNumber:    msg.Header.MasterTablesVersionNumber,
			LocalTablesVersionNumber:     msg.Header.LocalTablesVersionNumber,
			OriginatingCentre:            msg.Header.OriginatingCentre,
			OriginatingSubCentre:         msg.Header.OriginatingSubCentre,
			UpdateSequenceNumber:         msg.Header.UpdateSequenceNumber,
			DataCategory:                 msg.Header.DataCategory,
			InternationalDataSubCategory: msg.Header.InternationalDataSubCategory,
			StationID:                    msg.Header.StationID,
			BlockNumber:                  msg.Header.BlockNumber,
			StationNumber:                msg.Header.StationNumber,
			StationType:                  msg.Header.StationType,
			ObservedAt:                   msg.Header.ObservedAt.UTC().Format(time.RFC3339),
		},
		Elements: make([]wireElement, 0, len(msg.Elements)),
	}
	for _, e := range msg.Elements {
		wire.Elements = append(wire.Elements, wireElement{
			Key:   e.Descriptor.Key,
			FXY:   e.Descriptor.FXY,
			Value: e.Value,
		})
	}
	return wire
}

func fromWire(wire wireMessage) (bufr.Message, error) {
	observedAt, err := time.Parse(time.RFC3339, wire.Header.ObservedAt)
	if err != nil {
		return bufr.Message{}, fmt.Errorf("decoded message: bad observed_at: %w", err)
	}

	msg := bufr.Message{
		TemplateID: wire.TemplateID,
		Header: bufr.Header{
			Edition:                      wire.Header.Edition,
			MasterTableNumber:            wire.Header.MasterTableNumber,
			MasterTablesVersionNumber:    wire.Header.MasterTablesVersionNumber,
			LocalTablesVersionNumber:     wire.Header.LocalTablesVersionNumber,
			OriginatingCentre:            wire.Header.OriginatingCentre,
			OriginatingSubCentre:         wire.Header.OriginatingSubCentre,
			UpdateSequenceNumber:         wire.Header.UpdateSequenceNumber,
			DataCategory:                 wire.Header.DataCategory,
			InternationalDataSubCategory: wire.Header.InternationalDataSubCategory,
			StationID:                    wire.Header.StationID,
			BlockNumber:                  wire.Header.BlockNumber,
			StationNumber:                wire.Header.StationNumber,
			StationType:                  wire.Header.StationType,
			ObservedAt:                   observedAt,
		},
		Elements: make([]bufr.Element, 0, len(wire.Elements)),
	}
	for _, e := range wire.Elements {
		desc, err := bufr.ElementByKey(e.Key)
		if err != nil {
			return bufr.Message{}, fmt.Errorf("decoded message: %w", err)
		}
		msg.Elements = append(msg.Elements, bufr.Element{Descriptor: desc, Value: e.Value})
	}
	return msg, nil
}
