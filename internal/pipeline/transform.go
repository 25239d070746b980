package pipeline

import (
	"context"
	"fmt"

	"github.com/promice/aws2bufr/internal/bufr"
	"github.com/promice/aws2bufr/internal/domain"
)

// Transformer turns one raw row into one encoded BUFR message:
// normalize → resolve → assemble → encode.
type Transformer struct {
	normalizer domain.Normalizer
	resolver   *domain.Resolver
	assembler  *bufr.Assembler
	codec      bufr.Codec
	header     bufr.Header
}

// NewTransformer wires the pipeline stages for one station and template.
// header carries the station identity and section 1 constants; the
// per-row observation time is filled in during assembly.
func NewTransformer(normalizer domain.Normalizer, resolver *domain.Resolver, assembler *bufr.Assembler, codec bufr.Codec, header bufr.Header) *Transformer {
	return &Transformer{
		normalizer: normalizer,
		resolver:   resolver,
		assembler:  assembler,
		codec:      codec,
		header:     header,
	}
}

// Transform converts one raw row. Errors wrap domain.ErrMalformedRow,
// bufr.ErrTemplateMismatch, or come from the codec; the pipeline classifies
// them into skip reasons.
func (t *Transformer) Transform(ctx context.Context, raw domain.RawRow) (domain.EncodedMessage, error) {
	record, err := t.normalizer.Normalize(raw)
	if err != nil {
		return domain.EncodedMessage{}, err
	}

	resolved := t.resolver.Resolve(record)

	header := t.header
	header.ObservedAt = record.Timestamp

	msg, err := t.assembler.Assemble(resolved.AsMap(), header)
	if err != nil {
		return domain.EncodedMessage{}, fmt.Errorf("line %d: %w", record.Line, err)
	}

	data, err := t.codec.Encode(ctx, msg)
	if err != nil {
		return domain.EncodedMessage{}, fmt.Errorf("line %d: encode: %w", record.Line, err)
	}

	return domain.EncodedMessage{
		StationID:  record.StationID,
		ObservedAt: record.Timestamp,
		TemplateID: msg.TemplateID,
		Data:       data,
		EncodedAt:  clock.Now(),
	}, nil
}

// UnmappedColumns exposes the resolver's never-mapped column set for the
// run summary.
func (t *Transformer) UnmappedColumns() []string {
	return t.resolver.UnmappedColumns()
}
