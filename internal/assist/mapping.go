package assist

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ruleforge/ruleforge/internal/entity"
	"github.com/ruleforge/ruleforge/internal/logging"
)

// ErrNotConfigured is returned when a collaborator URL is empty.
var ErrNotConfigured = errors.New("collaborator URL not configured")

// MaxSampleRows is the number of rows sent to the mapping service.
const MaxSampleRows = 3

// MappingRequest is the body sent to the header-mapping service.
type MappingRequest struct {
	Headers    []string        `json:"headers"`
	SampleRows [][]entity.Cell `json:"sampleRows"`
}

// RawMapping is the mapping service's answer before normalization. Every field may be
// missing or malformed.
type RawMapping struct {
	Entity        *string   `json:"entity"`
	MappedHeaders []*string `json:"mappedHeaders"`
	Confidence    *float64  `json:"confidence"`
	Reasoning     string    `json:"reasoning"`
}

// MappingClient calls the header-mapping service.
type MappingClient struct {
	poster
	sampleRows int
}

// NewMappingClient returns a client for the service at url. sampleRows is clamped
// into [1, MaxSampleRows].
func NewMappingClient(url string, timeout time.Duration, sampleRows int) *MappingClient {
	if sampleRows < 1 || sampleRows > MaxSampleRows {
		sampleRows = MaxSampleRows
	}
	return &MappingClient{poster: newPoster(url, timeout), sampleRows: sampleRows}
}

// SetURL points the client at another endpoint. Intended for tests.
func (c *MappingClient) SetURL(url string) {
	c.url = url
}

// MapHeaders asks the service to classify headers. The returned mapping is always
// usable: on any failure it is the identity mapping with no entity and confidence 0,
// and the error (transport or status) is returned alongside for reporting. An
// unparseable body is not an error.
func (c *MappingClient) MapHeaders(ctx context.Context, headers []string, rows [][]entity.Cell) (entity.MappingInfo, error) {
	sample := rows
	if len(sample) > c.sampleRows {
		sample = sample[:c.sampleRows]
	}
	if sample == nil {
		sample = [][]entity.Cell{}
	}

	text, err := c.post(ctx, MappingRequest{Headers: headers, SampleRows: sample})
	if err != nil {
		return IdentityMapping(headers, fmt.Sprintf("API Error: %v", err)), fmt.Errorf("mapping headers: %w", err)
	}

	var raw RawMapping
	if err := ExtractJSON(text, &raw); err != nil {
		logging.Warn("mapping response could not be parsed", "error", err)
		return IdentityMapping(headers, "Unparseable mapping response"), nil
	}
	return NormalizeMapping(raw, headers), nil
}

// IdentityMapping is the safe default: no entity, raw headers, confidence 0.
func IdentityMapping(headers []string, reasoning string) entity.MappingInfo {
	return entity.MappingInfo{
		MappedHeaders: append([]string(nil), headers...),
		Confidence:    0,
		Reasoning:     reasoning,
	}
}

// NormalizeMapping coerces a raw answer into a MappingInfo. An unknown or "null"
// entity becomes no entity. Confidence is clamped into [0,1]. Null header entries
// become "null". When mappedHeaders is missing or its length differs from headers,
// the raw headers are used and confidence drops to 0.
func NormalizeMapping(raw RawMapping, headers []string) entity.MappingInfo {
	out := entity.MappingInfo{Reasoning: raw.Reasoning}
	if out.Reasoning == "" {
		out.Reasoning = "No reasoning provided"
	}

	if raw.Entity != nil {
		if t, ok := entity.ParseType(strings.ToLower(*raw.Entity)); ok {
			out.Entity = t
		}
	}

	if raw.Confidence != nil {
		out.Confidence = clamp01(*raw.Confidence)
	}

	if len(raw.MappedHeaders) != len(headers) {
		out.MappedHeaders = append([]string(nil), headers...)
		out.Confidence = 0
		return out
	}
	out.MappedHeaders = make([]string, len(raw.MappedHeaders))
	for i, h := range raw.MappedHeaders {
		if h == nil || entity.IsUnmapped(*h) {
			out.MappedHeaders[i] = "null"
			continue
		}
		out.MappedHeaders[i] = strings.TrimSpace(*h)
	}
	return out
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// ApplyMapping rebuilds a raw table in canonical column order. MappedHeaders[j] names
// the canonical field held by raw column j. Canonical fields without a source column
// get the Unmapped header and nil cells. When one field is claimed by several raw
// columns, the first wins.
func ApplyMapping(raw entity.Table, info entity.MappingInfo) (entity.Table, error) {
	if info.Entity == "" {
		return entity.Table{}, fmt.Errorf("applying mapping: no entity assigned")
	}
	if len(info.MappedHeaders) != len(raw.Headers) {
		return entity.Table{}, fmt.Errorf("applying mapping: %d mapped headers for %d columns",
			len(info.MappedHeaders), len(raw.Headers))
	}

	fields := entity.ExpectedHeaders(info.Entity)
	source := make([]int, len(fields))
	for i, f := range fields {
		source[i] = -1
		for j, m := range info.MappedHeaders {
			if m == f {
				source[i] = j
				break
			}
		}
	}

	out := entity.Table{Headers: make([]string, len(fields)), Rows: make([][]entity.Cell, len(raw.Rows))}
	for i, f := range fields {
		if source[i] == -1 {
			out.Headers[i] = entity.Unmapped
		} else {
			out.Headers[i] = f
		}
	}
	for r := range raw.Rows {
		row := make([]entity.Cell, len(fields))
		for i, j := range source {
			if j != -1 {
				row[i] = raw.Value(r, j)
			}
		}
		out.Rows[r] = row
	}

	m := info
	m.MappedHeaders = append([]string(nil), info.MappedHeaders...)
	out.Mapping = &m
	return out, nil
}
