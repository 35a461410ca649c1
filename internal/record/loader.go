package record

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog/log"
)

// LoadFile reads records from a JSON array file or a JSONL file (one object per line).
func LoadFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}
	defer file.Close()

	recs, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("records", len(recs)).Msg("Loaded records")
	return recs, nil
}

// Decode reads either a JSON array of objects, a single envelope holding the
// array under "data", "records" or "items", or newline-delimited objects.
// Lines that fail to decode are skipped.
func Decode(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []Record{}, nil
	}

	switch trimmed[0] {
	case '[':
		var recs []Record
		if err := unmarshal(trimmed, &recs); err != nil {
			return nil, err
		}
		return compact(recs), nil
	case '{':
		if isEnvelope(trimmed) {
			var env struct {
				Data    []Record `json:"data"`
				Records []Record `json:"records"`
				Items   []Record `json:"items"`
			}
			if err := unmarshal(trimmed, &env); err != nil {
				return nil, err
			}
			return compact(slices.Concat(env.Data, env.Records, env.Items)), nil
		}
	}

	var recs []Record
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := unmarshal(line, &rec); err != nil {
			log.Warn().Err(err).Int("line", lineNo).Msg("Skipping malformed record line")
			continue
		}
		if rec != nil {
			recs = append(recs, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}

func isEnvelope(data []byte) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	_, hasData := probe["data"]
	_, hasRecords := probe["records"]
	_, hasItems := probe["items"]
	return hasData || hasRecords || hasItems
}

func unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func compact(recs []Record) []Record {
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
