package backend

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ListShape tags which payload layout the backend used for a company list.
type ListShape string

const (
	ShapeArray ListShape = "array" // bare JSON array
	ShapeData  ListShape = "data"  // {"data": [...]}
	ShapeItems ListShape = "items" // {"items": [...]}
)

// ListEnvelope is the decoded form of a company-list response. The backend
// has shipped several layouts over time; rather than shape-sniffing with a
// silent empty fallback, decoding is explicit and an unrecognized shape is
// an error.
type ListEnvelope struct {
	Shape   ListShape
	Rows    []map[string]any
	Total   int
	Page    int
	PerPage int
}

// DecodeList parses a company-list body into a tagged envelope. Recognized
// shapes: a bare array, {"data": [...]}, {"items": [...]}. Pagination
// metadata (total/page/per_page) is picked up when present. Unrecognized
// shapes are logged and rejected.
func DecodeList(body []byte) (*ListEnvelope, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, eris.Wrap(err, "backend: decode list body")
	}

	switch v := raw.(type) {
	case []any:
		rows, err := toRows(v)
		if err != nil {
			return nil, err
		}
		return &ListEnvelope{Shape: ShapeArray, Rows: rows, Total: len(rows)}, nil

	case map[string]any:
		for _, key := range []string{"data", "items"} {
			list, ok := v[key].([]any)
			if !ok {
				continue
			}
			rows, err := toRows(list)
			if err != nil {
				return nil, err
			}
			env := &ListEnvelope{Rows: rows, Total: len(rows)}
			if key == "data" {
				env.Shape = ShapeData
			} else {
				env.Shape = ShapeItems
			}
			if n, ok := asInt(v["total"]); ok {
				env.Total = n
			}
			env.Page, _ = asInt(v["page"])
			env.PerPage, _ = asInt(v["per_page"])
			return env, nil
		}
		zap.L().Warn("unrecognized company list shape", zap.Any("keys", mapKeys(v)))
		return nil, eris.New("backend: unrecognized list shape")

	default:
		return nil, eris.New("backend: list body is neither array nor object")
	}
}

func toRows(list []any) ([]map[string]any, error) {
	rows := make([]map[string]any, 0, len(list))
	for _, item := range list {
		row, ok := item.(map[string]any)
		if !ok {
			return nil, eris.New("backend: list element is not an object")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func asInt(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func mapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
