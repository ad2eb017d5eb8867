package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jobsink/internal/repository"
)

// DocumentsTable flattens docs into a table whose columns are the keys of the first document.
// Later documents are aligned to those columns by key; missing keys give empty cells and
// keys the first document lacks are dropped.
func DocumentsTable(docs []bson.D) (*repository.Table, error) {
	t := &repository.Table{Rows: make([][]string, 0, len(docs))}
	if len(docs) == 0 {
		return t, nil
	}

	index := make(map[string]int, len(docs[0]))
	for _, e := range docs[0] {
		index[e.Key] = len(t.Columns)
		t.Columns = append(t.Columns, e.Key)
	}

	for n, doc := range docs {
		row := make([]string, len(t.Columns))
		for _, e := range doc {
			i, ok := index[e.Key]
			if !ok {
				continue
			}
			s, err := cell(e.Value)
			if err != nil {
				return nil, fmt.Errorf("document %d, field %s: %w", n, e.Key, err)
			}
			row[i] = s
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// cell renders a BSON value as CSV text. Nested documents and arrays are JSON-encoded.
func cell(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case primitive.ObjectID:
		return x.Hex(), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case primitive.DateTime:
		return x.Time().UTC().Format(time.RFC3339Nano), nil
	case primitive.D, primitive.A, primitive.M:
		b, err := json.Marshal(plain(x))
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return fmt.Sprint(x), nil
	}
}

// plain converts decoded BSON containers into values encoding/json renders naturally.
func plain(v any) any {
	switch x := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = plain(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[k] = plain(val)
		}
		return m
	case primitive.A:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = plain(val)
		}
		return out
	case primitive.ObjectID:
		return x.Hex()
	case primitive.DateTime:
		return x.Time().UTC().Format(time.RFC3339Nano)
	default:
		return x
	}
}
