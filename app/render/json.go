package render

import (
	"encoding/json"
	"fmt"

	"github.com/plenarlab/bt-agenda/app/agenda"
)

// Json serializes the item sequence as a JSON array, canonical field
// names, no pretty-printing. An empty set renders as [].
func Json(items []agenda.Item) ([]byte, error) {
	if items == nil {
		items = []agenda.Item{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode agenda items: %w", err)
	}

	return data, nil
}
