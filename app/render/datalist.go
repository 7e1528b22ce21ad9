package render

import (
	"encoding/json"
	"fmt"
)

// DataList serializes the year → stored-weeks mapping for the listing
// endpoint.
func DataList(weeks map[int][]int) ([]byte, error) {
	if weeks == nil {
		weeks = map[int][]int{}
	}

	data, err := json.Marshal(weeks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode data list: %w", err)
	}

	return data, nil
}
