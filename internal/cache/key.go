package cache

import (
	"encoding/json"
	"fmt"
)

// Key builds a deterministic cache key from a namespace and query params.
// Params are round-tripped through encoding/json so that object keys are
// emitted sorted at every nesting level: two structurally equal parameter
// sets always produce the same key regardless of field order.
func Key(namespace string, params any) string {
	raw, err := json.Marshal(params)
	if err != nil {
		return namespace + ":" + fmt.Sprintf("%+v", params)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return namespace + ":" + string(raw)
	}

	stable, err := json.Marshal(generic)
	if err != nil {
		return namespace + ":" + string(raw)
	}
	return namespace + ":" + string(stable)
}
