package mysql

import "encoding/json"

// jsonObject marshals m, falling back to "{}" on nil or failure.
func jsonObject(m map[string]any) string {
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// jsonArray marshals list, falling back to "[]" on nil or failure.
func jsonArray(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(b)
}
