package mysql

import "testing"

func TestJSONObject(t *testing.T) {
	if got := jsonObject(nil); got != "{}" {
		t.Errorf("jsonObject(nil) = %q", got)
	}
	if got := jsonObject(map[string]any{}); got != "{}" {
		t.Errorf("jsonObject(empty) = %q", got)
	}
	if got := jsonObject(map[string]any{"tone": "Angry"}); got != `{"tone":"Angry"}` {
		t.Errorf("jsonObject = %q", got)
	}
}

func TestJSONArray(t *testing.T) {
	if got := jsonArray(nil); got != "[]" {
		t.Errorf("jsonArray(nil) = %q", got)
	}
	if got := jsonArray([]string{"a", "b"}); got != `["a","b"]` {
		t.Errorf("jsonArray = %q", got)
	}
}
