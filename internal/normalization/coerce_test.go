package normalization

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestGraphValueScalarsPassThrough(t *testing.T) {
	if got := GraphValue(nil); got != nil {
		t.Fatalf("nil: want nil got=%v", got)
	}
	if got := GraphValue("net 30"); got != "net 30" {
		t.Fatalf("string: want=%q got=%v", "net 30", got)
	}
	if got := GraphValue(true); got != true {
		t.Fatalf("bool: want true got=%v", got)
	}
	if got := GraphValue(12.5); got != 12.5 {
		t.Fatalf("float: want=12.5 got=%v", got)
	}
}

func TestGraphValueDropsNullListMembers(t *testing.T) {
	got := GraphValue([]any{"uptime", nil, 99.9, nil, "latency"})
	want := []any{"uptime", 99.9, "latency"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("list: want=%v got=%v", want, got)
	}
}

func TestGraphValueCollapsesMapToJSON(t *testing.T) {
	in := map[string]any{"amount": 5000000.0, "currency": "USD"}

	got := GraphValue(in)
	s, ok := got.(string)
	if !ok {
		t.Fatalf("map: want string got=%T", got)
	}

	var back map[string]any
	if err := json.Unmarshal([]byte(s), &back); err != nil {
		t.Fatalf("unmarshal coerced map: %v", err)
	}
	if !reflect.DeepEqual(back, in) {
		t.Fatalf("round trip: want=%v got=%v", in, back)
	}
}

func TestGraphValueCoercesMapsInsideLists(t *testing.T) {
	got := GraphValue([]any{map[string]any{"page": 3.0}, "raw"})
	list, ok := got.([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("list: want 2 members got=%v", got)
	}
	if _, ok := list[0].(string); !ok {
		t.Fatalf("nested map: want string member got=%T", list[0])
	}
	if list[1] != "raw" {
		t.Fatalf("string member: want=%q got=%v", "raw", list[1])
	}
}

func TestStringListKeepsNonEmptyStrings(t *testing.T) {
	got := StringList([]any{"fraud", nil, 3.0, "", "gross negligence"})
	want := []string{"fraud", "gross negligence"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("StringList: want=%v got=%v", want, got)
	}
}

func TestStringListNonListYieldsEmpty(t *testing.T) {
	got := StringList("fraud")
	if len(got) != 0 {
		t.Fatalf("StringList: want empty got=%v", got)
	}
}
