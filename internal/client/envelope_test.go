package client

import (
	"encoding/json"
	"testing"
)

func TestNormalize_WrappedEnvelope(t *testing.T) {
	body := json.RawMessage(`{"success":true,"message":"ok","data":{"id":7,"name":"Apollo"}}`)
	got := Normalize(body, nil)
	if string(got) != `{"id":7,"name":"Apollo"}` {
		t.Fatalf("unexpected payload: %s", got)
	}
}

func TestNormalize_DoubleWrappedEnvelope(t *testing.T) {
	body := json.RawMessage(`{"message":"outer","data":{"message":"inner","data":[1,2,3]}}`)
	got := Normalize(body, nil)
	if string(got) != `[1,2,3]` {
		t.Fatalf("unexpected payload: %s", got)
	}
}

func TestNormalize_BarePayloadUnchanged(t *testing.T) {
	cases := []string{
		`[{"id":1},{"id":2}]`,
		`"just a string"`,
		`42`,
		`{"id":9,"username":"alice"}`,
	}
	for _, tc := range cases {
		got := Normalize(json.RawMessage(tc), nil)
		if string(got) != tc {
			t.Fatalf("bare payload %s changed to %s", tc, got)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	body := json.RawMessage(`{"message":"ok","data":{"id":7}}`)
	once := Normalize(body, nil)
	twice := Normalize(once, nil)
	if string(once) != string(twice) {
		t.Fatalf("normalize not idempotent: %s vs %s", once, twice)
	}
}

func TestNormalize_NullAndEmptyYieldFallback(t *testing.T) {
	fallback := json.RawMessage(`[]`)
	if got := Normalize(nil, fallback); string(got) != `[]` {
		t.Fatalf("nil body: got %s", got)
	}
	if got := Normalize(json.RawMessage(`null`), fallback); string(got) != `[]` {
		t.Fatalf("null body: got %s", got)
	}
	if got := Normalize(json.RawMessage(``), fallback); string(got) != `[]` {
		t.Fatalf("empty body: got %s", got)
	}
}

func TestNormalize_MalformedInputNeverPanics(t *testing.T) {
	got := Normalize(json.RawMessage(`{not json`), json.RawMessage(`{}`))
	if string(got) != `{not json` {
		t.Fatalf("malformed body should pass through, got %s", got)
	}
}

func TestMessage(t *testing.T) {
	if got := Message(json.RawMessage(`{"message":"created","data":1}`)); got != "created" {
		t.Fatalf("expected created, got %q", got)
	}
	if got := Message(json.RawMessage(`[1,2]`)); got != "" {
		t.Fatalf("expected empty message for bare payload, got %q", got)
	}
	if got := Message(nil); got != "" {
		t.Fatalf("expected empty message for nil body, got %q", got)
	}
}
