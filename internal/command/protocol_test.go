package command

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/footron/foowm/internal/policy"
)

func TestDecode_Layout(t *testing.T) {
	cmd, err := Decode([]byte(`{"type":"layout","layout":"fit4k","after":1700000000123}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	layout, ok := cmd.(SetLayout)
	if !ok {
		t.Fatalf("expected SetLayout, got %T", cmd)
	}
	if layout.Layout != policy.LayoutFit4k {
		t.Fatalf("expected layout fit4k, got %q", layout.Layout)
	}
	if !layout.After.Equal(time.UnixMilli(1700000000123)) {
		t.Fatalf("unexpected after: %v", layout.After)
	}
}

func TestDecode_LayoutWithoutAfter(t *testing.T) {
	cmd, err := Decode([]byte(`{"type":"layout","layout":"full","after":null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cmd.(SetLayout).After.IsZero() {
		t.Fatalf("expected zero after")
	}
}

func TestDecode_ClearViewport(t *testing.T) {
	cmd, err := Decode([]byte(`{"type":"clear_viewport","before":42,"include":["placard","loader"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clear, ok := cmd.(ClearViewport)
	if !ok {
		t.Fatalf("expected ClearViewport, got %T", cmd)
	}
	if !clear.Before.Equal(time.UnixMilli(42)) {
		t.Fatalf("unexpected before: %v", clear.Before)
	}
	if len(clear.Include) != 2 || clear.Include[0] != policy.TypePlacard || clear.Include[1] != policy.TypeLoader {
		t.Fatalf("unexpected include: %v", clear.Include)
	}
}

func TestDecode_ClearViewportDefaultInclude(t *testing.T) {
	cmd, err := Decode([]byte(`{"type":"clear_viewport","before":42}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.(ClearViewport).Include != nil {
		t.Fatalf("expected nil include")
	}

	cmd, err = Decode([]byte(`{"type":"clear_viewport","before":42,"include":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	include := cmd.(ClearViewport).Include
	if include == nil || len(include) != 0 {
		t.Fatalf("expected empty, non-nil include, got %#v", include)
	}
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"missing type", `{"layout":"full"}`, "type"},
		{"non-string type", `{"type":3}`, "type"},
		{"unknown type", `{"type":"reboot"}`, "type"},
		{"layout missing", `{"type":"layout"}`, "layout"},
		{"layout null", `{"type":"layout","layout":null}`, "layout"},
		{"layout not string", `{"type":"layout","layout":1}`, "layout"},
		{"layout unknown", `{"type":"layout","layout":"portrait"}`, "layout"},
		{"after string", `{"type":"layout","layout":"full","after":"1"}`, "after"},
		{"after fractional", `{"type":"layout","layout":"full","after":1.5}`, "after"},
		{"before missing", `{"type":"clear_viewport"}`, "before"},
		{"before string", `{"type":"clear_viewport","before":"yesterday"}`, "before"},
		{"before bool", `{"type":"clear_viewport","before":true}`, "before"},
		{"include not list", `{"type":"clear_viewport","before":1,"include":"placard"}`, "include"},
		{"include unknown", `{"type":"clear_viewport","before":1,"include":["window"]}`, "include"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Decode([]byte(tt.input))
			if err == nil {
				t.Fatalf("expected error, got %#v", cmd)
			}
			if cmd != nil {
				t.Fatalf("expected no command, got %#v", cmd)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if verr.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	for _, input := range []string{`{`, `[]`, `null`, `"layout"`} {
		if _, err := Decode([]byte(input)); err == nil {
			t.Fatalf("expected error for %s", input)
		}
	}
}

func TestWireMessagesDecode(t *testing.T) {
	after := int64(99)
	data, err := json.Marshal(LayoutMessage{Type: MessageLayout, Layout: "production", After: &after})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmd, err := Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Type() != MessageLayout {
		t.Fatalf("expected layout command, got %q", cmd.Type())
	}

	data, err = json.Marshal(ClearViewportMessage{Type: MessageClearViewport, Before: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmd, err = Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.(ClearViewport).Include != nil {
		t.Fatalf("expected omitted include to decode as nil")
	}
}
