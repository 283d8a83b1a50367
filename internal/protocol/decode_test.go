package protocol

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecodeResponse_Diagnostics(t *testing.T) {
	cases := []struct {
		name string
		body string
		want []Diagnostic
	}{
		{
			name: "error list",
			body: `{"errors":[{"ln":3,"msg":"unexpected token"},{"ln":0,"msg":"no end"}]}`,
			want: []Diagnostic{{Line: 3, Message: "unexpected token"}, {Line: 0, Message: "no end"}},
		},
		{
			name: "single error object",
			body: `{"errors":{"ln":7,"msg":"bad divert"}}`,
			want: []Diagnostic{{Line: 7, Message: "bad divert"}},
		},
		{
			name: "string list",
			body: `{"errors":["unknown knot ln: 12"]}`,
			want: []Diagnostic{{Line: 12, Message: "unknown knot"}},
		},
		{
			name: "legacy single error",
			body: `{"error":"parsing failed ln: 4"}`,
			want: []Diagnostic{{Line: 4, Message: "parsing failed"}},
		},
		{
			name: "legacy without line",
			body: `{"error":"empty user id"}`,
			want: []Diagnostic{{Line: 0, Message: "empty user id"}},
		},
		{
			name: "empty list",
			body: `{"errors":[]}`,
			want: []Diagnostic{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeResponse([]byte(tc.body))
			if err != nil {
				t.Fatalf("DecodeResponse() error: %v", err)
			}
			if !got.IsDiagnostics() {
				t.Fatalf("expected diagnostics response, got %+v", got)
			}
			if !reflect.DeepEqual(got.Diagnostics, tc.want) {
				t.Fatalf("Diagnostics = %#v, want %#v", got.Diagnostics, tc.want)
			}
		})
	}
}

func TestDecodeResponse_Section(t *testing.T) {
	got, err := DecodeResponse([]byte(`{"uuid":"abc","section":{"text":"Hello","opts":["Pick me"],"tags":["blue"]}}`))
	if err != nil {
		t.Fatalf("DecodeResponse() error: %v", err)
	}
	if got.IsDiagnostics() {
		t.Fatalf("expected section response")
	}
	if got.UUID != "abc" {
		t.Fatalf("UUID = %q, want abc", got.UUID)
	}
	want := Section{Text: "Hello", Options: []string{"Pick me"}, Tags: []string{"blue"}}
	if !reflect.DeepEqual(*got.Section, want) {
		t.Fatalf("Section = %#v, want %#v", *got.Section, want)
	}

	got, err = DecodeResponse([]byte(`{"uuid":"abc","section":{"text":"Thanks!","end":true}}`))
	if err != nil {
		t.Fatalf("DecodeResponse() error: %v", err)
	}
	if !got.Section.End || got.Section.HasOptions() {
		t.Fatalf("expected terminal section without options, got %#v", *got.Section)
	}
}

func TestDecodeResponse_KeepsRawUUID(t *testing.T) {
	got, err := DecodeResponse([]byte(`{"uuid":"abc ","section":{"text":"x"}}`))
	if err != nil {
		t.Fatalf("DecodeResponse() error: %v", err)
	}
	if got.UUID != "abc " {
		t.Fatalf("UUID = %q, want the raw server value", got.UUID)
	}
}

func TestDecodeResponse_Rejects(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{name: "not json", body: `<html>502</html>`, want: ErrUnknownShape},
		{name: "array", body: `[1,2]`, want: ErrUnknownShape},
		{name: "empty object", body: `{}`, want: ErrUnknownShape},
		{name: "null errors and no section", body: `{"errors":null}`, want: ErrUnknownShape},
		{name: "section without uuid", body: `{"section":{"text":"x"}}`, want: ErrMissingUUID},
		{name: "section with empty uuid", body: `{"uuid":"","section":{"text":"x"}}`, want: ErrMissingUUID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeResponse([]byte(tc.body))
			if !errors.Is(err, tc.want) {
				t.Fatalf("DecodeResponse(%s) error = %v, want %v", tc.body, err, tc.want)
			}
		})
	}
}
