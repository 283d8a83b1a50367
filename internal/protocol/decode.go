package protocol

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrUnknownShape 表示响应既不是诊断也不是 section。
	ErrUnknownShape = errors.New("unrecognized response shape")
	// ErrMissingUUID 表示成功响应缺少会话 id。
	ErrMissingUUID = errors.New("section response without uuid")
)

// legacyLine matches the "message ln: N" form of early service versions.
var legacyLine = regexp.MustCompile(`^(.+)\sln:\s(\d+)`)

// DecodeResponse parses a reply body. The service changed its shape over
// time, so every observed variant is accepted:
//
//	{"errors": [{"ln": 3, "msg": "..."}]}
//	{"errors": {"ln": 3, "msg": "..."}}
//	{"errors": ["..."]}
//	{"error": "message ln: 3"}
//	{"uuid": "...", "section": {"text": "...", "opts": [...], "end": true}}
func DecodeResponse(body []byte) (Response, error) {
	if !gjson.ValidBytes(body) {
		return Response{}, fmt.Errorf("%w: invalid json", ErrUnknownShape)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return Response{}, fmt.Errorf("%w: top level is %s", ErrUnknownShape, root.Type)
	}

	if errs := root.Get("errors"); errs.Exists() && errs.Type != gjson.Null {
		return Response{Diagnostics: decodeDiagnostics(errs)}, nil
	}
	if legacy := root.Get("error"); legacy.Exists() && legacy.Type != gjson.Null {
		return Response{Diagnostics: []Diagnostic{decodeDiagnostic(legacy)}}, nil
	}

	sec := root.Get("section")
	if !sec.IsObject() {
		return Response{}, ErrUnknownShape
	}
	id := root.Get("uuid").String()
	if id == "" {
		return Response{}, ErrMissingUUID
	}
	section := decodeSection(sec)
	return Response{UUID: id, Section: &section}, nil
}

func decodeDiagnostics(errs gjson.Result) []Diagnostic {
	if !errs.IsArray() {
		return []Diagnostic{decodeDiagnostic(errs)}
	}
	out := []Diagnostic{}
	errs.ForEach(func(_, item gjson.Result) bool {
		out = append(out, decodeDiagnostic(item))
		return true
	})
	return out
}

func decodeDiagnostic(item gjson.Result) Diagnostic {
	if item.IsObject() {
		d := Diagnostic{
			Line:    int(item.Get("ln").Int()),
			Message: item.Get("msg").String(),
		}
		if d.Message == "" {
			d.Message = item.Get("message").String()
		}
		if d.Line < 0 {
			d.Line = 0
		}
		return d
	}
	return parseLegacy(item.String())
}

func parseLegacy(text string) Diagnostic {
	text = strings.TrimSpace(text)
	m := legacyLine.FindStringSubmatch(text)
	if m == nil {
		return Diagnostic{Message: text}
	}
	ln, err := strconv.Atoi(m[2])
	if err != nil {
		return Diagnostic{Message: text}
	}
	return Diagnostic{Line: ln, Message: strings.TrimSpace(m[1])}
}

func decodeSection(sec gjson.Result) Section {
	s := Section{
		Text: sec.Get("text").String(),
		End:  sec.Get("end").Bool(),
	}
	s.Options = stringList(sec.Get("opts"))
	s.Tags = stringList(sec.Get("tags"))
	return s
}

func stringList(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	var out []string
	v.ForEach(func(_, item gjson.Result) bool {
		out = append(out, item.String())
		return true
	})
	return out
}
