package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tree-reshaper/cast"
	"tree-reshaper/internal/common"
	"tree-reshaper/internal/diagnostic"
)

// Compile turns a raw schema into an executable program for mode. Nothing
// but the schema is inspected. On failure the returned error joins one
// *shapeerr.SchemaError per problem found.
func Compile(raw Raw, mode Mode, d Delimiters) (*Schema, error) {
	s, diags := Check(raw, mode, d)
	if err := diags.Err(); err != nil {
		return nil, err
	}

	return s, nil
}

// Check compiles raw and reports every error and warning found. The
// returned Schema is nil whenever the diagnostics hold errors.
func Check(raw Raw, mode Mode, d Delimiters) (*Schema, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}

	if !mode.IsValid() {
		diags.AddError("unknown_mode",
			fmt.Sprintf("unknown mode %s, expected reshape, select or prune", mode), diagnostic.NoEntry, "")

		return nil, diags
	}

	d = d.WithDefaults()
	if err := d.Validate(); err != nil {
		diags.AddError("invalid_delimiters", err.Error(), diagnostic.NoEntry, "")
		return nil, diags
	}

	c := &compiler{mode: mode, delim: d, diags: diags}

	s := &Schema{
		Mode:    mode,
		Entries: make([]Entry, 0, len(raw.Entries)),
		Streams: map[string]int{},
	}

	for i, re := range raw.Entries {
		if entry, ok := c.entry(i, re); ok {
			s.Entries = append(s.Entries, entry)
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}

	c.validate(s)

	if diags.HasErrors() {
		return nil, diags
	}

	return s, diags
}

// compiler holds the state of one compilation.
type compiler struct {
	mode  Mode
	delim Delimiters
	diags *diagnostic.Diagnostics
}

func (c *compiler) fail(entry int, path, code, format string, args ...any) bool {
	c.diags.AddError(code, fmt.Sprintf(format, args...), entry, path)
	return false
}

func (c *compiler) warn(entry int, path, code, format string, args ...any) {
	c.diags.AddWarning(code, fmt.Sprintf(format, args...), entry, path)
}

func (c *compiler) entry(idx int, re RawEntry) (Entry, bool) {
	label := c.label(re.Input)

	switch {
	case c.mode == ModeReshape && re.Output == nil:
		return Entry{}, c.fail(idx, label, "missing_output", "reshape entries need an output definition")
	case c.mode != ModeReshape && re.Output != nil:
		return Entry{}, c.fail(idx, label, "unexpected_output", "%s entries take no output definition", c.mode)
	}

	in, ok := c.input(idx, re.Input)
	if !ok {
		return Entry{}, false
	}

	entry := Entry{Input: in}

	if re.Output != nil {
		out, ok := c.output(idx, *re.Output)
		if !ok {
			return Entry{}, false
		}

		entry.Output = &out
	}

	return entry, true
}

// label renders a definition for diagnostics.
func (c *compiler) label(def RawDef) string {
	switch {
	case def.IsShorthand():
		return def.Text
	case def.Keys == nil:
		return ""
	case def.Keys.IsList:
		return strings.Join(def.Keys.Segments, c.delim.Segment)
	default:
		return def.Keys.Path
	}
}

// checkForm rejects definitions that mix or omit both forms.
func (c *compiler) checkForm(idx int, def RawDef, label string) bool {
	switch {
	case def.IsShorthand() && def.hasStructuredFields():
		return c.fail(idx, label, "conflicting_definition", "a definition is either a path string or structured fields, not both")
	case !def.IsShorthand() && !def.hasStructuredFields():
		return c.fail(idx, label, "empty_keys", "definition has no key path")
	case !def.IsShorthand() && def.Keys == nil:
		return c.fail(idx, label, "missing_keys", "structured definition has no keys field")
	}

	return true
}

// --- inputs ---

func (c *compiler) input(idx int, def RawDef) (Input, bool) {
	label := c.label(def)
	if !c.checkForm(idx, def, label) {
		return Input{}, false
	}

	var (
		in Input
		ok bool
	)

	if def.IsShorthand() {
		in, ok = c.inputShorthand(idx, def.Text)
	} else {
		in, ok = c.inputStructured(idx, def, label)
	}

	if !ok {
		return Input{}, false
	}

	if in.Stream != "" && c.mode == ModeSelect {
		c.warn(idx, label, "ignored_stream_name", "select entries do not declare streams, name %q is ignored", in.Stream)
		in.Stream = ""
	}

	if !c.bindCaptures(idx, label, &in) {
		return Input{}, false
	}

	return in, true
}

// inputShorthand parses "path[|token]*[=>stream]". Prune paths carry no
// suffixes.
func (c *compiler) inputShorthand(idx int, text string) (Input, bool) {
	d := c.delim
	body := text

	var in Input

	if c.mode != ModePrune {
		if pos := lastIndexUnescaped(body, d.Value); pos >= 0 {
			name, ok := c.name(idx, text, "stream", body[pos+len(d.Value):])
			if !ok {
				return Input{}, false
			}

			in.Stream = name
			body = body[:pos]
		}

		if pos := indexUnescaped(body, d.Cast); pos >= 0 {
			if !c.inputTokens(idx, text, splitUnescaped(body[pos+len(d.Cast):], d.Cast), &in) {
				return Input{}, false
			}

			body = body[:pos]
		}
	}

	prog, ok := c.program(idx, text, body, nil)
	if !ok {
		return Input{}, false
	}

	in.Path = prog

	return in, true
}

func (c *compiler) inputTokens(idx int, text string, tokens []string, in *Input) bool {
	for _, tok := range tokens {
		word, err := unescape(tok)
		if err != nil {
			return c.fail(idx, text, "invalid_path", "%v", err)
		}

		if policy, isPolicy := parsePolicy(word); isPolicy {
			if in.Policy != PolicyInherit {
				return c.fail(idx, text, "duplicate_policy", "policy given more than once")
			}

			in.Policy = policy

			continue
		}

		if in.Cast != nil {
			return c.fail(idx, text, "duplicate_cast", "cast given more than once")
		}

		spec, ok := c.castToken(idx, text, tok)
		if !ok {
			return false
		}

		in.Cast = spec
	}

	return true
}

func (c *compiler) inputStructured(idx int, def RawDef, label string) (Input, bool) {
	prog, ok := c.program(idx, label, def.Keys.Path, def.Keys)
	if !ok {
		return Input{}, false
	}

	in := Input{Path: prog}

	if c.mode == ModePrune {
		for _, f := range []struct{ name, value string }{
			{"name", def.Name}, {"type", def.Type}, {"param", def.Param}, {"policy", def.Policy}, {"value", def.Value},
		} {
			if f.value != "" {
				c.warn(idx, label, "ignored_field", "prune entries ignore the %s field", f.name)
			}
		}

		return in, true
	}

	if def.Value != "" {
		return Input{}, c.fail(idx, label, "invalid_field", "value is only valid on output definitions")
	}

	if def.Name != "" {
		name, ok := c.name(idx, label, "stream", def.Name)
		if !ok {
			return Input{}, false
		}

		in.Stream = name
	}

	spec, ok := c.structuredCast(idx, label, def)
	if !ok {
		return Input{}, false
	}

	in.Cast = spec

	if def.Policy != "" {
		policy, known := parsePolicy(def.Policy)
		if !known {
			return Input{}, c.fail(idx, label, "unknown_policy",
				"unknown policy %q, expected required or ignore", def.Policy)
		}

		in.Policy = policy
	}

	return in, true
}

// program parses either a path string or, when keys lists its segments,
// one segment per element.
func (c *compiler) program(idx int, label, path string, keys *Keys) (Program, bool) {
	var (
		prog Program
		err  error
	)

	if keys != nil && keys.IsList {
		prog, err = parseSegments(keys.Segments, c.delim)
	} else {
		prog, err = ParsePath(path, c.delim)
	}

	if err != nil {
		return nil, c.pathError(idx, label, err)
	}

	return prog, true
}

func (c *compiler) pathError(idx int, label string, err error) bool {
	if errors.Is(err, errEmptyPath) {
		return c.fail(idx, label, "empty_keys", "key path is empty")
	}

	return c.fail(idx, label, "invalid_path", "%v", err)
}

// bindCaptures records capture positions and names unnamed captures.
func (c *compiler) bindCaptures(idx int, label string, in *Input) bool {
	in.Captures = map[string]int{}
	ok := true

	for i, seg := range in.Path {
		if seg.Kind != SegmentCapture || seg.Text == "" {
			continue
		}

		if prev, dup := in.Captures[seg.Text]; dup {
			ok = c.fail(idx, label, "duplicate_capture",
				"capture %q is declared at segments %d and %d", seg.Text, prev, i)

			continue
		}

		in.Captures[seg.Text] = i
	}

	for i := range in.Path {
		seg := &in.Path[i]
		if seg.Kind != SegmentCapture || seg.Text != "" {
			continue
		}

		name := syntheticPrefix + strconv.Itoa(i)
		for _, taken := in.Captures[name]; taken; _, taken = in.Captures[name] {
			name += syntheticPrefix
		}

		seg.Text = name
		in.Captures[name] = i
	}

	return ok
}

func parsePolicy(word string) (Policy, bool) {
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "required":
		return PolicyRequired, true
	case "ignore":
		return PolicyIgnore, true
	default:
		return PolicyInherit, false
	}
}

// --- outputs ---

func (c *compiler) output(idx int, def RawDef) (Output, bool) {
	label := c.label(def)
	if !c.checkForm(idx, def, label) {
		return Output{}, false
	}

	if def.IsShorthand() {
		return c.outputShorthand(idx, def.Text)
	}

	return c.outputStructured(idx, def, label)
}

// outputShorthand parses "path[|type[:param]][=>@stream|=>$capture]".
func (c *compiler) outputShorthand(idx int, text string) (Output, bool) {
	d := c.delim
	body := text

	var out Output

	if pos := lastIndexUnescaped(body, d.Value); pos >= 0 {
		src, ok := c.valueSource(idx, text, body[pos+len(d.Value):])
		if !ok {
			return Output{}, false
		}

		out.Source = src
		body = body[:pos]
	}

	if pos := indexUnescaped(body, d.Cast); pos >= 0 {
		tokens := splitUnescaped(body[pos+len(d.Cast):], d.Cast)
		if common.IsMultiple(tokens) {
			return Output{}, c.fail(idx, text, "duplicate_cast", "an output takes a single cast")
		}

		spec, ok := c.castToken(idx, text, tokens[0])
		if !ok {
			return Output{}, false
		}

		out.Cast = spec
		body = body[:pos]
	}

	path, err := parseOutputPath(body, d)
	if err != nil {
		return Output{}, c.pathError(idx, text, err)
	}

	out.Path = path

	return out, true
}

func (c *compiler) outputStructured(idx int, def RawDef, label string) (Output, bool) {
	var (
		path []OutputSegment
		err  error
	)

	if def.Keys.IsList {
		path, err = parseOutputSegments(def.Keys.Segments, c.delim)
	} else {
		path, err = parseOutputPath(def.Keys.Path, c.delim)
	}

	if err != nil {
		return Output{}, c.pathError(idx, label, err)
	}

	out := Output{Path: path}

	if def.Name != "" {
		c.warn(idx, label, "ignored_field", "output definitions ignore the name field")
	}

	if def.Policy != "" {
		c.warn(idx, label, "ignored_field", "output definitions ignore the policy field")
	}

	spec, ok := c.structuredCast(idx, label, def)
	if !ok {
		return Output{}, false
	}

	out.Cast = spec

	if def.Value != "" {
		src, ok := c.valueSource(idx, label, def.Value)
		if !ok {
			return Output{}, false
		}

		out.Source = src
	}

	return out, true
}

func (c *compiler) valueSource(idx int, text, raw string) (ValueSource, bool) {
	d := c.delim

	switch {
	case strings.HasPrefix(raw, d.Stream):
		name, ok := c.name(idx, text, "stream", raw[len(d.Stream):])
		return ValueSource{Kind: SourceStream, Name: name}, ok
	case strings.HasPrefix(raw, d.Capture):
		name, ok := c.name(idx, text, "capture", raw[len(d.Capture):])
		return ValueSource{Kind: SourceCapture, Name: name}, ok
	default:
		return ValueSource{}, c.fail(idx, text, "invalid_value_source",
			"value source %q must start with %q or %q", raw, d.Stream, d.Capture)
	}
}

// --- shared ---

// name unescapes a stream or capture name and rejects empty names and
// names holding unescaped delimiters.
func (c *compiler) name(idx int, text, what, raw string) (string, bool) {
	for _, sep := range []string{c.delim.Segment, c.delim.Cast} {
		if indexUnescaped(raw, sep) >= 0 {
			return "", c.fail(idx, text, "invalid_name", "%s name %q contains an unescaped %q", what, raw, sep)
		}
	}

	name, err := unescape(strings.TrimSpace(raw))
	if err != nil {
		return "", c.fail(idx, text, "invalid_path", "%v", err)
	}

	if name == "" {
		return "", c.fail(idx, text, "invalid_name", "empty %s name", what)
	}

	return name, true
}

// castToken parses "type[:param]".
func (c *compiler) castToken(idx int, text, tok string) (*cast.Spec, bool) {
	typ, param := tok, ""
	if pos := indexUnescaped(tok, c.delim.Param); pos >= 0 {
		typ, param = tok[:pos], tok[pos+len(c.delim.Param):]
	}

	typ, err := unescape(strings.TrimSpace(typ))
	if err != nil {
		return nil, c.fail(idx, text, "invalid_path", "%v", err)
	}

	param, err = unescape(param)
	if err != nil {
		return nil, c.fail(idx, text, "invalid_path", "%v", err)
	}

	if typ == "" {
		return nil, c.fail(idx, text, "invalid_cast", "cast has no type")
	}

	return newSpec(typ, param), true
}

func (c *compiler) structuredCast(idx int, label string, def RawDef) (*cast.Spec, bool) {
	switch {
	case def.Type != "":
		return newSpec(strings.TrimSpace(def.Type), def.Param), true
	case def.Param != "":
		return nil, c.fail(idx, label, "invalid_cast", "param %q given without a type", def.Param)
	default:
		return nil, true
	}
}

// newSpec builds a cast spec, defaulting the precision of floating kinds.
func newSpec(typ, param string) *cast.Spec {
	if param == "" && cast.IsFloatType(typ) {
		param = cast.DefaultFloatPrecision
	}

	return &cast.Spec{Type: typ, Param: param}
}
