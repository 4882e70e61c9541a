package vtempl

import "regexp"

// The pattern library. Every stage of the pipeline locates its tokens with
// these expressions; nothing in the package scans markup any other way.

// tagPattern locates the next tag-like token. Captures: closing slash, tag
// name, raw attribute blob (quoted values may contain angle brackets' usual
// troublemakers), self-closing slash.
var tagPattern = regexp.MustCompile(`<(/?)([A-Za-z][\w.-]*)((?:"[^"]*"|'[^']*'|[^"'<>])*?)(/?)>`)

// attrPattern splits an attribute blob into key/value pairs. The value part
// is optional: a key with no recognizable value becomes a boolean-true flag.
var attrPattern = regexp.MustCompile(`([A-Za-z_:@][\w:.@-]*)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'=<>]+)))?`)

// commentPattern matches <!-- ... --> regions, across newlines.
var commentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)

// defaultInterpolation matches an embedded {{ expression }} marker inside
// text or attribute values, capturing the expression.
var defaultInterpolation = regexp.MustCompile(`\{\{\s*(.+?)\s*\}\}`)

// defaultBinding matches a string that is exactly one {{ expression }}
// marker. It serves both binding forms: a prop key that is itself a marker
// (the captured name becomes the emitted key) and a prop value that is a
// single marker (the captured expression is emitted verbatim).
var defaultBinding = regexp.MustCompile(`^\{\{\s*(.+?)\s*\}\}$`)
