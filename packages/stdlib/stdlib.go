// Package stdlib is an example engine.Package bundling a small set of
// host-provided game_functions that most mods end up wanting: string
// manipulation, UUID generation, and Unix-timestamp arithmetic. A host
// embedding grug is free to ignore this package entirely and register its
// own; nothing in the engine or interpreter depends on it.
//
// grug's closed value set has no array or hash type, so unlike a generic
// scripting stdlib there is no Array/Hash namespace here — every function
// below operates on number, bool, string, or id.
package stdlib

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/grug-lang/grug/engine"
	"github.com/grug-lang/grug/interp"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// New returns the stdlib package, its game_functions registered under
// prefix. Pass "" to expose them under their bare names.
func New(prefix string) engine.Package {
	return engine.Package{
		Prefix: prefix,
		Fns: []engine.FnImpl{
			{Name: "string_length", HasReturn: true, Call: stringLength},
			{Name: "string_slugify", HasReturn: true, Call: stringSlugify},
			{Name: "string_upcase", HasReturn: true, Call: stringUpcase},
			{Name: "string_downcase", HasReturn: true, Call: stringDowncase},
			{Name: "string_trim", HasReturn: true, Call: stringTrim},
			{Name: "string_contains", HasReturn: true, Call: stringContains},
			{Name: "string_replace", HasReturn: true, Call: stringReplace},
			{Name: "time_now", HasReturn: true, Call: timeNow},
			{Name: "time_format", HasReturn: true, Call: timeFormat},
			{Name: "time_add_days", HasReturn: true, Call: timeAddDays},
			{Name: "uuid_generate", HasReturn: true, Call: uuidGenerate},
		},
	}
}

// string_length(s: string!) -> number!
func stringLength(args []interp.Value) (interp.Value, error) {
	return interp.Number(float64(len([]rune(args[0].String())))), nil
}

// string_slugify(s: string!) -> string!
func stringSlugify(args []interp.Value) (interp.Value, error) {
	s := strings.ToLower(args[0].String())
	s = slugPattern.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return interp.String(s), nil
}

// string_upcase(s: string!) -> string!
func stringUpcase(args []interp.Value) (interp.Value, error) {
	return interp.String(strings.ToUpper(args[0].String())), nil
}

// string_downcase(s: string!) -> string!
func stringDowncase(args []interp.Value) (interp.Value, error) {
	return interp.String(strings.ToLower(args[0].String())), nil
}

// string_trim(s: string!) -> string!
func stringTrim(args []interp.Value) (interp.Value, error) {
	return interp.String(strings.TrimSpace(args[0].String())), nil
}

// string_contains(s: string!, substr: string!) -> bool!
func stringContains(args []interp.Value) (interp.Value, error) {
	return interp.Bool(strings.Contains(args[0].String(), args[1].String())), nil
}

// string_replace(s: string!, old: string!, new: string!) -> string!
func stringReplace(args []interp.Value) (interp.Value, error) {
	return interp.String(strings.ReplaceAll(args[0].String(), args[1].String(), args[2].String())), nil
}

// time_now() -> number!
//
// grug has no timestamp type, so time is represented as seconds since the
// Unix epoch, same unit time_add_days and time_format expect back.
func timeNow(args []interp.Value) (interp.Value, error) {
	return interp.Number(float64(time.Now().Unix())), nil
}

// time_format(t: number!, layout: string!) -> string!
//
// layout is a Go time-formatting reference string, e.g. "2006-01-02".
func timeFormat(args []interp.Value) (interp.Value, error) {
	t := time.Unix(int64(args[0].Number()), 0).UTC()
	return interp.String(t.Format(args[1].String())), nil
}

// time_add_days(t: number!, days: number!) -> number!
func timeAddDays(args []interp.Value) (interp.Value, error) {
	t := time.Unix(int64(args[0].Number()), 0).UTC()
	return interp.Number(float64(t.AddDate(0, 0, int(args[1].Number())).Unix())), nil
}

// uuid_generate() -> string!
func uuidGenerate(args []interp.Value) (interp.Value, error) {
	return interp.String(uuid.New().String()), nil
}
