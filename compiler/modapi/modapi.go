// Package modapi loads and validates a mod_api.json file: the contract a
// game host publishes describing which entity types exist, which on_fn
// hooks each entity type supports, and which game_functions scripts may
// call into the host.
package modapi

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// OnFn is a single lifecycle hook an entity type supports.
type OnFn struct {
	Name string
	Args []Argument
}

// GameFn is a single host-provided function scripts may call.
type GameFn struct {
	Name        string
	Args        []Argument
	ReturnType  string // "" when the function returns nothing
}

// Argument is a single parameter of an OnFn or GameFn.
type Argument struct {
	Name             string
	Type             string
	ResourceExtension string // set when Type == "resource"
	EntityType       string // set when Type == "entity" or a tagged "id"
}

// EntityType describes one entity kind's lifecycle surface.
type EntityType struct {
	Name    string
	OnFns   []OnFn
}

// ModApi is the fully parsed, order-validated contract.
type ModApi struct {
	EntityTypes []EntityType
	GameFns     []GameFn
}

// Load reads and validates mod_api.json at path. Both the top-level
// "entities" object and "game_functions" object, and each entity's
// "on_functions" object, must have keys in strict lexicographic order; a
// single out-of-order key fails the whole load, per the mod API's
// load-time invariant.
func Load(path string) (*ModApi, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mod api: %w", err)
	}
	return Parse(raw)
}

// Parse validates and decodes raw mod_api.json content. gjson.ForEach
// walks JSON object keys in on-the-wire order, which plain encoding/json
// (backed by Go maps) cannot do; that ordering is the only way to check
// the "sorted lexicographically" invariant at all.
func Parse(raw []byte) (*ModApi, error) {
	root := gjson.ParseBytes(raw)
	if !root.Exists() {
		return nil, fmt.Errorf("mod api: invalid JSON")
	}

	api := &ModApi{}

	entities := root.Get("entities")
	var entityErr error
	var prevEntityKey string
	entities.ForEach(func(key, value gjson.Result) bool {
		if prevEntityKey != "" && key.String() <= prevEntityKey {
			entityErr = fmt.Errorf("mod api: entities key %q is not lexicographically after %q", key.String(), prevEntityKey)
			return false
		}
		prevEntityKey = key.String()

		et, err := parseEntityType(key.String(), value)
		if err != nil {
			entityErr = err
			return false
		}
		api.EntityTypes = append(api.EntityTypes, et)
		return true
	})
	if entityErr != nil {
		return nil, entityErr
	}

	gameFns := root.Get("game_functions")
	var gameErr error
	var prevGameKey string
	gameFns.ForEach(func(key, value gjson.Result) bool {
		if prevGameKey != "" && key.String() <= prevGameKey {
			gameErr = fmt.Errorf("mod api: game_functions key %q is not lexicographically after %q", key.String(), prevGameKey)
			return false
		}
		prevGameKey = key.String()

		fn, err := parseGameFn(key.String(), value)
		if err != nil {
			gameErr = err
			return false
		}
		api.GameFns = append(api.GameFns, fn)
		return true
	})
	if gameErr != nil {
		return nil, gameErr
	}

	return api, nil
}

func parseEntityType(name string, value gjson.Result) (EntityType, error) {
	et := EntityType{Name: name}
	onFns := value.Get("on_functions")

	var prevKey string
	var parseErr error
	onFns.ForEach(func(key, fnValue gjson.Result) bool {
		if prevKey != "" && key.String() <= prevKey {
			parseErr = fmt.Errorf("mod api: entity %q on_functions key %q is not lexicographically after %q", name, key.String(), prevKey)
			return false
		}
		prevKey = key.String()

		args, err := parseArgs(fnValue.Get("arguments"))
		if err != nil {
			parseErr = err
			return false
		}
		et.OnFns = append(et.OnFns, OnFn{Name: key.String(), Args: args})
		return true
	})
	return et, parseErr
}

func parseGameFn(name string, value gjson.Result) (GameFn, error) {
	args, err := parseArgs(value.Get("arguments"))
	if err != nil {
		return GameFn{}, err
	}
	return GameFn{
		Name:       name,
		Args:       args,
		ReturnType: value.Get("return_type").String(),
	}, nil
}

func parseArgs(arr gjson.Result) ([]Argument, error) {
	var args []Argument
	var parseErr error
	arr.ForEach(func(_, v gjson.Result) bool {
		arg := Argument{
			Name:              v.Get("name").String(),
			Type:              v.Get("type").String(),
			ResourceExtension: v.Get("resource_extension").String(),
			EntityType:        v.Get("entity_type").String(),
		}
		if arg.Name == "" || arg.Type == "" {
			parseErr = fmt.Errorf("mod api: argument missing name or type")
			return false
		}
		args = append(args, arg)
		return true
	})
	return args, parseErr
}

// FindEntityType returns the entity type named name, if declared.
func (m *ModApi) FindEntityType(name string) (EntityType, bool) {
	for _, et := range m.EntityTypes {
		if et.Name == name {
			return et, true
		}
	}
	return EntityType{}, false
}

// FindOnFn returns the on_fn hook named name for the given entity type.
func (et EntityType) FindOnFn(name string) (OnFn, bool) {
	for _, fn := range et.OnFns {
		if fn.Name == name {
			return fn, true
		}
	}
	return OnFn{}, false
}

// FindGameFn returns the game_function named name, if declared.
func (m *ModApi) FindGameFn(name string) (GameFn, bool) {
	for _, fn := range m.GameFns {
		if fn.Name == name {
			return fn, true
		}
	}
	return GameFn{}, false
}
