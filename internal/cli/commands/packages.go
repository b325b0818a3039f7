package commands

import (
	"fmt"

	"github.com/grug-lang/grug/engine"
	"github.com/grug-lang/grug/internal/cli/config"
	"github.com/grug-lang/grug/packages/stdlib"
)

// resolvePackages turns the package names declared in grug.yml into the
// engine.Package bundles the CLI links against. Only the bundles grug
// ships with are addressable by name; a host embedding the engine directly
// registers its own engine.Package values instead of going through config.
func resolvePackages(cfgPackages []config.PackageConfig) ([]engine.Package, error) {
	var out []engine.Package
	for _, pc := range cfgPackages {
		switch pc.Name {
		case "stdlib":
			out = append(out, stdlib.New(pc.Prefix))
		default:
			return nil, fmt.Errorf("unknown package %q in grug.yml", pc.Name)
		}
	}
	return out, nil
}
