package app

import (
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/modules/clean"
	"github.com/specialistvlad/assetgrid/modules/images"
	"github.com/specialistvlad/assetgrid/modules/markup"
	"github.com/specialistvlad/assetgrid/modules/resources"
	"github.com/specialistvlad/assetgrid/modules/scripts"
	"github.com/specialistvlad/assetgrid/modules/sprites"
	"github.com/specialistvlad/assetgrid/modules/styles"
)

// coreModules is the definitive list of all modules that are compiled into
// the assetgrid binary.
var coreModules = []registry.Module{
	&clean.Module{},
	&resources.Module{},
	&markup.Module{},
	&styles.Module{},
	&sprites.Module{},
	&images.Module{},
	&scripts.Module{},
}

// Targets are the named task lists the CLI exposes.
var Targets = map[string][]string{
	"build": {clean.Name, resources.Name, markup.Name, styles.Name, sprites.Name, images.Name, scripts.Name},
	"dev":   {clean.Name, resources.Name, markup.Name, styles.Name, sprites.Name, images.Name, WatchTaskName},
	"watch": {WatchTaskName},
}
