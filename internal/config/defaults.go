package config

import "time"

// Default returns the canonical layout: a `src` tree built into `dist`.
func Default(mode Mode) *Model {
	return &Model{
		Mode:      mode,
		SourceDir: "src",
		OutputDir: "dist",
		Workers:   4,
		Styles: Styles{
			Sources: []string{"styles/**/*.css"},
			Output:  "main.css",
			Engines: []string{"chrome58", "edge16", "firefox57", "safari11", "ios11"},
		},
		Scripts: Scripts{
			Components: []string{"js/components/**/*.js"},
			Entry:      "js/main.js",
			Output:     "app.js",
			Target:     "es2015",
		},
		Markup: Markup{
			Sources: []string{"**/*.html"},
		},
		Sprites: Sprites{
			Sources: []string{"images/svg/**/*.svg"},
			Root:    "images/svg",
			Output:  "images/sprite.svg",
		},
		Images: Images{
			Sources: []string{
				"images/**/*.jpg",
				"images/**/*.png",
				"images/*.svg",
				"images/**/*.jpeg",
			},
			Root:        "images",
			OutputDir:   "images",
			JPEGQuality: 85,
		},
		Resources: Resources{
			Sources: []string{"resources/**"},
			Root:    "resources",
		},
		Server: Server{
			Host: "localhost",
			Port: 3000,
		},
		Watch: Watch{
			Debounce: 100 * time.Millisecond,
		},
	}
}
