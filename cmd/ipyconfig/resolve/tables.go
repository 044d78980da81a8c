package resolve

import (
	"github.com/jupyter/ipython-py3k/pkg/config"
	"github.com/jupyter/ipython-py3k/pkg/loader"
)

// BuiltinFlagTable returns the alias and flag tables available without a
// --flags-file. User-supplied tables are merged over these.
func BuiltinFlagTable() loader.FlagTable {
	return loader.FlagTable{
		Aliases: loader.Aliases{
			"profile":   "Global.profile",
			"log_level": "Global.log_level",
			"logfile":   "Global.log_file",
		},
		Flags: loader.Flags{
			"debug": {
				Fragment: sectionFragment("Global", map[string]any{"log_level": int64(10)}),
				Help:     "set log level to DEBUG",
			},
			"quiet": {
				Fragment: sectionFragment("Global", map[string]any{"log_level": int64(40)}),
				Help:     "set log level to ERROR",
			},
			"no-banner": {
				Fragment: sectionFragment("Global", map[string]any{"display_banner": false}),
				Help:     "suppress the startup banner",
			},
		},
	}
}

func sectionFragment(section string, entries map[string]any) *config.Config {
	fragment, err := config.FromMap(map[string]any{section: entries})
	if err != nil {
		// The builtin tables are static; a malformed entry is a programming error.
		panic(err)
	}
	return fragment
}
