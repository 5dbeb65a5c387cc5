package pkgmeta

import (
	"github.com/etnz/dcfmeta/dcf"
	"github.com/phuslu/log"
)

// Options returns the build options of the source tree in dir, read from its
// .BBSoptions file with all records merged.
//
// It returns nil when the file is missing or is not valid DCF: a package
// without usable options builds with the defaults.
func Options(dir string) dcf.Record {
	path := OptionsPath(dir)
	opts, err := dcf.ParseFileMerged(path)
	if err != nil {
		log.Debug().Str("file", path).Err(err).Msg("no usable build options")
		return nil
	}
	return opts
}

// Option returns the value of the build option key of the source tree in dir.
func Option(dir, key string) (string, bool) {
	opts := Options(dir)
	if opts == nil {
		return "", false
	}
	v, ok := opts[key]
	return v, ok
}
