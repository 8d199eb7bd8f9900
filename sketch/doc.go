// Package sketch runs a generative composition to PNG files.
//
// A Composer builds a composition once from a seeded random generator.
// The Runner then steps and renders it for every frame and writes
// <output>/<seed>/<frame>.png:
//
//	opts, err := sketch.ParseOptions("valora", os.Args[1:])
//	if err != nil { ... }
//	dev, err := backend.Default()
//	if err != nil { ... }
//	_, err = sketch.Run(ctx, opts, dev, sketch.ComposerFunc(compose))
//
// Options come from defaults, then an optional TOML or YAML file named by
// -config, then flags given explicitly on the command line.
package sketch
