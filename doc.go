// Package cvar provides a typed, thread-safe registry of named configuration variables.
//
// Quick Start:
//
//	reg := cvar.New(cvar.WithConfigPath("config.json"))
//
//	reg.Register(cvar.NewVariable("server.port", 8080, cvar.IntRanged(1, 65535),
//	    cvar.WithDescription("HTTP listen port")))
//	reg.Register(cvar.NewVariable("server.host", "localhost", cvar.StringNonEmpty()))
//
//	if err := reg.Load(); err != nil {
//	    log.Print(err)
//	}
//	err := reg.Set("server.port", " 9090 ")
//	port, ok := cvar.Get[int](reg, "server.port")
//
// Every variable carries a Validator that turns text into its type: a chain of
// string stages (Trim, NotEmpty), one parser (Integer, Float, Boolean, Text,
// Duration), and typed stages (Min, Max, Range, OneOf). Build one with
// NewBuilder or use the shortcuts IntRanged, FloatRanged, StringNonEmpty and
// Boolean.
//
// Dotted names nest in saved documents: "server.port" is stored as the key
// "port" inside the object "server". Documents are JSON, YAML or TOML,
// chosen by file extension.
//
// See example_test.go and examples/basic for detailed usage.
package cvar
