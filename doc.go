package gokumi

// Package gokumi provides:
//
// - Fluent, pooled object builders driven by a schema, a constructor, or a plain key list
// - A stable error model via Issues (JSON Pointer, code, message)
// - Per-configuration object pools with hit/miss/utilization accounting
// - An explicit Manager for pool lifecycle, with a package-level default for the common path
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place the reference schema DSL under schema/, field projection under pick/, and the CLI under cmd/gokumi.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  f, err := gokumi.New([]string{"id", "total"})
//  b := f.Acquire()
//  v, err := b.Set("id", 1).Set("total", 99.99).Build(ctx)
//  b.Release()
//
//  s := schema.Object().Field("email", schema.String().Pattern(`^[^@]+@[^@]+$`)).Required().MustBuild()
//  f, err := gokumi.New(s)
//
// Builders mutate in place: every Set call returns the same instance, so a
// chain never allocates. This is deliberately the opposite discipline from
// persistent/functional accumulators; the two styles do not mix here.
