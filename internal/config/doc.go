// Package config loads, validates, and saves evaluation scenarios.
//
// A scenario YAML file bundles the outbreak generator, population
// generator, absenteeism compiler, and alarm evaluator sections. Each
// section validates its own parameters and fails fast naming the
// offending value; there is no interactive prompting for missing fields.
package config
