package cgi

import (
	"os"
	"sort"
	"strings"
)

// Environment is the read-only view of the process environment a CGI
// request is built from.
type Environment interface {
	// Vars returns a snapshot of every variable.
	Vars() map[string]string
	// Lookup returns the value of key and whether it was set.
	Lookup(key string) (string, bool)
}

// OSEnvironment reads the real process environment.
type OSEnvironment struct{}

func (OSEnvironment) Vars() map[string]string {
	env := os.Environ()
	vars := make(map[string]string, len(env))
	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[k] = v
	}
	return vars
}

func (OSEnvironment) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnvironment is a fixed environment, mostly useful in tests.
type MapEnvironment map[string]string

func (m MapEnvironment) Vars() map[string]string {
	vars := make(map[string]string, len(m))
	for k, v := range m {
		vars[k] = v
	}
	return vars
}

func (m MapEnvironment) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Getenv looks up a meta-variable by its registered name.
func Getenv(env Environment, key MetaVariable) (string, bool) {
	return env.Lookup(key.String())
}

// MetaVars returns the subset of env that are recognized meta-variables,
// sorted by name. Used for diagnostics.
func MetaVars(env Environment) []KeyValue {
	var kvs []KeyValue
	for k, v := range env.Vars() {
		if _, ok := ParseMetaVariable(k); ok {
			kvs = append(kvs, KeyValue{Key: k, Value: v})
		}
	}
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].Key < kvs[j].Key })
	return kvs
}

// KeyValue is a single environment entry.
type KeyValue struct {
	Key   string
	Value string
}
