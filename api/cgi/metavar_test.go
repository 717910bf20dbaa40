package cgi

import "testing"

func TestMetaVariableNames(t *testing.T) {
	seen := make(map[string]MetaVariable)
	for _, m := range MetaVariables() {
		name := m.String()
		if prev, ok := seen[name]; ok {
			t.Fatalf("%v and %v share the name %s", prev, m, name)
		}
		seen[name] = m

		parsed, ok := ParseMetaVariable(name)
		if !ok || parsed != m {
			t.Fatalf("ParseMetaVariable(%s) = %v, %v; want %v", name, parsed, ok, m)
		}
	}
	if len(seen) != int(numMetaVariables) {
		t.Fatalf("expected %d names, got %d", numMetaVariables, len(seen))
	}
}

func TestParseMetaVariableRejects(t *testing.T) {
	for _, name := range []string{"", "FOO", "path_info", "HTTP_HOST", "PATH_INFO "} {
		if m, ok := ParseMetaVariable(name); ok {
			t.Errorf("ParseMetaVariable(%q) = %v, expected no match", name, m)
		}
	}
	if s := MetaVariable(-1).String(); s != "MetaVariable(?)" {
		t.Errorf("unexpected name for an out of range value: %s", s)
	}
}
