package interp

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// fixture scripts exercise a cross-section of builtins end to end through
// the public Interp surface, the way the teacher's go-snaps fixture suite
// runs whole programs rather than unit-testing individual opcodes.
var fixtures = []struct {
	name   string
	source string
}{
	{
		name: "array_map_reduce",
		source: `
			var doubled = [1, 2, 3, 4].map(function (x) { return x * 2; });
			print(doubled.join(","));
			print(doubled.reduce(function (a, b) { return a + b; }, 0));
		`,
	},
	{
		name: "closures_and_recursion",
		source: `
			function fib(n) {
				if (n < 2) { return n; }
				return fib(n - 1) + fib(n - 2);
			}
			print(fib(10));
		`,
	},
	{
		name: "try_catch_error_message",
		source: `
			try {
				null.foo;
			} catch (e) {
				print(e.name + ": " + e.message);
			}
		`,
	},
	{
		name: "json_round_trip",
		source: `
			var data = { name: "sandbox", limits: [1, 2, 3] };
			print(JSON.stringify(data));
		`,
	},
}

func TestFixtures(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			var out strings.Builder
			i, err := New(fx.source, Config{
				RegexMode: RegexNative,
				Print:     func(s string) { out.WriteString(s); out.WriteString("\n") },
			})
			if err != nil {
				t.Fatalf("construction failed: %v", err)
			}
			if _, err := i.Run(); err != nil {
				t.Fatalf("run failed: %v", err)
			}
			snaps.MatchSnapshot(t, out.String())
		})
	}
}

func TestRegexDisabledModeThrows(t *testing.T) {
	var out strings.Builder
	i, err := New(`
		try {
			/foo/.test("foo");
			print("no error");
		} catch (e) {
			print(e.message);
		}
	`, Config{
		RegexMode: RegexDisabled,
		Print:     func(s string) { out.WriteString(s); out.WriteString("\n") },
	})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	if _, err := i.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out.String(), "not supported") {
		t.Fatalf("expected the regex-disabled error message to surface, got %q", out.String())
	}
}
