package evaluator_test

import "testing"

func TestArrayPolyfillMethods(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{`[1,2,3].map(function(x){ return x*2; }).reduce(function(a,b){ return a+b; }, 0);`, 12},
		{`[1,2,3,4].filter(function(x){ return x % 2 === 0; }).length;`, 2},
		{`[1,2,3].indexOf(2);`, 1},
		{`[1,2,3].lastIndexOf(3);`, 2},
	}
	for _, tt := range tests {
		expectNumber(t, testEval(t, tt.input), tt.want)
	}
}

func TestArrayForEachSideEffects(t *testing.T) {
	src := `
		var out = [];
		[1,2,3].forEach(function (x) { out.push(x * x); });
		out.join(",");
	`
	expectString(t, testEval(t, src), "1,4,9")
}

func TestArrayEverySome(t *testing.T) {
	expectBool(t, testEval(t, `[2,4,6].every(function(x){ return x % 2 === 0; });`), true)
	expectBool(t, testEval(t, `[1,2,3].some(function(x){ return x > 2; });`), true)
	expectBool(t, testEval(t, `[1,2,3].some(function(x){ return x > 5; });`), false)
}

func TestStringMethods(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello".toUpperCase();`, "HELLO"},
		{`"HELLO".toLowerCase();`, "hello"},
		{`"  hi  ".trim();`, "hi"},
		{`"hello".slice(1, 3);`, "el"},
		{`"a,b,c".split(",").join("-");`, "a-b-c"},
	}
	for _, tt := range tests {
		expectString(t, testEval(t, tt.input), tt.want)
	}
}

func TestMathBuiltins(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"Math.abs(-5);", 5},
		{"Math.max(1, 9, 3);", 9},
		{"Math.min(1, 9, 3);", 1},
		{"Math.floor(3.7);", 3},
		{"Math.pow(2, 10);", 1024},
	}
	for _, tt := range tests {
		expectNumber(t, testEval(t, tt.input), tt.want)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	src := `
		var obj = { a: 1, b: [1, 2, 3], c: "x" };
		var text = JSON.stringify(obj);
		var back = JSON.parse(text);
		back.a + back.b.length + back.c.length;
	`
	expectNumber(t, testEval(t, src), 5)
}

func TestFunctionCallApplyBind(t *testing.T) {
	src := `
		function sum(a, b, c) { return a + b + c; }
		var viaCall = sum.call(null, 1, 2, 3);
		var viaApply = sum.apply(null, [4, 5, 6]);
		var bound = sum.bind(null, 10);
		var viaBind = bound(20, 30);
		viaCall + viaApply + viaBind;
	`
	expectNumber(t, testEval(t, src), 6+15+60)
}

func TestFunctionConstructor(t *testing.T) {
	src := `
		var add = new Function("a", "b", "return a + b;");
		add(3, 4);
	`
	expectNumber(t, testEval(t, src), 7)
}

func TestRegExpExecAndTest(t *testing.T) {
	expectBool(t, testEval(t, `/foo/.test("foobar");`), true)
	expectBool(t, testEval(t, `/foo/.test("bar");`), false)
	src := `
		var m = /(\w+)@(\w+)/.exec("user@host");
		m[1] + "-" + m[2];
	`
	expectString(t, testEval(t, src), "user-host")
}

func TestDateConstructorAndGetters(t *testing.T) {
	src := `
		var d = new Date(2020, 0, 15);
		d.getFullYear() + "-" + (d.getMonth() + 1) + "-" + d.getDate();
	`
	expectString(t, testEval(t, src), "2020-1-15")
}
