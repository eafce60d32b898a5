package evaluator_test

import "testing"

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"5;", 5},
		{"5.5;", 5.5},
		{"-5;", -5},
		{"0;", 0},
		{"1e3;", 1000},
	}
	for _, tt := range tests {
		expectNumber(t, testEval(t, tt.input), tt.want)
	}
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello";`, "hello"},
		{`'world';`, "world"},
		{`"a" + "b";`, "ab"},
	}
	for _, tt := range tests {
		expectString(t, testEval(t, tt.input), tt.want)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1 + 2;", 3},
		{"5 - 3;", 2},
		{"4 * 3;", 12},
		{"10 / 4;", 2.5},
		{"10 % 3;", 1},
		{"2 + 3 * 4;", 14},
		{"(2 + 3) * 4;", 20},
		{"-5 + 3;", -2},
	}
	for _, tt := range tests {
		expectNumber(t, testEval(t, tt.input), tt.want)
	}
}

func TestComparisonAndEquality(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1 < 2;", true},
		{"2 < 1;", false},
		{"1 <= 1;", true},
		{"2 >= 3;", false},
		{"1 == 1;", true},
		{"1 == '1';", true},
		{"1 === '1';", false},
		{"1 !== '1';", true},
		{"null == undefined;", true},
		{"null === undefined;", false},
	}
	for _, tt := range tests {
		expectBool(t, testEval(t, tt.input), tt.want)
	}
}

func TestLogicalOperators(t *testing.T) {
	expectBool(t, testEval(t, "true && false;"), false)
	expectBool(t, testEval(t, "true || false;"), true)
	expectNumber(t, testEval(t, "0 || 5;"), 5)
	expectNumber(t, testEval(t, "3 && 5;"), 5)
}

func TestIfElse(t *testing.T) {
	expectNumber(t, testEval(t, "var x; if (true) { x = 1; } else { x = 2; } x;"), 1)
	expectNumber(t, testEval(t, "var x; if (false) { x = 1; } else { x = 2; } x;"), 2)
}

func TestWhileLoop(t *testing.T) {
	src := `
		var i = 0;
		var sum = 0;
		while (i < 5) {
			sum = sum + i;
			i = i + 1;
		}
		sum;
	`
	expectNumber(t, testEval(t, src), 10)
}

func TestForLoop(t *testing.T) {
	src := `
		var sum = 0;
		for (var i = 0; i < 5; i = i + 1) {
			sum = sum + i;
		}
		sum;
	`
	expectNumber(t, testEval(t, src), 10)
}

func TestForInLoop(t *testing.T) {
	src := `
		var obj = { a: 1, b: 2, c: 3 };
		var keys = [];
		for (var k in obj) {
			keys.push(k);
		}
		keys.length;
	`
	expectNumber(t, testEval(t, src), 3)
}

func TestBreakContinue(t *testing.T) {
	src := `
		var sum = 0;
		for (var i = 0; i < 10; i = i + 1) {
			if (i === 5) { break; }
			if (i % 2 === 0) { continue; }
			sum = sum + i;
		}
		sum;
	`
	// i = 1,3 contribute before breaking at i === 5
	expectNumber(t, testEval(t, src), 4)
}

func TestFunctionDeclaration(t *testing.T) {
	src := `
		function add(a, b) {
			return a + b;
		}
		add(2, 3);
	`
	expectNumber(t, testEval(t, src), 5)
}

func TestFunctionExpressionClosure(t *testing.T) {
	src := `
		function makeCounter() {
			var count = 0;
			return function () {
				count = count + 1;
				return count;
			};
		}
		var counter = makeCounter();
		counter();
		counter();
		counter();
	`
	expectNumber(t, testEval(t, src), 3)
}

func TestRecursion(t *testing.T) {
	src := `
		function fact(n) {
			if (n <= 1) { return 1; }
			return n * fact(n - 1);
		}
		fact(6);
	`
	expectNumber(t, testEval(t, src), 720)
}

func TestTryCatchFinally(t *testing.T) {
	src := `
		var log = [];
		try {
			log.push("try");
			throw new Error("boom");
		} catch (e) {
			log.push("catch:" + e.message);
		} finally {
			log.push("finally");
		}
		log.join(",");
	`
	expectString(t, testEval(t, src), "try,catch:boom,finally")
}

func TestUncaughtThrowSurfacesAsError(t *testing.T) {
	msg := testEvalErr(t, `throw new TypeError("bad");`)
	if msg != "TypeError: bad" {
		t.Errorf("expected %q, got %q", "TypeError: bad", msg)
	}
}

func TestObjectLiteralsAndPropertyAccess(t *testing.T) {
	src := `
		var p = { name: "Ada", age: 30 };
		p.name + " is " + p.age;
	`
	expectString(t, testEval(t, src), "Ada is 30")
}

func TestArrayLiteralsAndIndexing(t *testing.T) {
	src := `
		var a = [10, 20, 30];
		a[1] + a.length;
	`
	expectNumber(t, testEval(t, src), 23)
}

func TestTypeofOperator(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"typeof 1;", "number"},
		{"typeof 'x';", "string"},
		{"typeof true;", "boolean"},
		{"typeof undefined;", "undefined"},
		{"typeof undeclaredThing;", "undefined"},
		{"typeof function () {};", "function"},
		{"typeof {};", "object"},
		{"typeof null;", "object"},
	}
	for _, tt := range tests {
		expectString(t, testEval(t, tt.input), tt.want)
	}
}
