package global

import (
	"github.com/es5box/es5box/internal/evaluator"
	"github.com/es5box/es5box/internal/scope"
	"github.com/es5box/es5box/internal/value"
	"github.com/robertkrimen/otto/parser"
)

// arrayPolyfillSource implements Array.prototype's callback-iteration
// methods as ordinary ES5, the way a script could have written them
// itself, rather than as native Go: each is specified in terms of
// repeated calls to a user-supplied callback, which only makes sense to
// drive through the same step machine user code runs on.
const arrayPolyfillSource = `
(function () {
  function toObject(v) {
    return v;
  }
  Array.prototype.forEach = function (callback, thisArg) {
    var obj = toObject(this);
    var len = obj.length >>> 0;
    for (var i = 0; i < len; i++) {
      if (i in obj) {
        callback.call(thisArg, obj[i], i, obj);
      }
    }
  };
  Array.prototype.map = function (callback, thisArg) {
    var obj = toObject(this);
    var len = obj.length >>> 0;
    var out = new Array(len);
    for (var i = 0; i < len; i++) {
      if (i in obj) {
        out[i] = callback.call(thisArg, obj[i], i, obj);
      }
    }
    return out;
  };
  Array.prototype.filter = function (callback, thisArg) {
    var obj = toObject(this);
    var len = obj.length >>> 0;
    var out = [];
    for (var i = 0; i < len; i++) {
      if (i in obj && callback.call(thisArg, obj[i], i, obj)) {
        out.push(obj[i]);
      }
    }
    return out;
  };
  Array.prototype.some = function (callback, thisArg) {
    var obj = toObject(this);
    var len = obj.length >>> 0;
    for (var i = 0; i < len; i++) {
      if (i in obj && callback.call(thisArg, obj[i], i, obj)) {
        return true;
      }
    }
    return false;
  };
  Array.prototype.every = function (callback, thisArg) {
    var obj = toObject(this);
    var len = obj.length >>> 0;
    for (var i = 0; i < len; i++) {
      if (i in obj && !callback.call(thisArg, obj[i], i, obj)) {
        return false;
      }
    }
    return true;
  };
  Array.prototype.reduce = function (callback, initialValue) {
    var obj = toObject(this);
    var len = obj.length >>> 0;
    var i = 0;
    var acc;
    var haveAcc = arguments.length > 1;
    if (haveAcc) {
      acc = initialValue;
    }
    for (; i < len; i++) {
      if (i in obj) {
        if (!haveAcc) {
          acc = obj[i];
          haveAcc = true;
          continue;
        }
        acc = callback(acc, obj[i], i, obj);
      }
    }
    if (!haveAcc) {
      throw new TypeError("Reduce of empty array with no initial value");
    }
    return acc;
  };
  Array.prototype.reduceRight = function (callback, initialValue) {
    var obj = toObject(this);
    var len = obj.length >>> 0;
    var i = len - 1;
    var acc;
    var haveAcc = arguments.length > 1;
    if (haveAcc) {
      acc = initialValue;
    }
    for (; i >= 0; i--) {
      if (i in obj) {
        if (!haveAcc) {
          acc = obj[i];
          haveAcc = true;
          continue;
        }
        acc = callback(acc, obj[i], i, obj);
      }
    }
    if (!haveAcc) {
      throw new TypeError("Reduce of empty array with no initial value");
    }
    return acc;
  };
  Array.prototype.indexOf = function (searchElement, fromIndex) {
    var obj = toObject(this);
    var len = obj.length >>> 0;
    if (len === 0) {
      return -1;
    }
    var n = fromIndex | 0;
    if (n >= len) {
      return -1;
    }
    var k = n >= 0 ? n : len - Math.abs(n);
    if (k < 0) {
      k = 0;
    }
    for (; k < len; k++) {
      if (k in obj && obj[k] === searchElement) {
        return k;
      }
    }
    return -1;
  };
  Array.prototype.lastIndexOf = function (searchElement, fromIndex) {
    var obj = toObject(this);
    var len = obj.length >>> 0;
    if (len === 0) {
      return -1;
    }
    var n = arguments.length > 1 ? fromIndex | 0 : len - 1;
    var k = n >= 0 ? Math.min(n, len - 1) : len - Math.abs(n);
    for (; k >= 0; k--) {
      if (k in obj && obj[k] === searchElement) {
        return k;
      }
    }
    return -1;
  };
})();
`

// installPolyfills compiles and runs arrayPolyfillSource to completion
// on the just-built global scope, then stamps every installed method as
// Polyfill so its frames run invisibly under a script's step budget
// instead of surfacing as user-visible steps.
func installPolyfills(ev *evaluator.Evaluator, sc *scope.Scope) {
	program, err := parser.ParseFile(nil, "<builtin>", arrayPolyfillSource, 0)
	if err != nil {
		panic("global: array polyfill source failed to parse: " + err.Error())
	}
	ev.PushProgram(program, sc)
	if _, err := ev.Run(); err != nil {
		panic("global: array polyfill source failed to run: " + err.Error())
	}
	// Drop the finished bootstrap program so the user program's frame is
	// the only program frame LastValue and AppendStatements can find.
	ev.Stack = evaluator.NewStack()

	arraySlot := sc.Object.OwnSlot("Array")
	if arraySlot == nil {
		return
	}
	arrayCtor, ok := arraySlot.Value.(*value.Object)
	if !ok {
		return
	}
	protoVal, err := value.GetProperty(arrayCtor, "prototype")
	if err != nil {
		return
	}
	proto, ok := protoVal.Value.(*value.Object)
	if !ok {
		return
	}
	for _, method := range []string{
		"forEach", "map", "filter", "some", "every",
		"reduce", "reduceRight", "indexOf", "lastIndexOf",
	} {
		if slot := proto.OwnSlot(method); slot != nil {
			if fn, ok := slot.Value.(*value.Object); ok {
				fn.Polyfill = true
			}
		}
	}
}
