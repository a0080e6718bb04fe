// Package dbg maps arbitrary values to stable readable names for log
// output. A pointer string like 0xc0001234a0 tells you nothing when two
// tree nodes differ by one digit; a pet name does.
package dbg

import (
	"fmt"
	"reflect"
	"sync"
	"unicode"

	petname "github.com/dustinkirkland/golang-petname"
)

// The memo is never pruned. It grows only while something is actually
// logging, which keeps the leak theoretical in practice. Names are handed
// out in demand order and nondeterministically, so the same name never
// refers to the same value across runs.

var (
	mu   sync.Mutex
	memo = make(map[interface{}]string)
)

func init() {
	petname.NonDeterministicMode()
}

// Name returns the memoized pet name of obj. Nil values share one name.
func Name(obj interface{}) string {
	if v := reflect.ValueOf(obj); !v.IsValid() || v.IsNil() {
		return "Ø"
	}

	mu.Lock()
	defer mu.Unlock()
	if r, ok := memo[obj]; ok {
		return r
	}
	r := fmt.Sprintf("%s%s", capitalize(petname.Adjective()), capitalize(petname.Name()))
	memo[obj] = r
	return r
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
