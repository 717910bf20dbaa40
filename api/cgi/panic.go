package cgi

import (
	"fmt"
	"io"
	"runtime/debug"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
)

// PanicGuard turns a panic anywhere in the request into a well formed
// "Status: 500" response before the process dies.
type PanicGuard struct {
	out  io.Writer
	once sync.Once
}

var (
	guardOnce sync.Once
	guard     *PanicGuard
)

// InstallPanicGuard returns the process wide guard writing to out. Only the
// first call installs; later calls return the same guard and ignore out.
//
//	guard := cgi.InstallPanicGuard(os.Stdout)
//	defer guard.Recover()
func InstallPanicGuard(out io.Writer) *PanicGuard {
	guardOnce.Do(func() {
		guard = &PanicGuard{out: out}
	})
	return guard
}

// Recover must be deferred directly. On panic it writes the 500 response
// (once), logs, and panics again with the original value.
func (g *PanicGuard) Recover() {
	v := recover()
	if v == nil {
		return
	}
	stack := debug.Stack()
	g.once.Do(func() {
		g.write(v, stack)
	})
	logrus.WithFields(logrus.Fields{"stack": string(stack)}).Errorf("panic: %v", v)
	panic(v)
}

// write goes straight to the sink without the header map, clock or hashing
// the Serializer uses.
func (g *PanicGuard) write(v interface{}, stack []byte) {
	body := fmt.Sprintf("panic occurred: %v\n\n%s", v, stack)
	io.WriteString(g.out, "Status: 500 Internal Server Error\r\n"+
		"Content-Type: text/plain; charset=utf-8\r\n"+
		"Content-Length: "+strconv.Itoa(len(body))+"\r\n"+
		"\r\n"+body)
	if f, ok := g.out.(interface{ Sync() error }); ok {
		f.Sync()
	}
}
