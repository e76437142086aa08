package plugin

import (
	"github.com/traefik/yaegi/interp"
)

// guestMemory bridges host and guest access to a loaded module's
// exported `var Memory []byte`, simulating WASM linear memory: the
// guest's own Alloc grows the slice, and the host re-reads the slice
// header after every Alloc call so writes land on the current
// backing array.
type guestMemory struct {
	interp *interp.Interpreter
	pkg    string
}

func (m guestMemory) current() ([]byte, error) {
	v, err := m.interp.Eval(m.pkg + ".Memory")
	if err != nil {
		return nil, errExecution("guest module has no Memory variable: " + err.Error())
	}
	buf, ok := v.Interface().([]byte)
	if !ok {
		return nil, errExecution("guest Memory is not a []byte")
	}
	return buf, nil
}

// Write copies data into the guest's memory starting at ptr.
func (m guestMemory) Write(ptr int, data []byte) error {
	buf, err := m.current()
	if err != nil {
		return err
	}
	if ptr < 0 || ptr+len(data) > len(buf) {
		return errExecution("guest memory write out of bounds")
	}
	copy(buf[ptr:], data)
	return nil
}

// Read copies n bytes out of guest memory starting at ptr.
func (m guestMemory) Read(ptr, n int) ([]byte, error) {
	buf, err := m.current()
	if err != nil {
		return nil, err
	}
	if ptr < 0 || n < 0 || ptr+n > len(buf) {
		return nil, errExecution("guest memory read out of bounds")
	}
	out := make([]byte, n)
	copy(out, buf[ptr:ptr+n])
	return out, nil
}

func guestFunc[T any](i *interp.Interpreter, pkg, name string) (T, error) {
	var zero T
	v, err := i.Eval(pkg + "." + name)
	if err != nil {
		return zero, errSecurity("guest module must export '" + name + "'")
	}
	fn, ok := v.Interface().(T)
	if !ok {
		return zero, errSecurity("guest export '" + name + "' has the wrong signature")
	}
	return fn, nil
}
