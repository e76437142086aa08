package plugin

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

// guestPackageName is the package every loaded guest module must
// declare; exports are addressed as guestPackageName + "." + symbol.
const guestPackageName = "plugin"

type guestABI struct {
	alloc   func(int) int
	dealloc func(int, int)
	init    func() bool
	process func(int, int) (int, int)
}

// Instance is one loaded, sandboxed plugin: an interpreted guest
// module plus its execution budget and accumulated metrics.
type Instance struct {
	mu       sync.Mutex
	id       ID
	manifest Manifest
	config   RuntimeConfig
	limits   ExecutionLimits
	state    State
	metrics  Metrics

	interp *interp.Interpreter
	mem    guestMemory
	abi    guestABI
}

// loadInstance interprets source as the guest module and resolves its
// alloc/dealloc/init/process ABI, failing with a security error if any
// required export is missing or malformed.
func loadInstance(id ID, manifest Manifest, source string, config RuntimeConfig) (*Instance, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, errExecution("failed to load stdlib into guest interpreter: " + err.Error())
	}
	if _, err := i.Eval(source); err != nil {
		return nil, errSecurity("failed to load guest module: " + err.Error())
	}

	alloc, err := guestFunc[func(int) int](i, guestPackageName, "Alloc")
	if err != nil {
		return nil, err
	}
	dealloc, err := guestFunc[func(int, int)](i, guestPackageName, "Dealloc")
	if err != nil {
		return nil, err
	}
	initFn, err := guestFunc[func() bool](i, guestPackageName, "Init")
	if err != nil {
		return nil, err
	}
	process, err := guestFunc[func(int, int) (int, int)](i, guestPackageName, "Process")
	if err != nil {
		return nil, err
	}

	inst := &Instance{
		id:       id,
		manifest: manifest,
		config:   config,
		limits:   limitsFromConfig(config),
		state:    StateLoaded,
		interp:   i,
		mem:      guestMemory{interp: i, pkg: guestPackageName},
		abi:      guestABI{alloc: alloc, dealloc: dealloc, init: initFn, process: process},
	}
	return inst, nil
}

// Execute runs function/process against context and input, decoding
// the JSON response into out. Runtime failures (deadline exceeded, a
// guest panic, malformed guest output) are execution errors and leave the instance
// loaded with metrics reflecting the failure.
func (inst *Instance) Execute(ctx context.Context, input interface{}, out interface{}) error {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	start := time.Now()
	inst.state = StateExecuting
	inst.metrics.TotalExecutions++

	deadline, cancel := context.WithTimeout(ctx, inst.limits.WallTimeLimit)
	defer cancel()

	result := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				result <- errExecution("plugin trapped during execution")
			}
		}()
		result <- inst.callGuest(input, out)
	}()

	var execErr error
	select {
	case execErr = <-result:
	case <-deadline.Done():
		execErr = errExecution("plugin execution exceeded wall-clock deadline")
	}

	elapsed := time.Since(start)
	inst.recordExecution(elapsed, execErr)
	inst.state = StateReady
	return execErr
}

func (inst *Instance) callGuest(input interface{}, out interface{}) error {
	payload, err := json.Marshal(input)
	if err != nil {
		return errExecution("failed to serialize plugin context: " + err.Error())
	}

	if !inst.abi.init() {
		return errExecution("guest Init() returned false")
	}

	inPtr := inst.abi.alloc(len(payload))
	if err := inst.mem.Write(inPtr, payload); err != nil {
		return err
	}

	outPtr, outLen := inst.abi.process(inPtr, len(payload))
	output, err := inst.mem.Read(outPtr, outLen)
	if err != nil {
		return err
	}
	inst.abi.dealloc(inPtr, len(payload))
	inst.abi.dealloc(outPtr, outLen)

	if err := json.Unmarshal(output, out); err != nil {
		return errExecution("failed to deserialize plugin result: " + err.Error())
	}
	return nil
}

func (inst *Instance) recordExecution(elapsed time.Duration, err error) {
	ms := float64(elapsed.Milliseconds())
	n := float64(inst.metrics.TotalExecutions)
	inst.metrics.AvgExecutionTimeMs = (inst.metrics.AvgExecutionTimeMs*(n-1) + ms) / n
	if int64(ms) > inst.metrics.MaxExecutionTimeMs {
		inst.metrics.MaxExecutionTimeMs = int64(ms)
	}

	log := logging.Get(logging.CategoryPlugin)
	if err != nil {
		inst.metrics.FailedExecutions++
		log.Warn("plugin %s execution failed after %dms: %v", inst.id, int64(ms), err)
		return
	}
	inst.metrics.SuccessfulExecutions++
	log.Debug("plugin %s execution completed in %dms", inst.id, int64(ms))
}

// Health reports the instance's current status.
func (inst *Instance) Health() Health {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return Health{Healthy: inst.state != StateUnloaded, Message: "plugin is running", Metrics: inst.metrics}
}

// Metrics returns a copy of this instance's accumulated metrics.
func (inst *Instance) Metrics() Metrics {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.metrics
}

func (inst *Instance) unload() {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.state = StateUnloading
	inst.state = StateUnloaded
}
