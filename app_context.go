package main

import "context"

// setRuntimeContext stores the Wails context handed to startup. Hotkey, IPC
// and capture goroutines read it concurrently.
func (a *App) setRuntimeContext(ctx context.Context) {
	a.ctxMu.Lock()
	defer a.ctxMu.Unlock()
	a.ctx = ctx
}

// runtimeContext returns nil before startup. Callers drop UI work in that case.
func (a *App) runtimeContext() context.Context {
	a.ctxMu.RLock()
	defer a.ctxMu.RUnlock()
	return a.ctx
}
