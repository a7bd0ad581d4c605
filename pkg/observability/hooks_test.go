package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopExportHooks{}
	e.OnExportStart(ctx, "obz", 3)
	e.OnExportComplete(ctx, "obz", 2048, time.Second, nil)
	e.OnBoardSkipped(ctx, "empty", "no tiles")

	r := NoopResourceHooks{}
	r.OnResolve(ctx, "url", 512, time.Millisecond)
	r.OnFallback(ctx, "https://example.org/missing.png", errors.New("404"))

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "fetch")
	c.OnCacheMiss(ctx, "fetch")
	c.OnCacheSet(ctx, "raster", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "example.org", "/symbols/eat.png")
	h.OnResponse(ctx, "GET", "example.org", "/symbols/eat.png", 200, time.Second)
	h.OnError(ctx, "GET", "example.org", "/symbols/eat.png", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Export().(NoopExportHooks); !ok {
		t.Error("Export() should return NoopExportHooks by default")
	}
	if _, ok := Resource().(NoopResourceHooks); !ok {
		t.Error("Resource() should return NoopResourceHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customExport := &testExportHooks{}
	SetExportHooks(customExport)
	if Export() != customExport {
		t.Error("SetExportHooks should set custom hooks")
	}

	customResource := &testResourceHooks{}
	SetResourceHooks(customResource)
	if Resource() != customResource {
		t.Error("SetResourceHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Export().(NoopExportHooks); !ok {
		t.Error("Reset() should restore NoopExportHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testExportHooks{}
	SetExportHooks(custom)

	// Setting nil should be ignored
	SetExportHooks(nil)

	if Export() != custom {
		t.Error("SetExportHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testExportHooks struct{ NoopExportHooks }
type testResourceHooks struct{ NoopResourceHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
