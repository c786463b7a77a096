package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	"github.com/google/uuid"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	if fields == nil {
		fields = map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "cms.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	// Ensure WithContext/WithFields do not panic.
	ctx := context.Background()
	logger = logger.WithContext(ctx)
	logger = WithFields(logger, map[string]any{"foo": "bar"})
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	logger := ModuleLogger(provider, workflowModule)

	if len(provider.requested) != 1 || provider.requested[0] != workflowModule {
		t.Fatalf("expected module %s, got %v", workflowModule, provider.requested)
	}

	if len(rec.fields) != 1 {
		t.Fatalf("expected module fields to be applied once, got %d", len(rec.fields))
	}

	if got, ok := rec.fields[0]["module"]; !ok || got != workflowModule {
		t.Fatalf("expected module field %s, got %v", workflowModule, rec.fields[0]["module"])
	}

	logger.Info("with provider")
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if len(provider.requested) != 1 || provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
	if rec.fields[0]["module"] != rootModule {
		t.Fatalf("expected module field %s, got %v", rootModule, rec.fields[0]["module"])
	}
}

func TestWorkflowLoggerRequestsWorkflowModule(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	_ = WorkflowLogger(provider)
	if len(provider.requested) == 0 || provider.requested[0] != workflowModule {
		t.Fatalf("expected workflow module request, got %v", provider.requested)
	}
}

func TestFoldersLoggerRequestsFoldersModule(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	_ = FoldersLogger(provider)
	if len(provider.requested) == 0 || provider.requested[0] != foldersModule {
		t.Fatalf("expected folders module request, got %v", provider.requested)
	}
}

func TestWithWalkContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	_ = WithWalkContext(rec, " /site/news ", "")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	if rec.fields[0][fieldPath] != "/site/news" {
		t.Fatalf("expected trimmed path, got %v", rec.fields[0][fieldPath])
	}
	if _, ok := rec.fields[0][fieldOutcome]; ok {
		t.Fatalf("expected empty outcome to be skipped")
	}
}

func TestWithItemIgnoresNilID(t *testing.T) {
	rec := &recordingLogger{}

	_ = WithItem(rec, uuid.Nil)
	if len(rec.fields) != 0 {
		t.Fatalf("expected nil id to skip fields, got %v", rec.fields)
	}

	id := uuid.New()
	_ = WithItem(rec, id)
	if len(rec.fields) != 1 || rec.fields[0][fieldItemID] != id.String() {
		t.Fatalf("expected item id field, got %v", rec.fields)
	}
}
