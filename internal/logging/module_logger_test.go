package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
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
	logger := ModuleLogger(nil, "sitegen.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	logger := ModuleLogger(provider, pagesModule)

	if len(provider.requested) != 1 || provider.requested[0] != pagesModule {
		t.Fatalf("expected module %s, got %v", pagesModule, provider.requested)
	}
	if len(rec.fields) != 1 {
		t.Fatalf("expected module fields to be applied once, got %d", len(rec.fields))
	}
	if got := rec.fields[0]["module"]; got != pagesModule {
		t.Fatalf("expected module field %s, got %v", pagesModule, got)
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

func TestNamedLoggersRequestTheirModules(t *testing.T) {
	cases := map[string]func(interfaces.LoggerProvider) interfaces.Logger{
		pagesModule:     PagesLogger,
		shortcodeModule: ShortcodeLogger,
		templateModule:  TemplateLogger,
		generatorModule: GeneratorLogger,
	}
	for module, fn := range cases {
		provider := &stubProvider{logger: &recordingLogger{}}
		_ = fn(provider)
		if len(provider.requested) == 0 || provider.requested[0] != module {
			t.Fatalf("expected %s module request, got %v", module, provider.requested)
		}
	}
}

func TestWithPageContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}
	_ = WithPageContext(rec, " blog/post.md ", "", "blog/post/index.html")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one fields call, got %d", len(rec.fields))
	}
	fields := rec.fields[0]
	if fields[fieldSourcePath] != "blog/post.md" {
		t.Fatalf("expected trimmed source path, got %v", fields[fieldSourcePath])
	}
	if _, ok := fields[fieldTemplate]; ok {
		t.Fatalf("expected empty template to be skipped, got %v", fields)
	}
	if fields[fieldOutputPath] != "blog/post/index.html" {
		t.Fatalf("unexpected output path field %v", fields[fieldOutputPath])
	}
}

func TestContextFieldsMergeAndCopy(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"build": "a"})
	ctx = ContextWithFields(ctx, map[string]any{"page": "index.html"})

	fields := ContextFields(ctx)
	if fields["build"] != "a" || fields["page"] != "index.html" {
		t.Fatalf("expected merged fields, got %v", fields)
	}

	fields["build"] = "mutated"
	if ContextFields(ctx)["build"] != "a" {
		t.Fatal("expected ContextFields to return a copy")
	}

	rec := &recordingLogger{}
	_ = FromContext(ctx, rec)
	if len(rec.fields) != 1 || rec.fields[0]["page"] != "index.html" {
		t.Fatalf("expected context fields on logger, got %v", rec.fields)
	}
}
