package steps

import (
	"bytes"
	"fmt"
	"slices"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/systemstart/bootstrap/pkg/credentials"
)

// RenderString renders a single templated value against the step's
// template data. The credential func resolves secrets at render time;
// referencing an unconfigured credential is an error, so steps that may
// legitimately lack one must be gated with a credential condition.
func RenderString(name, text string, ctx StepContext) (string, error) {
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(sprig.FuncMap()).
		Funcs(template.FuncMap{"credential": credentialFunc(ctx.Credentials)}).
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template %q: %w", text, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx.TemplateData); err != nil {
		return "", fmt.Errorf("rendering %q: %w", text, err)
	}
	return buf.String(), nil
}

// RenderArgs renders every argument in order.
func RenderArgs(name string, args []string, ctx StepContext) ([]string, error) {
	rendered := make([]string, 0, len(args))
	for _, arg := range args {
		v, err := RenderString(name, arg, ctx)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, v)
	}
	return rendered, nil
}

// RenderEnv renders a KEY: value map into sorted KEY=VALUE entries.
func RenderEnv(name string, env map[string]string, ctx StepContext) ([]string, error) {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	entries := make([]string, 0, len(keys))
	for _, k := range keys {
		v, err := RenderString(name, env[k], ctx)
		if err != nil {
			return nil, err
		}
		entries = append(entries, k+"="+v)
	}
	return entries, nil
}

func credentialFunc(source credentials.Source) func(string) (string, error) {
	return func(key string) (string, error) {
		if source == nil {
			return "", fmt.Errorf("no credential source configured")
		}
		v, ok, err := source.Resolve(key)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("credential %q is not configured", key)
		}
		return v, nil
	}
}
