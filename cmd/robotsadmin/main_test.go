package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ts4z/robotstxt/assets"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeRules(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "robots-txt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

const rules = `
environments:
  production:
    paths:
      "*": { disallow: ["/admin"], allow: ["/admin/public"] }
      bot1:
    sitemaps: [sitemap.xml]
  staging:
    paths: {}
settings:
  sitemaps: { use_app_host: true }
`

func TestRender(t *testing.T) {
	path := writeRules(t, rules)

	out, err := run(t, "render", "--rules", path, "--env", "production", "--app-url", "https://example.com")
	require.NoError(t, err)
	assert.Equal(t,
		"User-agent: *\nDisallow: /admin\nAllow: /admin/public\nUser-agent: bot1\nSitemap: https://example.com/sitemap.xml\n",
		out)

	out, err = run(t, "render", "--rules", path, "--env", "staging")
	require.NoError(t, err)
	assert.Equal(t, "User-agent: *\nDisallow: /\n", out)
}

func TestRenderDefaultsToLocalhost(t *testing.T) {
	path := writeRules(t, rules)
	t.Setenv("ROBOTS_APP_URL", "")

	out, err := run(t, "render", "--rules", path, "--env", "production")
	require.NoError(t, err)
	assert.Contains(t, out, "Sitemap: http://localhost/sitemap.xml\n")
}

func TestCheck(t *testing.T) {
	path := writeRules(t, rules)

	out, err := run(t, "check", "--rules", path)
	require.NoError(t, err)
	assert.Contains(t, out, "use_app_host: true\n")
	assert.Contains(t, out, "production: 2 user agents, 1 sitemaps\n")
	assert.Contains(t, out, "  *: 1 disallow, 1 allow\n")
	assert.Contains(t, out, "  bot1: 0 disallow, 0 allow\n")
	assert.Contains(t, out, "staging: no user agents, disallows all\n")
}

func TestCheckReportsBrokenFile(t *testing.T) {
	path := writeRules(t, "environments: {production: {paths: [oops]}}\n")

	_, err := run(t, "check", "--rules", path)
	assert.ErrorContains(t, err, "paths must be a mapping")
}

func TestPublish(t *testing.T) {
	out := filepath.Join(t.TempDir(), "config", "robots-txt.yaml")

	msg, err := run(t, "publish", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, msg, out)

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, assets.DefaultRules, written)

	_, err = run(t, "publish", "--out", out)
	assert.ErrorContains(t, err, "already exists")

	require.NoError(t, os.WriteFile(out, []byte("edited"), 0o644))
	_, err = run(t, "publish", "--out", out, "--force")
	require.NoError(t, err)
	written, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, assets.DefaultRules, written)
}

func TestCheckMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	out, err := run(t, "check", "--rules", path)
	assert.ErrorContains(t, err, path+": not found")
	assert.NotContains(t, out, "ok")
}
