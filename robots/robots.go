// Package robots compiles per-environment crawler rules into robots.txt lines.
package robots

import (
	"strings"
)

const (
	userAgentPrefix = "User-agent: "
	disallowPrefix  = "Disallow: "
	allowPrefix     = "Allow: "
	sitemapPrefix   = "Sitemap: "
)

// DirectiveSet holds the paths for one user agent.  Either slice may be empty.
type DirectiveSet struct {
	Disallow []string `yaml:"disallow"`
	Allow    []string `yaml:"allow"`
}

// Agent is one user agent block.
type Agent struct {
	Name       string
	Directives DirectiveSet
}

// Agents is an ordered list of user agent blocks.  Output order follows
// declaration order, so this is a slice and not a map.
type Agents []Agent

// EnvironmentRule is the configuration for a single environment.
type EnvironmentRule struct {
	Paths    Agents   `yaml:"paths"`
	Sitemaps []string `yaml:"sitemaps"`
}

// SitemapSettings controls how sitemap entries are written.
type SitemapSettings struct {
	// UseAppHost makes sitemap entries absolute.  nil means true; only an
	// explicit false writes the configured string unchanged.
	UseAppHost *bool `yaml:"use_app_host"`
}

// Settings are the rules-file wide settings.
type Settings struct {
	Sitemaps SitemapSettings `yaml:"sitemaps"`
}

// UseAppHost reports whether sitemap entries should be resolved to
// absolute URLs.
func (s Settings) UseAppHost() bool {
	return s.Sitemaps.UseAppHost == nil || *s.Sitemaps.UseAppHost
}

// Configuration is an environment-keyed snapshot of the rules file.
type Configuration struct {
	Environments map[string]*EnvironmentRule `yaml:"environments"`
	Settings     Settings                    `yaml:"settings"`
}

// Environment returns the rule for env, or nil.
func (c *Configuration) Environment(env string) *EnvironmentRule {
	if c == nil {
		return nil
	}
	return c.Environments[env]
}

// EnvironmentNames lists the configured environments.  Map order is not
// preserved, so callers that print these should sort them.
func (c *Configuration) EnvironmentNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	return names
}

// URLResolver turns a configured sitemap path into an absolute URL.
type URLResolver interface {
	ResolveURL(path string) string
}

// URLResolverFunc adapts a function to URLResolver.
type URLResolverFunc func(path string) string

func (f URLResolverFunc) ResolveURL(path string) string {
	return f(path)
}

// DefaultRule is served when the current environment has no paths.
func DefaultRule() []string {
	return []string{userAgentPrefix + "*", disallowPrefix + "/"}
}

// Compile produces the robots.txt lines for env.
//
// An environment that is missing, or that has no user agents, gets
// DefaultRule and nothing else.  Sitemap lines follow every user agent block.
// resolver may be nil only if UseAppHost is false or there are no sitemaps.
func Compile(cfg *Configuration, env string, settings Settings, resolver URLResolver) []string {
	rule := cfg.Environment(env)
	if rule == nil || len(rule.Paths) == 0 {
		return DefaultRule()
	}

	lines := []string{}
	for _, agent := range rule.Paths {
		lines = append(lines, userAgentPrefix+agent.Name)
		for _, path := range agent.Directives.Disallow {
			lines = append(lines, disallowPrefix+path)
		}
		for _, path := range agent.Directives.Allow {
			lines = append(lines, allowPrefix+path)
		}
	}

	useAppHost := settings.UseAppHost()
	for _, sitemap := range rule.Sitemaps {
		if useAppHost {
			sitemap = resolver.ResolveURL(sitemap)
		}
		lines = append(lines, sitemapPrefix+sitemap)
	}

	return lines
}

// Text joins compiled lines into a response body.
func Text(lines []string) string {
	return strings.Join(lines, "\n")
}
