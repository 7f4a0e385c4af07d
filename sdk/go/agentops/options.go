package agentops

import (
	"github.com/eliu243/agentops-sdk/internal/config"
	"github.com/eliu243/agentops-sdk/internal/event"
)

// Option configures a Client at creation time. Options apply in order, on
// top of the config file when one is given.
type Option func(*settings)

type settings struct {
	configFile string
	mutators   []func(*config.Config)
	classifier Classifier
	emitter    event.Emitter
	logEvents  bool
}

func (s *settings) mutate(f func(*config.Config)) {
	s.mutators = append(s.mutators, f)
}

// WithConfigFile loads a YAML config file before applying other options.
func WithConfigFile(path string) Option {
	return func(s *settings) { s.configFile = path }
}

// WithServerURL sets the collector endpoint.
func WithServerURL(url string) Option {
	return func(s *settings) { s.mutate(func(c *config.Config) { c.ServerURL = url }) }
}

// WithAPIKey sets the collector auth token.
func WithAPIKey(key string) Option {
	return func(s *settings) { s.mutate(func(c *config.Config) { c.APIKey = key }) }
}

// WithProject sets the project label grouping runs.
func WithProject(project string) Option {
	return func(s *settings) { s.mutate(func(c *config.Config) { c.Project = project }) }
}

// WithMaxLLMCalls sets the per-run action budget (floor 1).
func WithMaxLLMCalls(n int) Option {
	return func(s *settings) { s.mutate(func(c *config.Config) { c.MaxLLMCalls = n }) }
}

// WithBlockOnViolation controls whether egress violations abort the call.
// Violations are recorded either way.
func WithBlockOnViolation(block bool) Option {
	return func(s *settings) { s.mutate(func(c *config.Config) { c.BlockOnViolation = block }) }
}

// WithHTTPMonitoring controls a2a_http_call telemetry on Transport.
func WithHTTPMonitoring(enabled bool) Option {
	return func(s *settings) { s.mutate(func(c *config.Config) { c.MonitorHTTP = enabled }) }
}

// WithForbidden adds substrings to the deny-list.
func WithForbidden(patterns ...string) Option {
	return func(s *settings) {
		s.mutate(func(c *config.Config) { c.Forbidden = append(c.Forbidden, patterns...) })
	}
}

// WithDenylistFile points at a YAML pattern file for extra forbidden
// substrings. WatchDenylist hot-reloads it.
func WithDenylistFile(path string) Option {
	return func(s *settings) { s.mutate(func(c *config.Config) { c.DenylistPath = path }) }
}

// WithLLMPolicy enables the semantic policy stage with the given model
// (empty means the default).
func WithLLMPolicy(model string) Option {
	return func(s *settings) {
		s.mutate(func(c *config.Config) {
			c.EnableLLMPolicy = true
			if model != "" {
				c.LLMPolicyModel = model
			}
		})
	}
}

// WithLLMPolicyAfterKeyword runs the semantic stage even after a keyword
// deny and merges both results.
func WithLLMPolicyAfterKeyword() Option {
	return func(s *settings) { s.mutate(func(c *config.Config) { c.LLMPolicyAfterKeyword = true }) }
}

// WithClassifierEndpoint points the semantic stage at an OpenAI-compatible
// chat completions endpoint.
func WithClassifierEndpoint(url, apiKey string) Option {
	return func(s *settings) {
		s.mutate(func(c *config.Config) {
			c.ClassifierURL = url
			c.ClassifierAPIKey = apiKey
		})
	}
}

// WithClassifier plugs in a custom semantic capability, replacing the HTTP
// classifier.
func WithClassifier(cl Classifier) Option {
	return func(s *settings) { s.classifier = cl }
}

// WithLogEvents additionally writes every emitted event to the process log.
// Useful for local development without a collector.
func WithLogEvents() Option {
	return func(s *settings) { s.logEvents = true }
}

// withEmitter replaces the emitter entirely. Test hook.
func withEmitter(em event.Emitter) Option {
	return func(s *settings) { s.emitter = em }
}
